// Package palette shows window manager actions in an external dmenu-style
// launcher and runs the chosen one over the control socket.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is one row shown by a launcher.
type Item struct {
	Label     string
	Action    string
	Icon      string // rofi -show-icons
	Meta      string // hidden search keywords
	IsHeader  bool
	IsDivider bool
	IsActive  bool
	IsUrgent  bool
}

// Selectable reports whether choosing the row means anything.
func (it Item) Selectable() bool { return !it.IsHeader && !it.IsDivider }

// Capabilities describes what a launcher can render.
type Capabilities struct {
	Icons         bool
	Markup        bool
	NonSelectable bool
	IndexOutput   bool
	MessageBar    bool
	RowStates     bool
}

// Backend shows a list and returns the selected row. It returns
// ErrCancelled when the user dismisses the launcher.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
	Capabilities() Capabilities
}

var lookPath = exec.LookPath

// launchers in detection order.
var launchers = []string{"rofi", "dmenu"}

// NewBackend creates a launcher backend by name: auto, rofi or dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, l := range launchers {
			if _, err := lookPath(l); err == nil {
				return newLauncher(l), nil
			}
		}
		return nil, fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}
	for _, l := range launchers {
		if l != name {
			continue
		}
		if _, err := lookPath(l); err != nil {
			return nil, fmt.Errorf("launcher %q not found in PATH", l)
		}
		return newLauncher(l), nil
	}
	return nil, fmt.Errorf("unknown launcher %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}
