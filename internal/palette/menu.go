package palette

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Entry is a node of a menu tree. Entries with a Submenu open it instead
// of returning an action.
type Entry struct {
	Item
	Submenu []Entry
}

const (
	backAction    = "__back__"
	submenuPrefix = "__submenu__:"
)

// Menu walks a tree of entries through a launcher, one level per Show.
type Menu struct {
	backend Backend
	root    []Entry
	prompt  string
	message string
}

// NewMenu creates a menu over root. prompt titles the top level.
func NewMenu(backend Backend, prompt string, root []Entry) *Menu {
	return &Menu{backend: backend, prompt: prompt, root: root}
}

// SetMessage sets the text of the launcher's message bar.
func (m *Menu) SetMessage(msg string) { m.message = msg }

// Choose returns the action of the selected leaf, or ErrCancelled.
func (m *Menu) Choose() (string, error) {
	return m.level(m.root, []string{m.prompt})
}

func (m *Menu) level(entries []Entry, path []string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("palette: empty menu %q", path[len(path)-1])
	}
	nested := len(path) > 1

	for {
		rows := make([]Item, 0, len(entries)+1)
		if nested {
			rows = append(rows, Item{Label: "← Back", Action: backAction, Icon: "go-previous"})
		}
		for i, e := range entries {
			row := e.Item
			if len(e.Submenu) > 0 {
				row.Label += " →"
				row.Action = submenuPrefix + strconv.Itoa(i)
				if row.Icon == "" {
					row.Icon = "folder"
				}
			}
			rows = append(rows, row)
		}

		picked, err := m.backend.Show(path[len(path)-1], rows, m.message)
		if err != nil {
			return "", err
		}
		// Not every launcher can refuse headers.
		if !picked.Selectable() || picked.Action == "" {
			continue
		}
		if picked.Action == backAction {
			return "", ErrCancelled
		}
		if rest, ok := strings.CutPrefix(picked.Action, submenuPrefix); ok {
			i, err := strconv.Atoi(rest)
			if err != nil || i < 0 || i >= len(entries) {
				continue
			}
			action, err := m.level(entries[i].Submenu, append(slices.Clip(path), entries[i].Label))
			if errors.Is(err, ErrCancelled) {
				// Back or Escape in a submenu returns here.
				continue
			}
			return action, err
		}
		return picked.Action, nil
	}
}
