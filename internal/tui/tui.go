// Package tui is a terminal dashboard for a running window manager. It
// lists windows and workspaces over the control socket and drives them.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

// Client is the control socket API the dashboard uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]wm.WindowInfo, error)
	ListWorkspaces() ([]wm.WorkspaceInfo, error)
	Activate(window uint32) (*ipc.ResultData, error)
	SwitchWorkspace(index int) (*ipc.ResultData, error)
	AddWorkspace(name string) (*wm.WorkspaceInfo, error)
	RemoveWorkspace() (*ipc.ResultData, error)
	Run(name string) (*ipc.ResultData, error)
	Reconfigure() error
	Reload() error
}

var _ Client = (*ipc.Client)(nil)

// DefaultRefresh is how often the dashboard polls the window manager.
const DefaultRefresh = time.Second

// Run shows the dashboard until the user quits.
func Run(client Client, refresh time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	_, err := tea.NewProgram(newModel(client, refresh), tea.WithAltScreen()).Run()
	return err
}
