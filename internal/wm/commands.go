package wm

import (
	"fmt"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// Commands that key bindings and the control socket can run. The names
// match the keys of the bindings configuration section.
const (
	CmdWorkspaceNext = "workspace_next"
	CmdWorkspacePrev = "workspace_prev"
	CmdIconify       = "iconify"
	CmdClose         = "close"
	CmdMaximize      = "maximize"
	CmdShade         = "shade"
	CmdStick         = "stick"
	CmdRaise         = "raise"
	CmdLower         = "lower"
)

// Command runs a named command. Window commands act on the focused
// window and are ignored when nothing has focus.
func (m *Manager) Command(name string) (Result, error) {
	switch name {
	case CmdWorkspaceNext:
		return m.ChangeWorkspaceBy(1), nil
	case CmdWorkspacePrev:
		return m.ChangeWorkspaceBy(-1), nil
	}

	op, ok := windowCommands[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown command %q", name)
	}
	w := m.Focused()
	if w == nil {
		return ignored(ErrNoWindow), nil
	}
	return op(m, w), nil
}

var windowCommands = map[string]func(*Manager, *Window) Result{
	CmdIconify:  func(_ *Manager, w *Window) Result { return w.Iconify() },
	CmdClose:    func(_ *Manager, w *Window) Result { return w.Close() },
	CmdMaximize: func(_ *Manager, w *Window) Result { return w.Maximize(MaximizeFull) },
	CmdShade:    func(_ *Manager, w *Window) Result { return w.Shade() },
	CmdStick:    func(_ *Manager, w *Window) Result { return w.Stick() },
	CmdRaise:    (*Manager).Raise,
	CmdLower:    (*Manager).Lower,
}

// ChangeWorkspaceBy switches delta workspaces forward or back, wrapping
// around at either end.
func (m *Manager) ChangeWorkspaceBy(delta int) Result {
	n := len(m.screen.workspaces)
	next := ((m.screen.current+delta)%n + n) % n
	return m.screen.ChangeWorkspace(next)
}

// ApplyConfig resolves the active style and policies of cfg and
// reconfigures every window with them. Workspaces named in cfg that do not
// exist yet are added; existing workspaces are renamed in order.
func (m *Manager) ApplyConfig(cfg *config.Config) error {
	cs, err := cfg.ActiveStyle()
	if err != nil {
		return err
	}
	style, err := StyleFromConfig(cs)
	if err != nil {
		return fmt.Errorf("style %s: %w", cfg.Style, err)
	}
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	for i, name := range cfg.Workspaces {
		if ws, ok := m.screen.Workspace(i); ok {
			ws.SetName(name)
			continue
		}
		m.screen.AddWorkspace(name)
	}
	m.Reconfigure(style, opts)
	return nil
}

// Activate brings the window with the given client id to the user: an
// icon is deiconified onto the current workspace, a window elsewhere
// switches the workspace to it. The window is raised and focused.
func (m *Manager) Activate(id platform.WindowID) Result {
	w := m.Window(id)
	if w == nil {
		return ignored(ErrNoWindow)
	}
	if w.iconic {
		w.Deiconify(true, true)
	} else {
		if !w.stuck && w.workspace != m.screen.current {
			if r := m.screen.ChangeWorkspace(w.workspace); !r.OK() {
				return r
			}
		}
		m.Raise(w)
	}
	if !w.SetInputFocus() {
		return ignored(ErrStale)
	}
	return applied()
}

// Raise puts w on top of its workspace's stacking order.
func (m *Manager) Raise(w *Window) Result {
	ws, ok := m.screen.Workspace(w.workspace)
	if !ok {
		return ignored(ErrNoSuchWorkspace)
	}
	ws.RaiseWindow(w)
	return applied()
}

// Lower puts w at the bottom of its workspace's stacking order.
func (m *Manager) Lower(w *Window) Result {
	ws, ok := m.screen.Workspace(w.workspace)
	if !ok {
		return ignored(ErrNoSuchWorkspace)
	}
	ws.LowerWindow(w)
	return applied()
}

// WindowInfo describes a managed window for status reporting.
type WindowInfo struct {
	ID        uint32    `json:"id"`
	Title     string    `json:"title"`
	Workspace int       `json:"workspace"`
	Frame     geom.Rect `json:"frame"`
	Focused   bool      `json:"focused"`
	Iconic    bool      `json:"iconic"`
	Shaded    bool      `json:"shaded"`
	Stuck     bool      `json:"stuck"`
	Maximized string    `json:"maximized"`
}

// WorkspaceInfo describes one workspace for status reporting.
type WorkspaceInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Windows int    `json:"windows"`
	Current bool   `json:"current"`
}

// Windows lists every managed window, workspace by workspace in window
// list order, followed by the icons in iconify order.
func (m *Manager) Windows() []WindowInfo {
	var out []WindowInfo
	for _, w := range m.screen.Windows() {
		out = append(out, WindowInfo{
			ID:        uint32(w.id),
			Title:     w.title,
			Workspace: w.workspace,
			Frame:     w.FrameRect(),
			Focused:   w.focused,
			Iconic:    w.iconic,
			Shaded:    w.shaded,
			Stuck:     w.stuck,
			Maximized: w.maximized.String(),
		})
	}
	return out
}

// Workspaces lists the workspaces in order.
func (m *Manager) Workspaces() []WorkspaceInfo {
	out := make([]WorkspaceInfo, 0, len(m.screen.workspaces))
	for i, ws := range m.screen.workspaces {
		out = append(out, WorkspaceInfo{
			Index:   i,
			Name:    ws.name,
			Windows: ws.Count(),
			Current: i == m.screen.current,
		})
	}
	return out
}
