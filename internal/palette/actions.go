package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

// Client is the part of the control socket client the palette drives.
type Client interface {
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

const (
	actWindow          = "window:"
	actWorkspace       = "workspace:"
	actCommand         = "command:"
	actAddWorkspace    = "workspace-add"
	actRemoveWorkspace = "workspace-remove"
	actReconfigure     = "reconfigure"
	actReload          = "reload"
)

var windowCommands = []struct{ name, label, icon string }{
	{wm.CmdRaise, "Raise", "go-top"},
	{wm.CmdLower, "Lower", "go-bottom"},
	{wm.CmdIconify, "Iconify", "window-minimize"},
	{wm.CmdMaximize, "Maximize", "window-maximize"},
	{wm.CmdShade, "Shade", "go-up"},
	{wm.CmdStick, "Stick", "view-pin"},
	{wm.CmdClose, "Close", "window-close"},
}

// Build lays out the palette: windows grouped by workspace, the
// workspace list, commands for the focused window, and configuration.
func Build(spaces []wm.WorkspaceInfo, wins []wm.WindowInfo) []Entry {
	var windows []Entry
	for _, ws := range spaces {
		var rows []Entry
		for _, w := range wins {
			if w.Workspace == ws.Index && !w.Iconic {
				rows = append(rows, windowEntry(w))
			}
		}
		if len(rows) == 0 {
			continue
		}
		windows = append(windows, Entry{Item: Item{Label: ws.Name, IsHeader: true}})
		windows = append(windows, rows...)
	}
	var icons []Entry
	for _, w := range wins {
		if w.Iconic {
			icons = append(icons, windowEntry(w))
		}
	}
	if len(icons) > 0 {
		windows = append(windows, Entry{Item: Item{Label: "Icons", IsHeader: true}})
		windows = append(windows, icons...)
	}

	workspaces := make([]Entry, 0, len(spaces)+3)
	for _, ws := range spaces {
		workspaces = append(workspaces, Entry{Item: Item{
			Label:    fmt.Sprintf("%d. %s (%d)", ws.Index+1, ws.Name, ws.Windows),
			Action:   actWorkspace + strconv.Itoa(ws.Index),
			IsActive: ws.Current,
		}})
	}
	workspaces = append(workspaces,
		Entry{Item: Item{Label: "────────", IsDivider: true}},
		Entry{Item: Item{Label: "New workspace", Action: actAddWorkspace, Icon: "list-add"}},
		Entry{Item: Item{Label: "Remove last workspace", Action: actRemoveWorkspace, Icon: "list-remove"}},
	)

	window := make([]Entry, len(windowCommands))
	for i, c := range windowCommands {
		window[i] = Entry{Item: Item{Label: c.label, Action: actCommand + c.name, Icon: c.icon}}
	}

	var root []Entry
	if len(windows) > 0 {
		root = append(root, Entry{Item: Item{Label: "Windows", Icon: "preferences-system-windows"}, Submenu: windows})
	}
	root = append(root,
		Entry{Item: Item{Label: "Workspaces", Icon: "workspace-switcher"}, Submenu: workspaces},
		Entry{Item: Item{Label: "Focused window", Icon: "window"}, Submenu: window},
		Entry{Item: Item{Label: "Next workspace", Action: actCommand + wm.CmdWorkspaceNext, Icon: "go-next"}},
		Entry{Item: Item{Label: "Previous workspace", Action: actCommand + wm.CmdWorkspacePrev, Icon: "go-previous"}},
		Entry{Item: Item{Label: "Reconfigure", Action: actReconfigure, Icon: "view-refresh"}},
		Entry{Item: Item{Label: "Reload configuration", Action: actReload, Icon: "document-revert"}},
	)
	return root
}

func windowEntry(w wm.WindowInfo) Entry {
	title := w.Title
	if title == "" {
		title = fmt.Sprintf("0x%x", w.ID)
	}
	return Entry{Item: Item{
		Label:    title,
		Action:   actWindow + strconv.FormatUint(uint64(w.ID), 10),
		Meta:     fmt.Sprintf("0x%x", w.ID),
		IsActive: w.Focused,
	}}
}

// Execute runs action and describes what happened.
func Execute(c Client, action string) (string, error) {
	switch {
	case strings.HasPrefix(action, actWindow):
		id, err := strconv.ParseUint(strings.TrimPrefix(action, actWindow), 10, 32)
		if err != nil {
			return "", fmt.Errorf("bad window action %q", action)
		}
		return describe(c.Activate(uint32(id)))
	case strings.HasPrefix(action, actWorkspace):
		i, err := strconv.Atoi(strings.TrimPrefix(action, actWorkspace))
		if err != nil {
			return "", fmt.Errorf("bad workspace action %q", action)
		}
		return describe(c.SwitchWorkspace(i))
	case strings.HasPrefix(action, actCommand):
		return describe(c.Run(strings.TrimPrefix(action, actCommand)))
	case action == actAddWorkspace:
		info, err := c.AddWorkspace("")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s", info.Name), nil
	case action == actRemoveWorkspace:
		return describe(c.RemoveWorkspace())
	case action == actReconfigure:
		return "reconfigured", c.Reconfigure()
	case action == actReload:
		return "reloaded", c.Reload()
	}
	return "", fmt.Errorf("unknown palette action %q", action)
}

func describe(res *ipc.ResultData, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if res.Reason != "" {
		return res.Outcome + ": " + res.Reason, nil
	}
	return res.Outcome, nil
}

// Open lists the current state, lets the user choose through backend and
// runs the choice.
func Open(backend Backend, c Client) (string, error) {
	spaces, err := c.ListWorkspaces()
	if err != nil {
		return "", err
	}
	wins, err := c.ListWindows()
	if err != nil {
		return "", err
	}
	m := NewMenu(backend, "framewm", Build(spaces, wins))
	for _, ws := range spaces {
		if ws.Current {
			m.SetMessage("Workspace: " + ws.Name)
		}
	}
	action, err := m.Choose()
	if err != nil {
		return "", err
	}
	return Execute(c, action)
}
