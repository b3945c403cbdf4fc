package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/framewm/internal/ipc"
	"github.com/1broseidon/framewm/internal/wm"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabWindows Tab = iota
	TabWorkspaces
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabWorkspaces:
		return "Workspaces"
	default:
		return "?"
	}
}

// snapshotMsg carries one poll of the window manager.
type snapshotMsg struct {
	status     *ipc.StatusData
	windows    []wm.WindowInfo
	workspaces []wm.WorkspaceInfo
	err        error
}

type tickMsg time.Time

// resultMsg reports an action the user triggered.
type resultMsg struct {
	text string
	err  error
}

// windowKeys run a command on the focused window.
var windowKeys = map[string]string{
	"i": wm.CmdIconify,
	"m": wm.CmdMaximize,
	"s": wm.CmdShade,
	"t": wm.CmdStick,
	"x": wm.CmdClose,
	"+": wm.CmdRaise,
	"-": wm.CmdLower,
	"]": wm.CmdWorkspaceNext,
	"[": wm.CmdWorkspacePrev,
}

type model struct {
	client  Client
	refresh time.Duration

	tab    Tab
	cursor [tabCount]int

	connected  bool
	status     ipc.StatusData
	windows    []wm.WindowInfo
	workspaces []wm.WorkspaceInfo

	message string
	failed  bool

	adding bool
	input  textinput.Model

	width  int
	height int
}

func newModel(client Client, refresh time.Duration) model {
	ti := textinput.New()
	ti.Placeholder = "workspace name (empty for default)"
	ti.CharLimit = 64
	return model{client: client, refresh: refresh, input: ti}
}

func (m model) poll() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		st, err := c.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		wins, err := c.ListWindows()
		if err != nil {
			return snapshotMsg{err: err}
		}
		spaces, err := c.ListWorkspaces()
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: st, windows: wins, workspaces: spaces}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// act runs f off the UI goroutine. The result triggers a fresh poll.
func (m model) act(f func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := f()
		return resultMsg{text: text, err: err}
	}
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

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.poll(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.poll(), m.tick())

	case snapshotMsg:
		if msg.err != nil {
			m.connected = false
			m.message, m.failed = msg.err.Error(), true
			return m, nil
		}
		if !m.connected {
			m.message, m.failed = "", false
		}
		m.connected = true
		m.status = *msg.status
		m.windows = msg.windows
		m.workspaces = msg.workspaces
		m.clampCursors()
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.message, m.failed = msg.err.Error(), true
		} else {
			m.message, m.failed = msg.text, false
		}
		return m, m.poll()

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab - 1 + tabCount) % tabCount
		return m, nil
	case "1":
		m.tab = TabWindows
		return m, nil
	case "2":
		m.tab = TabWorkspaces
		return m, nil
	case "up", "k":
		m.cursor[m.tab]--
		m.clampCursors()
		return m, nil
	case "down", "j":
		m.cursor[m.tab]++
		m.clampCursors()
		return m, nil
	case "enter":
		return m, m.activateSelected()
	case "a":
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	case "d":
		c := m.client
		return m, m.act(func() (string, error) { return describe(c.RemoveWorkspace()) })
	case "c":
		c := m.client
		return m, m.act(func() (string, error) { return "reconfigured", c.Reconfigure() })
	case "r":
		c := m.client
		return m, m.act(func() (string, error) { return "configuration reloaded", c.Reload() })
	}
	if name, ok := windowKeys[key]; ok {
		c := m.client
		return m, m.act(func() (string, error) { return describe(c.Run(name)) })
	}
	return m, nil
}

func (m model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		name := m.input.Value()
		m.adding = false
		m.input.Blur()
		c := m.client
		return m, m.act(func() (string, error) {
			info, err := c.AddWorkspace(name)
			if err != nil {
				return "", err
			}
			return "added " + info.Name, nil
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) activateSelected() tea.Cmd {
	c := m.client
	switch m.tab {
	case TabWindows:
		if len(m.windows) == 0 {
			return nil
		}
		id := m.windows[m.cursor[TabWindows]].ID
		return m.act(func() (string, error) { return describe(c.Activate(id)) })
	case TabWorkspaces:
		if len(m.workspaces) == 0 {
			return nil
		}
		idx := m.workspaces[m.cursor[TabWorkspaces]].Index
		return m.act(func() (string, error) { return describe(c.SwitchWorkspace(idx)) })
	}
	return nil
}

func (m *model) clampCursors() {
	lens := [tabCount]int{len(m.windows), len(m.workspaces)}
	for t := range m.cursor {
		m.cursor[t] = max(0, min(m.cursor[t], lens[t]-1))
	}
}
