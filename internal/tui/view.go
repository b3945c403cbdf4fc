package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framewm/internal/wm"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width == 0 {
		width = 80
	}

	var content string
	switch m.tab {
	case TabWindows:
		content = m.windowsView()
	case TabWorkspaces:
		content = m.workspacesView()
	}
	if m.adding {
		content += "\n\nNew workspace: " + m.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(width),
		renderTabBar(m.tab, width),
		content,
		"",
		m.messageLine(),
		renderHelpBar(m.tab, width),
	)
}

func (m model) statusBar(width int) string {
	var status string
	if m.connected {
		dot := currentStyle.Render("●")
		focused := "none"
		if m.status.Focused != 0 {
			focused = m.status.FocusedTitle
		}
		status = strings.Join([]string{
			dot + " framewm",
			fmt.Sprintf("workspace %d/%d %s", m.status.Workspace+1, m.status.Workspaces, m.status.WorkspaceName),
			fmt.Sprintf("%d windows, %d icons", m.status.Windows, m.status.Icons),
			"focus: " + focused,
			"style: " + m.status.Style,
		}, "  ")
	} else {
		status = dimStyle.Render("●") + " window manager not reachable"
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(status)
}

func renderTabBar(active Tab, width int) string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d:%s", int(t)+1, t)
		if t == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	out := make([]string, 0, len(items)*2-1)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}

func (m model) windowsView() string {
	if len(m.windows) == 0 {
		return dimStyle.Render("  no managed windows")
	}
	names := make(map[int]string, len(m.workspaces))
	for _, ws := range m.workspaces {
		names[ws.Index] = ws.Name
	}

	lines := []string{headerStyle.Render(fmt.Sprintf("  %-10s %-12s %-20s %-6s %s", "ID", "WORKSPACE", "GEOMETRY", "STATE", "TITLE"))}
	for i, w := range m.windows {
		ws := names[w.Workspace]
		if w.Iconic {
			ws = "(icon)"
		}
		geometry := fmt.Sprintf("%dx%d+%d+%d", w.Frame.Width, w.Frame.Height, w.Frame.X, w.Frame.Y)
		line := fmt.Sprintf("  %-10s %-12s %-20s %-6s %s", fmt.Sprintf("0x%x", w.ID), truncate(ws, 12), geometry, stateFlags(w), w.Title)
		lines = append(lines, m.row(TabWindows, i, line, w.Focused))
	}
	return strings.Join(lines, "\n")
}

func (m model) workspacesView() string {
	if len(m.workspaces) == 0 {
		return dimStyle.Render("  no workspaces")
	}
	lines := []string{headerStyle.Render(fmt.Sprintf("  %-4s %-24s %s", "#", "NAME", "WINDOWS"))}
	for i, ws := range m.workspaces {
		line := fmt.Sprintf("  %-4d %-24s %d", ws.Index+1, truncate(ws.Name, 24), ws.Windows)
		lines = append(lines, m.row(TabWorkspaces, i, line, ws.Current))
	}
	return strings.Join(lines, "\n")
}

func (m model) row(tab Tab, i int, line string, current bool) string {
	switch {
	case m.cursor[tab] == i:
		return selectedStyle.Render(line)
	case current:
		return currentStyle.Render(line)
	}
	return line
}

func (m model) messageLine() string {
	if m.message == "" {
		return ""
	}
	if m.failed {
		return errorStyle.Render("  " + m.message)
	}
	return dimStyle.Render("  " + m.message)
}

func renderHelpBar(tab Tab, width int) string {
	help := "tab: switch  j/k: move  enter: "
	if tab == TabWindows {
		help += "activate"
	} else {
		help += "switch"
	}
	help += "  a/d: add/remove workspace  i m s t x + -: focused window  [ ]: workspace  c: reconfigure  r: reload  q: quit"
	return lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(help)
}

func stateFlags(w wm.WindowInfo) string {
	var b strings.Builder
	if w.Focused {
		b.WriteByte('f')
	}
	if w.Iconic {
		b.WriteByte('i')
	}
	if w.Shaded {
		b.WriteByte('s')
	}
	if w.Stuck {
		b.WriteByte('S')
	}
	if w.Maximized != "" && w.Maximized != "none" {
		b.WriteByte('m')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
