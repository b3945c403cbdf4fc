package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the launcher closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

type launcher struct {
	command string
	caps    Capabilities
}

type rowStates struct {
	active   []int
	urgent   []int
	selected int // -1 when nothing is selectable
}

func newLauncher(command string) *launcher {
	l := &launcher{command: command}
	if command == "rofi" {
		l.caps = Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			IndexOutput:   true,
			MessageBar:    true,
			RowStates:     true,
		}
	}
	return l
}

func (l *launcher) Capabilities() Capabilities { return l.caps }

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := append([]Item(nil), items...)
	input, states := l.formatInput(rows)

	cmd := exec.Command(l.command, l.buildArgs(prompt, message, states)...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parseSelection(selection, rows)
}

func (l *launcher) buildArgs(prompt, message string, states rowStates) []string {
	if !l.caps.IndexOutput {
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	// rofi prints the row index so labels may hold anything.
	args := []string{"-dmenu", "-i", "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	if len(states.active) > 0 {
		args = append(args, "-a", joinInts(states.active))
	}
	if len(states.urgent) > 0 {
		args = append(args, "-u", joinInts(states.urgent))
	}
	if states.selected >= 0 {
		args = append(args, "-selected-row", strconv.Itoa(states.selected))
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	return args
}

// formatInput renders rows one per line. Launchers that answer with the
// label text get duplicate labels numbered so every row stays reachable.
func (l *launcher) formatInput(items []Item) (string, rowStates) {
	if !l.caps.IndexOutput {
		seen := make(map[string]int)
		for i := range items {
			if !items[i].Selectable() {
				continue
			}
			key := cleanLabel(items[i].Label)
			if n := seen[key]; n > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, n+1)
			}
			seen[key]++
		}
	}

	states := rowStates{selected: -1}
	firstActive := -1
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = l.formatItem(it)
		if !it.Selectable() {
			continue
		}
		if states.selected == -1 {
			states.selected = i
		}
		if it.IsActive {
			if firstActive == -1 {
				firstActive = i
			}
			states.active = append(states.active, i)
		}
		if it.IsUrgent {
			states.urgent = append(states.urgent, i)
		}
	}
	if firstActive != -1 {
		states.selected = firstActive
	}
	return strings.Join(lines, "\n"), states
}

// formatItem renders one row. rofi reads row properties after a single NUL
// as \x1f separated key/value pairs.
func (l *launcher) formatItem(it Item) string {
	text := cleanLabel(it.Label)
	if !l.caps.Markup {
		return text
	}
	text = html.EscapeString(text)
	switch {
	case it.IsHeader:
		text = "<b>" + text + "</b>"
	case it.IsDivider:
		text = "<span foreground='#666666'>" + text + "</span>"
	}

	var attrs []string
	if !it.Selectable() && l.caps.NonSelectable {
		attrs = append(attrs, "nonselectable", "true")
	}
	if it.Icon != "" && l.caps.Icons {
		attrs = append(attrs, "icon", cleanField(it.Icon))
	}
	if it.Meta != "" {
		attrs = append(attrs, "meta", cleanField(it.Meta))
	}
	if len(attrs) == 0 {
		return text
	}
	return text + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, it := range items {
		if cleanLabel(it.Label) == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// isCancelExit reports the exit codes launchers use for Escape and Ctrl+C.
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	}
	return false
}
