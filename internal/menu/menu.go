// Package menu implements the popup menus attached to windows, workspaces
// and the icon list.
package menu

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// Kind says what a menu lists.
type Kind int

const (
	KindWindow Kind = iota
	KindWorkspace
	KindIcon
	KindRoot
)

func (k Kind) String() string {
	switch k {
	case KindWindow:
		return "window"
	case KindWorkspace:
		return "workspace"
	case KindIcon:
		return "icon"
	case KindRoot:
		return "root"
	default:
		return "unknown"
	}
}

// Item is one selectable row. Value is opaque to the menu.
type Item struct {
	Label    string
	Value    int
	Disabled bool
}

// Options controls menu metrics and colors.
type Options struct {
	ItemHeight int
	Width      int
	Background uint32
	Border     uint32
}

// DefaultOptions returns the metrics used when none are given.
func DefaultOptions() Options {
	return Options{ItemHeight: 18, Width: 160, Background: 0xdedede, Border: 0x000000}
}

// Menu is a popup list of items. A selection hides the menu and calls the
// select callback with the chosen item.
type Menu struct {
	display  platform.Display
	kind     Kind
	title    string
	items    []Item
	opts     Options
	onSelect func(Item)

	win     platform.WindowID
	pos     geom.Point
	visible bool
	hover   int
	pressed int
}

// New creates a hidden menu. The X window is created on first Show.
func New(d platform.Display, kind Kind, title string, opts Options, onSelect func(Item)) *Menu {
	if opts.ItemHeight <= 0 || opts.Width <= 0 {
		opts = DefaultOptions()
	}
	return &Menu{display: d, kind: kind, title: title, opts: opts, onSelect: onSelect, hover: -1, pressed: -1}
}

func (m *Menu) Kind() Kind                { return m.kind }
func (m *Menu) Title() string             { return m.title }
func (m *Menu) SetTitle(t string)         { m.title = t }
func (m *Menu) Visible() bool             { return m.visible }
func (m *Menu) Window() platform.WindowID { return m.win }
func (m *Menu) Position() geom.Point      { return m.pos }

// Items returns a copy of the menu's items.
func (m *Menu) Items() []Item {
	return append([]Item(nil), m.items...)
}

// SetItems replaces the item list and resizes a visible menu.
func (m *Menu) SetItems(items []Item) {
	m.items = append(m.items[:0], items...)
	if m.hover >= len(m.items) {
		m.hover = -1
	}
	if m.visible {
		_ = m.display.MoveResize(m.win, m.Rect())
	}
}

// Insert adds an item at index i, or appends when i is out of range.
func (m *Menu) Insert(i int, it Item) {
	if i < 0 || i >= len(m.items) {
		m.SetItems(append(m.Items(), it))
		return
	}
	items := m.Items()
	items = append(items[:i], append([]Item{it}, items[i:]...)...)
	m.SetItems(items)
}

// Remove deletes the item at index i.
func (m *Menu) Remove(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	items := m.Items()
	m.SetItems(append(items[:i], items[i+1:]...))
}

// Rect is the menu's screen rectangle: one title row plus one row per item.
func (m *Menu) Rect() geom.Rect {
	return geom.NewRect(m.pos.X, m.pos.Y, m.opts.Width, (len(m.items)+1)*m.opts.ItemHeight)
}

// ItemAt maps a y offset inside the menu to an item index, or -1.
func (m *Menu) ItemAt(y int) int {
	row := y/m.opts.ItemHeight - 1
	if y < 0 || row < 0 || row >= len(m.items) {
		return -1
	}
	return row
}

// Show maps the menu with its top-left corner at p, clamped to the screen.
func (m *Menu) Show(p geom.Point) error {
	m.pos = p
	m.clampToScreen()
	if m.win == platform.None {
		win, err := m.display.CreateFrame(m.Rect(), m.opts.Border)
		if err != nil {
			return err
		}
		m.win = win
		_ = m.display.SetBackgroundColor(win, m.opts.Background)
	} else if err := m.display.MoveResize(m.win, m.Rect()); err != nil {
		return err
	}
	if err := m.display.Map(m.win); err != nil {
		return err
	}
	if err := m.display.Restack([]platform.WindowID{m.win}); err != nil {
		return err
	}
	m.visible = true
	m.hover = -1
	m.pressed = -1
	return nil
}

// Move repositions a menu without changing its visibility.
func (m *Menu) Move(p geom.Point) error {
	m.pos = p
	m.clampToScreen()
	if m.win == platform.None {
		return nil
	}
	return m.display.Move(m.win, m.pos)
}

// Hide unmaps the menu. Hiding a hidden menu does nothing.
func (m *Menu) Hide() error {
	if !m.visible {
		return nil
	}
	m.visible = false
	m.hover = -1
	m.pressed = -1
	return m.display.Unmap(m.win)
}

// Destroy releases the menu's X window.
func (m *Menu) Destroy() {
	if m.win == platform.None {
		return
	}
	_ = m.display.DestroyWindow(m.win)
	m.win = platform.None
	m.visible = false
}

func (m *Menu) clampToScreen() {
	scr := m.display.ScreenRect()
	r := m.Rect()
	if r.Right() > scr.Right() {
		m.pos.X = scr.Right() - r.Width
	}
	if r.Bottom() > scr.Bottom() {
		m.pos.Y = scr.Bottom() - r.Height
	}
	m.pos.X = max(m.pos.X, scr.X)
	m.pos.Y = max(m.pos.Y, scr.Y)
}

func (m *Menu) ButtonPress(ev platform.ButtonEvent) {
	m.pressed = m.ItemAt(ev.Event.Y)
}

func (m *Menu) ButtonRelease(ev platform.ButtonEvent) {
	idx := m.ItemAt(ev.Event.Y)
	pressed := m.pressed
	m.pressed = -1
	if idx < 0 || idx != pressed || m.items[idx].Disabled {
		return
	}
	item := m.items[idx]
	_ = m.Hide()
	if m.onSelect != nil {
		m.onSelect(item)
	}
}

func (m *Menu) Motion(ev platform.MotionEvent) {
	m.hover = m.ItemAt(ev.Root.Y - m.pos.Y)
}

// Hovered is the highlighted item index, or -1.
func (m *Menu) Hovered() int { return m.hover }

func (m *Menu) Expose(ev platform.ExposeEvent) {
	if ev.Count == 0 && m.win != platform.None {
		_ = m.display.Clear(m.win)
	}
}

func (m *Menu) Enter(platform.CrossingEvent) {}
