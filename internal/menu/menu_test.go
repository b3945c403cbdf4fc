package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// fakeDisplay implements the calls a menu makes. Anything else panics
// through the nil embedded interface.
type fakeDisplay struct {
	platform.Display
	rects   map[platform.WindowID]geom.Rect
	mapped  map[platform.WindowID]bool
	created int
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{rects: map[platform.WindowID]geom.Rect{}, mapped: map[platform.WindowID]bool{}}
}

func (d *fakeDisplay) ScreenRect() geom.Rect { return geom.NewRect(0, 0, 800, 600) }

func (d *fakeDisplay) CreateFrame(r geom.Rect, _ uint32) (platform.WindowID, error) {
	d.created++
	id := platform.WindowID(0x200 + d.created)
	d.rects[id] = r
	return id, nil
}

func (d *fakeDisplay) SetBackgroundColor(platform.WindowID, uint32) error { return nil }
func (d *fakeDisplay) Restack([]platform.WindowID) error                  { return nil }
func (d *fakeDisplay) Clear(platform.WindowID) error                      { return nil }

func (d *fakeDisplay) MoveResize(win platform.WindowID, r geom.Rect) error {
	d.rects[win] = r
	return nil
}

func (d *fakeDisplay) Move(win platform.WindowID, p geom.Point) error {
	d.rects[win] = d.rects[win].MoveTo(p)
	return nil
}

func (d *fakeDisplay) Map(win platform.WindowID) error {
	d.mapped[win] = true
	return nil
}

func (d *fakeDisplay) Unmap(win platform.WindowID) error {
	d.mapped[win] = false
	return nil
}

func (d *fakeDisplay) DestroyWindow(win platform.WindowID) error {
	delete(d.rects, win)
	return nil
}

func items(labels ...string) []Item {
	out := make([]Item, len(labels))
	for i, l := range labels {
		out[i] = Item{Label: l, Value: i}
	}
	return out
}

func click(m *Menu, row int) {
	y := (row+1)*m.opts.ItemHeight + 1
	m.ButtonPress(platform.ButtonEvent{Button: 1, Event: geom.Point{X: 4, Y: y}})
	m.ButtonRelease(platform.ButtonEvent{Button: 1, Event: geom.Point{X: 4, Y: y}})
}

func TestMenu_ShowCreatesOnce(t *testing.T) {
	d := newFakeDisplay()
	m := New(d, KindWorkspace, "one", DefaultOptions(), nil)
	m.SetItems(items("a", "b"))
	assert.Equal(t, platform.None, m.Window(), "created lazily")

	require.NoError(t, m.Show(geom.Point{X: 10, Y: 20}))
	require.NoError(t, m.Hide())
	require.NoError(t, m.Show(geom.Point{X: 30, Y: 40}))

	assert.Equal(t, 1, d.created)
	assert.True(t, m.Visible())
	assert.Equal(t, geom.NewRect(30, 40, 160, 54), d.rects[m.Window()])
}

func TestMenu_ClampsToScreen(t *testing.T) {
	d := newFakeDisplay()
	m := New(d, KindWindow, "w", DefaultOptions(), nil)
	m.SetItems(items("a", "b", "c"))

	require.NoError(t, m.Show(geom.Point{X: 790, Y: 590}))
	assert.Equal(t, geom.Point{X: 800 - 160, Y: 600 - 72}, m.Position())

	require.NoError(t, m.Move(geom.Point{X: -50, Y: -5}))
	assert.Equal(t, geom.Point{}, m.Position())
}

func TestMenu_ItemAt(t *testing.T) {
	m := New(newFakeDisplay(), KindIcon, "icons", DefaultOptions(), nil)
	m.SetItems(items("a", "b"))

	tests := []struct {
		y    int
		want int
	}{
		{-1, -1},
		{0, -1},
		{17, -1},
		{18, 0},
		{35, 0},
		{36, 1},
		{54, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.ItemAt(tt.y), "y=%d", tt.y)
	}
}

func TestMenu_Select(t *testing.T) {
	var got []Item
	m := New(newFakeDisplay(), KindWindow, "w", DefaultOptions(), func(it Item) { got = append(got, it) })
	m.SetItems(items("shade", "close"))
	require.NoError(t, m.Show(geom.Point{}))

	click(m, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "close", got[0].Label)
	assert.False(t, m.Visible(), "selection hides the menu")
}

func TestMenu_DisabledAndDragOff(t *testing.T) {
	var got []Item
	m := New(newFakeDisplay(), KindWindow, "w", DefaultOptions(), func(it Item) { got = append(got, it) })
	m.SetItems([]Item{{Label: "a"}, {Label: "b", Disabled: true}})
	require.NoError(t, m.Show(geom.Point{}))

	click(m, 1)
	assert.Empty(t, got)
	assert.True(t, m.Visible())

	// pressed on one row, released on another
	m.ButtonPress(platform.ButtonEvent{Event: geom.Point{Y: 20}})
	m.ButtonRelease(platform.ButtonEvent{Event: geom.Point{Y: 40}})
	assert.Empty(t, got)
}

func TestMenu_InsertRemove(t *testing.T) {
	d := newFakeDisplay()
	m := New(d, KindIcon, "icons", DefaultOptions(), nil)
	m.SetItems(items("a", "c"))
	require.NoError(t, m.Show(geom.Point{}))

	m.Insert(1, Item{Label: "b"})
	m.Insert(99, Item{Label: "d"})
	var labels []string
	for _, it := range m.Items() {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, labels)
	assert.Equal(t, 5*18, d.rects[m.Window()].Height, "visible menu resized")

	m.Remove(0)
	m.Remove(10)
	assert.Len(t, m.Items(), 3)
}

func TestMenu_Hover(t *testing.T) {
	m := New(newFakeDisplay(), KindRoot, "root", DefaultOptions(), nil)
	m.SetItems(items("a", "b"))
	require.NoError(t, m.Show(geom.Point{X: 100, Y: 100}))

	m.Motion(platform.MotionEvent{Root: geom.Point{X: 110, Y: 100 + 40}})
	assert.Equal(t, 1, m.Hovered())

	m.SetItems(items("a"))
	assert.Equal(t, -1, m.Hovered())
}

func TestMenu_Destroy(t *testing.T) {
	d := newFakeDisplay()
	m := New(d, KindWindow, "w", DefaultOptions(), nil)
	require.NoError(t, m.Show(geom.Point{}))
	win := m.Window()

	m.Destroy()
	_, ok := d.rects[win]
	assert.False(t, ok)
	assert.False(t, m.Visible())
	assert.Equal(t, platform.None, m.Window())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "workspace", KindWorkspace.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
