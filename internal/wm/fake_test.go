package wm

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/menu"
	"github.com/1broseidon/framewm/internal/platform"
)

type fakeClient struct {
	attrs     platform.WindowAttributes
	normal    *platform.NormalHints
	wmhints   *platform.WMHints
	protocols platform.Protocols
	transient platform.WindowID
	motif     *platform.MotifHints
	private   *platform.PrivateHints
	name      string
	state     platform.WMState
	record    []uint
	stale     bool
	gone      bool
}

type sentProtocol struct {
	win platform.WindowID
	p   platform.Protocol
}

// fakeBackend is an in-memory display that records what the manager asks
// of it.
type fakeBackend struct {
	screen  geom.Rect
	strut   geom.Strut
	regions []geom.Rect

	next     platform.WindowID
	clients  map[platform.WindowID]*fakeClient
	rects    map[platform.WindowID]geom.Rect
	parents  map[platform.WindowID]platform.WindowID
	kinds    map[platform.WindowID]platform.ChildKind
	mapped   map[platform.WindowID]bool
	topLevel []platform.WindowID

	focus       platform.WindowID
	restacks    [][]platform.WindowID
	notifies    map[platform.WindowID]int
	sent        []sentProtocol
	grabDepth   int
	maxGrab     int
	pointerGrab platform.WindowID
	replays     int
	unmanaged   []platform.ConfigureRequestEvent

	renderFail  bool
	nextSurface platform.Surface
	live        map[platform.Surface]bool
	backgrounds map[platform.WindowID]platform.Surface
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		screen:      geom.NewRect(0, 0, 1024, 768),
		next:        0x100,
		clients:     make(map[platform.WindowID]*fakeClient),
		rects:       make(map[platform.WindowID]geom.Rect),
		parents:     make(map[platform.WindowID]platform.WindowID),
		kinds:       make(map[platform.WindowID]platform.ChildKind),
		mapped:      make(map[platform.WindowID]bool),
		notifies:    make(map[platform.WindowID]int),
		nextSurface: 0x10,
		live:        make(map[platform.Surface]bool),
		backgrounds: make(map[platform.WindowID]platform.Surface),
	}
}

const fakeRoot platform.WindowID = 1

func (f *fakeBackend) alloc() platform.WindowID {
	f.next++
	return f.next
}

// addClient creates an unmapped client window with default hints.
func (f *fakeBackend) addClient(r geom.Rect) platform.WindowID {
	id := f.alloc()
	f.clients[id] = &fakeClient{
		attrs:     platform.WindowAttributes{Geometry: r},
		protocols: platform.Protocols{Delete: true},
		name:      "client",
	}
	f.rects[id] = r
	f.parents[id] = fakeRoot
	f.topLevel = append(f.topLevel, id)
	return id
}

func (f *fakeBackend) Root() platform.WindowID      { return fakeRoot }
func (f *fakeBackend) ScreenRect() geom.Rect        { return f.screen }
func (f *fakeBackend) Pointer() (geom.Point, error) { return geom.Point{}, nil }

func (f *fakeBackend) TopLevelWindows() ([]platform.WindowID, error) {
	return append([]platform.WindowID(nil), f.topLevel...), nil
}

func (f *fakeBackend) Attributes(win platform.WindowID) (platform.WindowAttributes, error) {
	c, ok := f.clients[win]
	if !ok || c.gone {
		return platform.WindowAttributes{}, errors.New("bad window")
	}
	return c.attrs, nil
}

func (f *fakeBackend) Validate(win platform.WindowID) bool {
	if c, ok := f.clients[win]; ok {
		return !c.stale && !c.gone
	}
	return true
}

func (f *fakeBackend) CreateFrame(r geom.Rect, _ uint32) (platform.WindowID, error) {
	id := f.alloc()
	f.rects[id] = r
	f.parents[id] = fakeRoot
	return id, nil
}

func (f *fakeBackend) CreateChild(parent platform.WindowID, kind platform.ChildKind, r geom.Rect) (platform.WindowID, error) {
	id := f.alloc()
	f.rects[id] = r
	f.parents[id] = parent
	f.kinds[id] = kind
	f.mapped[id] = true
	return id, nil
}

func (f *fakeBackend) DestroyWindow(win platform.WindowID) error {
	delete(f.rects, win)
	delete(f.mapped, win)
	delete(f.kinds, win)
	return nil
}

func (f *fakeBackend) Reparent(win, parent platform.WindowID, pos geom.Point) error {
	f.parents[win] = parent
	f.rects[win] = f.rects[win].MoveTo(pos)
	return nil
}

func (f *fakeBackend) ChangeSaveSet(platform.WindowID, bool) error { return nil }
func (f *fakeBackend) SelectClientInput(platform.WindowID) error   { return nil }
func (f *fakeBackend) SetBorderWidth(platform.WindowID, int) error { return nil }

func (f *fakeBackend) ConfigureUnmanaged(ev platform.ConfigureRequestEvent) error {
	f.unmanaged = append(f.unmanaged, ev)
	return nil
}

func (f *fakeBackend) MoveResize(win platform.WindowID, r geom.Rect) error {
	f.rects[win] = r
	return nil
}

func (f *fakeBackend) Move(win platform.WindowID, p geom.Point) error {
	f.rects[win] = f.rects[win].MoveTo(p)
	return nil
}

func (f *fakeBackend) Map(win platform.WindowID) error {
	f.mapped[win] = true
	return nil
}

func (f *fakeBackend) Unmap(win platform.WindowID) error {
	f.mapped[win] = false
	return nil
}

func (f *fakeBackend) Restack(wins []platform.WindowID) error {
	f.restacks = append(f.restacks, append([]platform.WindowID(nil), wins...))
	return nil
}

func (f *fakeBackend) SetInputFocus(win platform.WindowID) error {
	f.focus = win
	return nil
}

func (f *fakeBackend) FocusRoot() error {
	f.focus = fakeRoot
	return nil
}

func (f *fakeBackend) SendConfigureNotify(win platform.WindowID, _ geom.Rect, _ int) error {
	f.notifies[win]++
	return nil
}

func (f *fakeBackend) SendProtocol(win platform.WindowID, p platform.Protocol) error {
	f.sent = append(f.sent, sentProtocol{win: win, p: p})
	return nil
}

func (f *fakeBackend) GrabServer() {
	f.grabDepth++
	f.maxGrab = max(f.maxGrab, f.grabDepth)
}

func (f *fakeBackend) UngrabServer() { f.grabDepth-- }

func (f *fakeBackend) GrabButton(platform.WindowID, int, uint16, bool) error { return nil }
func (f *fakeBackend) UngrabButton(platform.WindowID, int, uint16) error     { return nil }
func (f *fakeBackend) ReplayPointer()                                        { f.replays++ }

func (f *fakeBackend) GrabPointer(win platform.WindowID) error {
	f.pointerGrab = win
	return nil
}

func (f *fakeBackend) UngrabPointer() { f.pointerGrab = platform.None }

func (f *fakeBackend) SetBackground(win platform.WindowID, s platform.Surface) error {
	f.backgrounds[win] = s
	return nil
}

func (f *fakeBackend) SetBackgroundColor(win platform.WindowID, _ uint32) error {
	f.backgrounds[win] = 0
	return nil
}

func (f *fakeBackend) Clear(platform.WindowID) error { return nil }

func (f *fakeBackend) ShapeFrame(platform.WindowID, platform.WindowID, geom.Point) (bool, error) {
	return false, nil
}

func (f *fakeBackend) NormalHints(win platform.WindowID) (platform.NormalHints, error) {
	if c := f.clients[win]; c != nil && c.normal != nil {
		return *c.normal, nil
	}
	return platform.NormalHints{}, platform.ErrNoProperty
}

func (f *fakeBackend) WMHints(win platform.WindowID) (platform.WMHints, error) {
	if c := f.clients[win]; c != nil && c.wmhints != nil {
		return *c.wmhints, nil
	}
	return platform.WMHints{}, platform.ErrNoProperty
}

func (f *fakeBackend) Protocols(win platform.WindowID) (platform.Protocols, error) {
	if c := f.clients[win]; c != nil {
		return c.protocols, nil
	}
	return platform.Protocols{}, platform.ErrNoProperty
}

func (f *fakeBackend) TransientFor(win platform.WindowID) (platform.WindowID, error) {
	if c := f.clients[win]; c != nil && c.transient != platform.None {
		return c.transient, nil
	}
	return platform.None, platform.ErrNoProperty
}

func (f *fakeBackend) MotifHints(win platform.WindowID) (platform.MotifHints, error) {
	if c := f.clients[win]; c != nil && c.motif != nil {
		return *c.motif, nil
	}
	return platform.MotifHints{}, platform.ErrNoProperty
}

func (f *fakeBackend) PrivateHints(win platform.WindowID) (platform.PrivateHints, error) {
	if c := f.clients[win]; c != nil && c.private != nil {
		return *c.private, nil
	}
	return platform.PrivateHints{}, platform.ErrNoProperty
}

func (f *fakeBackend) Name(win platform.WindowID) string {
	if c := f.clients[win]; c != nil {
		return c.name
	}
	return ""
}

func (f *fakeBackend) IconName(win platform.WindowID) string { return f.Name(win) }

func (f *fakeBackend) WMState(win platform.WindowID) (platform.WMState, error) {
	if c := f.clients[win]; c != nil {
		return c.state, nil
	}
	return platform.StateWithdrawn, platform.ErrNoProperty
}

func (f *fakeBackend) SetWMState(win platform.WindowID, s platform.WMState) error {
	if c := f.clients[win]; c != nil {
		c.state = s
	}
	return nil
}

func (f *fakeBackend) LoadAttributes(win platform.WindowID) (platform.PersistedAttributes, error) {
	c := f.clients[win]
	if c == nil || c.record == nil {
		return platform.PersistedAttributes{}, platform.ErrNoProperty
	}
	return platform.DecodeAttributes(c.record)
}

func (f *fakeBackend) StoreAttributes(win platform.WindowID, a platform.PersistedAttributes) error {
	if c := f.clients[win]; c != nil {
		c.record = a.Encode()
	}
	return nil
}

func (f *fakeBackend) Render(geom.Size, platform.Texture) (platform.Surface, error) {
	if f.renderFail {
		return 0, errors.New("out of pixmaps")
	}
	f.nextSurface++
	f.live[f.nextSurface] = true
	return f.nextSurface, nil
}

func (f *fakeBackend) Release(s platform.Surface) { delete(f.live, s) }

func (f *fakeBackend) Strut() geom.Strut    { return f.strut }
func (f *fakeBackend) Regions() []geom.Rect { return f.regions }

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) Timer {
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every pending timer.
func (c *fakeClock) fire() {
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// testStyle has a 20 pixel titlebar.
func testStyle() Style {
	flat := platform.Texture{Kind: platform.TextureFlat, Color: 0x808080}
	pair := TexturePair{Focus: flat, Unfocus: flat}
	return Style{
		BevelWidth:    2,
		BorderWidth:   1,
		HandleWidth:   6,
		FrameWidth:    0,
		FontAscent:    11,
		FontDescent:   3,
		FontInkHeight: 13,
		Title:         pair,
		Label:         pair,
		Handle:        pair,
		Grip:          pair,
		Button:        pair,
		ButtonPressed: flat,
	}
}

func testOptions() Options {
	return Options{
		Placement: config.Placement{
			Policy:          config.PlacementCascade,
			RowDirection:    config.LeftToRight,
			ColumnDirection: config.TopToBottom,
		},
		Focus: config.Focus{
			Model:            config.FocusClick,
			AutoRaiseDelayMS: 200,
			FocusNew:         true,
			FocusLast:        true,
		},
		EdgeSnap:     8,
		OpaqueMove:   true,
		MoveModifier: platform.Mod1,
		Menu:         menu.DefaultOptions(),
	}
}

type harness struct {
	t     *testing.T
	m     *Manager
	f     *fakeBackend
	clock *fakeClock
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	opts := testOptions()
	for _, fn := range mutate {
		fn(&opts)
	}
	f := newFakeBackend()
	clock := &fakeClock{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager(f, clock, testStyle(), opts, []string{"one", "two", "three"}, logger)
	return &harness{t: t, m: m, f: f, clock: clock}
}

// open maps a new client and returns its managed window.
func (h *harness) open(r geom.Rect, setup ...func(*fakeClient)) *Window {
	h.t.Helper()
	id := h.f.addClient(r)
	for _, fn := range setup {
		fn(h.f.clients[id])
	}
	h.m.MapRequest(platform.MapRequestEvent{Window: id})
	w := h.m.Window(id)
	require.NotNil(h.t, w, "window 0x%x not managed", uint32(id))
	require.Zero(h.t, h.f.grabDepth, "server grab leaked")
	return w
}

func transientFor(parent *Window) func(*fakeClient) {
	return func(c *fakeClient) { c.transient = parent.ID() }
}

// checkWorkspaces asserts the list invariants of every workspace.
func checkWorkspaces(t *testing.T, s *Screen) {
	t.Helper()
	for _, ws := range s.Workspaces() {
		seen := map[*Window]bool{}
		for i, w := range ws.Windows() {
			require.Equal(t, i, w.Number(), "workspace %d numbering", ws.ID())
			require.Equal(t, ws.ID(), w.Workspace())
			require.False(t, w.Iconic(), "iconic window in window list")
			seen[w] = true
		}
		stack := ws.Stacking()
		require.Len(t, stack, len(seen), "workspace %d stacking size", ws.ID())
		dup := map[*Window]bool{}
		for _, w := range stack {
			require.True(t, seen[w], "stacking has a window outside the workspace")
			require.False(t, dup[w], "duplicate in stacking list")
			dup[w] = true
		}
	}
	for _, w := range s.Icons() {
		require.True(t, w.Iconic())
	}
}
