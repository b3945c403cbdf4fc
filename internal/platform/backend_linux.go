//go:build linux

package platform

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn     *x11.Connection
	renderer *x11.Renderer
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, renderer: x11.NewRenderer(conn)}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the X11 connection for code that needs the raw protocol.
func (b *LinuxBackend) Connection() *x11.Connection { return b.conn }

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func xwin(id WindowID) xproto.Window { return xproto.Window(id) }

func toGeometry(r geom.Rect) x11.Geometry {
	return x11.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func fromGeometry(g x11.Geometry) geom.Rect {
	return geom.NewRect(g.X, g.Y, g.Width, g.Height)
}

// Display

func (b *LinuxBackend) Root() WindowID { return WindowID(b.conn.Root) }

func (b *LinuxBackend) ScreenRect() geom.Rect {
	return fromGeometry(b.conn.ScreenGeometry())
}

func (b *LinuxBackend) Pointer() (geom.Point, error) {
	x, y, err := b.conn.Pointer()
	if err != nil {
		return geom.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return geom.Point{X: x, Y: y}, nil
}

func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	wins, err := b.conn.TopLevelWindows()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	ids := make([]WindowID, len(wins))
	for i, w := range wins {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

func (b *LinuxBackend) Attributes(win WindowID) (WindowAttributes, error) {
	a, err := b.conn.Attributes(xwin(win))
	if err != nil {
		return WindowAttributes{}, fmt.Errorf("window attributes 0x%x: %w", uint32(win), err)
	}
	return WindowAttributes{
		OverrideRedirect: a.OverrideRedirect,
		Viewable:         a.Viewable,
		Geometry:         fromGeometry(a.Geometry),
		BorderWidth:      a.BorderWidth,
	}, nil
}

func (b *LinuxBackend) Validate(win WindowID) bool { return b.conn.Validate(xwin(win)) }

func (b *LinuxBackend) CreateFrame(r geom.Rect, borderColor uint32) (WindowID, error) {
	id, err := b.conn.CreateWindow(b.conn.Root, toGeometry(r), borderColor, x11.FrameEventMask, true)
	return WindowID(id), err
}

func (b *LinuxBackend) CreateChild(parent WindowID, kind ChildKind, r geom.Rect) (WindowID, error) {
	mask := uint32(x11.DecorationEventMask)
	if kind == ChildPlate {
		mask = x11.PlateEventMask
	}
	id, err := b.conn.CreateWindow(xwin(parent), toGeometry(r), 0, mask, false)
	if err != nil {
		return None, fmt.Errorf("create %s: %w", kind, err)
	}
	b.conn.MapWindow(id)
	return WindowID(id), nil
}

func (b *LinuxBackend) DestroyWindow(win WindowID) error {
	return b.conn.DestroyWindow(xwin(win))
}

func (b *LinuxBackend) Reparent(win, parent WindowID, pos geom.Point) error {
	return b.conn.Reparent(xwin(win), xwin(parent), pos.X, pos.Y)
}

func (b *LinuxBackend) ChangeSaveSet(win WindowID, insert bool) error {
	return b.conn.ChangeSaveSet(xwin(win), insert)
}

func (b *LinuxBackend) SelectClientInput(win WindowID) error {
	return b.conn.SelectInput(xwin(win), x11.ClientEventMask)
}

func (b *LinuxBackend) SetBorderWidth(win WindowID, width int) error {
	return b.conn.SetBorderWidth(xwin(win), width)
}

// ConfigureUnmanaged forwards the request with exactly the fields the
// client asked for.
func (b *LinuxBackend) ConfigureUnmanaged(ev ConfigureRequestEvent) error {
	var values []uint32
	if ev.Mask&ConfigX != 0 {
		values = append(values, uint32(int32(ev.Rect.X)))
	}
	if ev.Mask&ConfigY != 0 {
		values = append(values, uint32(int32(ev.Rect.Y)))
	}
	if ev.Mask&ConfigWidth != 0 {
		values = append(values, uint32(max(ev.Rect.Width, 1)))
	}
	if ev.Mask&ConfigHeight != 0 {
		values = append(values, uint32(max(ev.Rect.Height, 1)))
	}
	if ev.Mask&ConfigBorderWidth != 0 {
		values = append(values, uint32(ev.BorderWidth))
	}
	if ev.Mask&ConfigSibling != 0 {
		values = append(values, uint32(ev.Sibling))
	}
	if ev.Mask&ConfigStackMode != 0 {
		values = append(values, uint32(ev.StackMode))
	}
	b.conn.Configure(xwin(ev.Window), ev.Mask, values)
	return nil
}

func (b *LinuxBackend) MoveResize(win WindowID, r geom.Rect) error {
	b.conn.MoveResizeWindow(xwin(win), toGeometry(r))
	return nil
}

func (b *LinuxBackend) Move(win WindowID, pos geom.Point) error {
	b.conn.MoveWindow(xwin(win), pos.X, pos.Y)
	return nil
}

func (b *LinuxBackend) Map(win WindowID) error {
	b.conn.MapWindow(xwin(win))
	return nil
}

func (b *LinuxBackend) Unmap(win WindowID) error {
	b.conn.UnmapWindow(xwin(win))
	return nil
}

func (b *LinuxBackend) Restack(wins []WindowID) error {
	xs := make([]xproto.Window, len(wins))
	for i, w := range wins {
		xs[i] = xwin(w)
	}
	b.conn.Restack(xs)
	return nil
}

func (b *LinuxBackend) SetInputFocus(win WindowID) error {
	return b.conn.SetInputFocus(xwin(win))
}

func (b *LinuxBackend) FocusRoot() error { return b.conn.FocusRoot() }

func (b *LinuxBackend) SendConfigureNotify(win WindowID, client geom.Rect, borderWidth int) error {
	return b.conn.SendConfigureNotify(xwin(win), toGeometry(client), borderWidth)
}

func (b *LinuxBackend) SendProtocol(win WindowID, p Protocol) error {
	switch p {
	case ProtocolDelete:
		return b.conn.SendProtocol(xwin(win), "WM_DELETE_WINDOW")
	case ProtocolTakeFocus:
		return b.conn.SendProtocol(xwin(win), "WM_TAKE_FOCUS")
	}
	return fmt.Errorf("unknown protocol %d", p)
}

func (b *LinuxBackend) GrabServer()   { b.conn.GrabServer() }
func (b *LinuxBackend) UngrabServer() { b.conn.UngrabServer() }

func (b *LinuxBackend) GrabButton(win WindowID, button int, mods uint16, sync bool) error {
	return b.conn.GrabButton(xwin(win), button, mods, sync)
}

func (b *LinuxBackend) UngrabButton(win WindowID, button int, mods uint16) error {
	b.conn.UngrabButton(xwin(win), button, mods)
	return nil
}

func (b *LinuxBackend) ReplayPointer() { b.conn.ReplayPointer() }

func (b *LinuxBackend) GrabPointer(win WindowID) error { return b.conn.GrabPointer(xwin(win)) }

func (b *LinuxBackend) UngrabPointer() { b.conn.UngrabPointer() }

func (b *LinuxBackend) SetBackground(win WindowID, s Surface) error {
	return b.conn.SetBackgroundPixmap(xwin(win), xproto.Pixmap(s))
}

func (b *LinuxBackend) SetBackgroundColor(win WindowID, color uint32) error {
	return b.conn.SetBackgroundPixel(xwin(win), color)
}

func (b *LinuxBackend) Clear(win WindowID) error {
	b.conn.Clear(xwin(win))
	return nil
}

func (b *LinuxBackend) ShapeFrame(frame, client WindowID, offset geom.Point) (bool, error) {
	return b.conn.ShapeFrame(xwin(frame), xwin(client), offset.X, offset.Y)
}

// Hints

func noProperty(err error) error {
	return fmt.Errorf("%w: %v", ErrNoProperty, err)
}

func (b *LinuxBackend) NormalHints(win WindowID) (NormalHints, error) {
	nh, err := icccm.WmNormalHintsGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return NormalHints{}, noProperty(err)
	}
	return normalHintsFromICCCM(nh), nil
}

func normalHintsFromICCCM(nh *icccm.NormalHints) NormalHints {
	var h NormalHints
	h.UserPosition = nh.Flags&icccm.SizeHintUSPosition != 0
	h.ProgramPosition = nh.Flags&icccm.SizeHintPPosition != 0
	if nh.Flags&icccm.SizeHintPMinSize != 0 {
		h.MinWidth, h.MinHeight = int(nh.MinWidth), int(nh.MinHeight)
	}
	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		h.MaxWidth, h.MaxHeight = int(nh.MaxWidth), int(nh.MaxHeight)
	}
	if nh.Flags&icccm.SizeHintPResizeInc != 0 {
		h.WidthInc, h.HeightInc = int(nh.WidthInc), int(nh.HeightInc)
	}
	if nh.Flags&icccm.SizeHintPBaseSize != 0 {
		h.BaseWidth, h.BaseHeight = int(nh.BaseWidth), int(nh.BaseHeight)
	} else if nh.Flags&icccm.SizeHintPMinSize != 0 {
		// ICCCM: the minimum size doubles as the base size when absent.
		h.BaseWidth, h.BaseHeight = h.MinWidth, h.MinHeight
	}
	if nh.Flags&icccm.SizeHintPAspect != 0 {
		h.MinAspectNum, h.MinAspectDen = int(nh.MinAspectNum), int(nh.MinAspectDen)
		h.MaxAspectNum, h.MaxAspectDen = int(nh.MaxAspectNum), int(nh.MaxAspectDen)
	}
	h.Gravity = GravityNorthWest
	if nh.Flags&icccm.SizeHintPWinGravity != 0 {
		h.Gravity = Gravity(nh.WinGravity)
	}
	return h
}

// WMHints reports EWMH dock windows as withdrawn so they stay unmanaged
// like dock apps.
func (b *LinuxBackend) WMHints(win WindowID) (WMHints, error) {
	h := DefaultWMHints()
	if b.conn.IsDock(xwin(win)) {
		h.InitialState = StateWithdrawn
		return h, nil
	}
	raw, err := icccm.WmHintsGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return h, noProperty(err)
	}
	if raw.Flags&icccm.HintInput != 0 {
		h.Input = raw.Input != 0
	}
	if raw.Flags&icccm.HintState != 0 {
		h.InitialState = WMState(raw.InitialState)
	}
	if raw.Flags&icccm.HintWindowGroup != 0 {
		h.Group = WindowID(raw.WindowGroup)
	}
	h.Urgent = raw.Flags&icccm.HintUrgency != 0
	return h, nil
}

func (b *LinuxBackend) Protocols(win WindowID) (Protocols, error) {
	names, err := icccm.WmProtocolsGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return Protocols{}, noProperty(err)
	}
	var p Protocols
	for _, name := range names {
		switch name {
		case "WM_DELETE_WINDOW":
			p.Delete = true
		case "WM_TAKE_FOCUS":
			p.TakeFocus = true
		case "_NET_WM_PING":
			p.Ping = true
		}
	}
	return p, nil
}

func (b *LinuxBackend) TransientFor(win WindowID) (WindowID, error) {
	parent, err := icccm.WmTransientForGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return None, noProperty(err)
	}
	return WindowID(parent), nil
}

func (b *LinuxBackend) MotifHints(win WindowID) (MotifHints, error) {
	mh, err := motif.WmHintsGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return MotifHints{}, noProperty(err)
	}
	return MotifHints{Flags: mh.Flags, Functions: mh.Function, Decorations: mh.Decoration}, nil
}

func (b *LinuxBackend) PrivateHints(win WindowID) (PrivateHints, error) {
	v, err := b.conn.ReadPrivateHints(xwin(win))
	if err != nil {
		return PrivateHints{}, noProperty(err)
	}
	return PrivateHints{
		Flags:      v[0],
		Attrib:     v[1],
		Workspace:  int(int32(uint32(v[2]))),
		Stack:      int(int32(uint32(v[3]))),
		Decoration: Decoration(v[4]),
	}, nil
}

func (b *LinuxBackend) Name(win WindowID) string     { return b.conn.Name(xwin(win)) }
func (b *LinuxBackend) IconName(win WindowID) string { return b.conn.IconName(xwin(win)) }

func (b *LinuxBackend) WMState(win WindowID) (WMState, error) {
	st, err := icccm.WmStateGet(b.conn.XUtil, xwin(win))
	if err != nil {
		return StateWithdrawn, noProperty(err)
	}
	return WMState(st.State), nil
}

func (b *LinuxBackend) SetWMState(win WindowID, state WMState) error {
	return icccm.WmStateSet(b.conn.XUtil, xwin(win), &icccm.WmState{State: uint(state)})
}

func (b *LinuxBackend) LoadAttributes(win WindowID) (PersistedAttributes, error) {
	v, err := b.conn.ReadAttributes(xwin(win))
	if err != nil {
		return PersistedAttributes{}, noProperty(err)
	}
	return DecodeAttributes(v)
}

func (b *LinuxBackend) StoreAttributes(win WindowID, a PersistedAttributes) error {
	return b.conn.WriteAttributes(xwin(win), a.Encode())
}

// Renderer

func (b *LinuxBackend) Render(size geom.Size, t Texture) (Surface, error) {
	if t.Kind == TextureParentRelative {
		return ParentRelative, nil
	}
	bevel := x11.BevelNone
	switch t.Bevel {
	case BevelRaised:
		bevel = x11.BevelRaised
	case BevelSunken:
		bevel = x11.BevelSunken
	}
	pix, err := b.renderer.Render(size.Width, size.Height, x11.Paint{
		Color:    t.Color,
		Bevel:    bevel,
		Gradient: t.Kind == TextureGradient,
		ColorTo:  t.ColorTo,
	})
	if err != nil {
		return 0, err
	}
	return Surface(pix), nil
}

func (b *LinuxBackend) Release(s Surface) {
	if s == ParentRelative || s == 0 {
		return
	}
	b.renderer.Release(xproto.Pixmap(s))
}

// Dock

func (b *LinuxBackend) Strut() geom.Strut {
	s := b.conn.DockStruts()
	return geom.Strut{Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom}
}

func (b *LinuxBackend) Regions() []geom.Rect {
	docks := b.conn.DockWindows()
	out := make([]geom.Rect, 0, len(docks))
	for _, g := range docks {
		out = append(out, fromGeometry(g))
	}
	return out
}

// Monitors lists the physical heads for status reporting.
func (b *LinuxBackend) Monitors() ([]x11.Monitor, error) {
	return b.conn.GetMonitors()
}

// PublishDesktops and PublishClients mirror manager state into EWMH root
// properties for pagers and taskbars.
func (b *LinuxBackend) PublishDesktops(names []string, current int) error {
	return b.conn.PublishDesktops(names, current)
}

func (b *LinuxBackend) PublishClients(clients []WindowID, active WindowID) error {
	xs := make([]xproto.Window, len(clients))
	for i, c := range clients {
		xs[i] = xwin(c)
	}
	return b.conn.PublishClients(xs, xwin(active))
}

func (b *LinuxBackend) SetWindowDesktop(win WindowID, desktop int) error {
	return b.conn.SetWindowDesktop(xwin(win), desktop)
}

// IsOtherWM reports whether err came from BecomeWM finding another manager.
func IsOtherWM(err error) bool { return errors.Is(err, x11.ErrOtherWM) }
