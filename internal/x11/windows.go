package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Event masks for the windows the manager creates and adopts.
const (
	FrameEventMask = xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskEnterWindow |
		xproto.EventMaskExposure

	PlateEventMask = xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskEnterWindow

	DecorationEventMask = xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion |
		xproto.EventMaskExposure

	ClientEventMask = xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskFocusChange |
		xproto.EventMaskEnterWindow
)

// Geometry is a window rectangle in its parent's coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// WindowAttributes is what the manager needs to decide whether to adopt
// an existing window.
type WindowAttributes struct {
	OverrideRedirect bool
	Viewable         bool
	Geometry         Geometry
	BorderWidth      int
}

// CreateWindow creates a borderless input-output window under parent
// with the given background pixel and event mask. overrideRedirect keeps
// the manager's own top-level windows out of its MapRequest path.
func (c *Connection) CreateWindow(parent xproto.Window, g Geometry, background uint32, eventMask uint32, overrideRedirect bool) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("generate window id: %w", err)
	}
	or := uint32(0)
	if overrideRedirect {
		or = 1
	}
	err = xproto.CreateWindowChecked(c.XUtil.Conn(), c.XUtil.Screen().RootDepth,
		win.Id, parent,
		int16(g.X), int16(g.Y), uint16(max(g.Width, 1)), uint16(max(g.Height, 1)),
		0, xproto.WindowClassInputOutput,
		c.XUtil.Screen().RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{background, or, eventMask}).Check()
	if err != nil {
		return 0, fmt.Errorf("create window: %w", err)
	}
	return win.Id, nil
}

// DestroyWindow destroys win and its subwindows.
func (c *Connection) DestroyWindow(win xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), win).Check()
}

// Reparent moves win under parent at (x, y).
func (c *Connection) Reparent(win, parent xproto.Window, x, y int) error {
	return xproto.ReparentWindowChecked(c.XUtil.Conn(), win, parent, int16(x), int16(y)).Check()
}

// ChangeSaveSet adds win to, or removes it from, the save set so it
// survives the manager exiting.
func (c *Connection) ChangeSaveSet(win xproto.Window, insert bool) error {
	mode := byte(xproto.SetModeDelete)
	if insert {
		mode = xproto.SetModeInsert
	}
	return xproto.ChangeSaveSetChecked(c.XUtil.Conn(), mode, win).Check()
}

// SelectInput replaces the event mask the manager selects on win.
func (c *Connection) SelectInput(win xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwEventMask, []uint32{mask}).Check()
}

// SetBorderWidth sets the X border of win.
func (c *Connection) SetBorderWidth(win xproto.Window, width int) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowBorderWidth, []uint32{uint32(width)}).Check()
}

// Configure issues a ConfigureWindow with the raw value mask. Values
// must be given in mask bit order.
func (c *Connection) Configure(win xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win, mask, values)
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(win xproto.Window, g Geometry) {
	xwindow.New(c.XUtil, win).MoveResize(g.X, g.Y, max(g.Width, 1), max(g.Height, 1))
}

// MoveWindow moves a window without changing its size.
func (c *Connection) MoveWindow(win xproto.Window, x, y int) {
	xwindow.New(c.XUtil, win).Move(x, y)
}

func (c *Connection) MapWindow(win xproto.Window) {
	xproto.MapWindow(c.XUtil.Conn(), win)
}

func (c *Connection) UnmapWindow(win xproto.Window) {
	xproto.UnmapWindow(c.XUtil.Conn(), win)
}

// Restack stacks wins top to bottom: the first stays where it is and
// each following window goes directly below its predecessor.
func (c *Connection) Restack(wins []xproto.Window) {
	if len(wins) == 0 {
		return
	}
	c.GrabServer()
	defer c.UngrabServer()

	xproto.ConfigureWindow(c.XUtil.Conn(), wins[0],
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	for i := 1; i < len(wins); i++ {
		xproto.ConfigureWindow(c.XUtil.Conn(), wins[i],
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(wins[i-1]), xproto.StackModeBelow})
	}
}

// SetInputFocus gives keyboard focus to win.
func (c *Connection) SetInputFocus(win xproto.Window) error {
	return xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		win, xproto.TimeCurrentTime).Check()
}

// FocusRoot reverts focus to the pointer root.
func (c *Connection) FocusRoot() error {
	return xproto.SetInputFocusChecked(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		xproto.InputFocusPointerRoot, xproto.TimeCurrentTime).Check()
}

// SendConfigureNotify tells a client where it is in root coordinates
// after the manager moved its frame.
func (c *Connection) SendConfigureNotify(win xproto.Window, g Geometry, borderWidth int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     xevent.NoWindow,
		X:                int16(g.X),
		Y:                int16(g.Y),
		Width:            uint16(g.Width),
		Height:           uint16(g.Height),
		BorderWidth:      uint16(borderWidth),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

// SendProtocol sends a WM_PROTOCOLS client message such as
// WM_DELETE_WINDOW or WM_TAKE_FOCUS.
func (c *Connection) SendProtocol(win xproto.Window, protocol string) error {
	wmProtocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	atom, err := xprop.Atm(c.XUtil, protocol)
	if err != nil {
		return err
	}
	cm, err := xevent.NewClientMessage(32, win, wmProtocols, int(atom), int(xproto.TimeCurrentTime))
	if err != nil {
		return err
	}
	if err := xproto.SendEventChecked(c.XUtil.Conn(), false, win, 0, string(cm.Bytes())).Check(); err != nil {
		return fmt.Errorf("send %s: %w", protocol, err)
	}
	return nil
}

// Attributes fetches the map state, override-redirect flag and geometry
// of win.
func (c *Connection) Attributes(win xproto.Window) (WindowAttributes, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return WindowAttributes{}, err
	}
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return WindowAttributes{}, err
	}
	return WindowAttributes{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
		Geometry: Geometry{
			X: int(g.X), Y: int(g.Y),
			Width: int(g.Width), Height: int(g.Height),
		},
		BorderWidth: int(g.BorderWidth),
	}, nil
}

// TopLevelWindows lists the root's children, bottom to top.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}

// Pointer returns the pointer position relative to the root.
func (c *Connection) Pointer() (x, y int, err error) {
	p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(p.RootX), int(p.RootY), nil
}

// Validate reports whether win has neither a DestroyNotify nor an
// UnmapNotify pending. Events still buffered on the connection are moved
// into xevent's queue first; the queue is only peeked, never consumed.
func (c *Connection) Validate(win xproto.Window) bool {
	c.Sync()
	xevent.Read(c.XUtil, false)
	return !pendingRemoval(xevent.Peek(c.XUtil), win)
}

// pendingRemoval reports whether queue holds a DestroyNotify or
// UnmapNotify for win.
func pendingRemoval(queue []xgbutil.EventOrError, win xproto.Window) bool {
	for _, eoe := range queue {
		switch ev := eoe.Event.(type) {
		case xproto.DestroyNotifyEvent:
			if ev.Window == win {
				return true
			}
		case xproto.UnmapNotifyEvent:
			if ev.Window == win {
				return true
			}
		}
	}
	return false
}

// SetBackgroundPixmap sets the background of win. Pixmap 1 is
// ParentRelative.
func (c *Connection) SetBackgroundPixmap(win xproto.Window, pixmap xproto.Pixmap) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwBackPixmap, []uint32{uint32(pixmap)}).Check()
}

// SetBackgroundPixel sets a solid background color.
func (c *Connection) SetBackgroundPixel(win xproto.Window, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwBackPixel, []uint32{pixel}).Check()
}

// Clear repaints the whole window with its background.
func (c *Connection) Clear(win xproto.Window) {
	xproto.ClearArea(c.XUtil.Conn(), false, win, 0, 0, 0, 0)
}

// ShapeFrame copies the bounding shape of client into frame at (x, y).
// It returns false when the client is not shaped or the extension is
// missing.
func (c *Connection) ShapeFrame(frame, client xproto.Window, x, y int) (bool, error) {
	if !c.shape {
		return false, nil
	}
	ext, err := shape.QueryExtents(c.XUtil.Conn(), client).Reply()
	if err != nil {
		return false, err
	}
	if !ext.BoundingShaped {
		return false, nil
	}
	shape.SelectInput(c.XUtil.Conn(), client, true)
	kind := shape.Kind(shape.SkBounding)
	err = shape.CombineChecked(c.XUtil.Conn(), shape.Op(shape.SoSet), kind, kind,
		frame, int16(x), int16(y), client).Check()
	if err != nil {
		return false, fmt.Errorf("shape combine: %w", err)
	}
	return true, nil
}

// IsDock checks whether a window declares itself a dock or panel.
func (c *Connection) IsDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// IsIconic reports whether win was left in the ICCCM iconic state.
func (c *Connection) IsIconic(win xproto.Window) bool {
	st, err := icccm.WmStateGet(c.XUtil, win)
	return err == nil && st.State == icccm.StateIconic
}
