package platform

import (
	"errors"

	"github.com/1broseidon/framewm/internal/geom"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the null window.
const None WindowID = 0

// ErrNoProperty is returned by Hints readers when the property is absent.
var ErrNoProperty = errors.New("property not set")

// Surface is an opaque handle to a rendered texture.
type Surface uint32

// ParentRelative is the surface that makes a window show its parent's
// background. It is never released.
const ParentRelative Surface = 1

// ChildKind names the decoration sub-windows of a frame.
type ChildKind int

const (
	ChildPlate ChildKind = iota
	ChildTitle
	ChildLabel
	ChildHandle
	ChildLeftGrip
	ChildRightGrip
	ChildIconifyButton
	ChildMaximizeButton
	ChildCloseButton
)

func (k ChildKind) String() string {
	switch k {
	case ChildPlate:
		return "plate"
	case ChildTitle:
		return "title"
	case ChildLabel:
		return "label"
	case ChildHandle:
		return "handle"
	case ChildLeftGrip:
		return "left-grip"
	case ChildRightGrip:
		return "right-grip"
	case ChildIconifyButton:
		return "iconify"
	case ChildMaximizeButton:
		return "maximize"
	case ChildCloseButton:
		return "close"
	default:
		return "unknown"
	}
}

// Protocol is a WM_PROTOCOLS message the manager can send to a client.
type Protocol int

const (
	ProtocolDelete Protocol = iota
	ProtocolTakeFocus
)

// Display is the X display collaborator: window creation, geometry,
// stacking, focus and grabs. Every call is issued from the event loop.
type Display interface {
	Root() WindowID
	ScreenRect() geom.Rect
	Pointer() (geom.Point, error)

	TopLevelWindows() ([]WindowID, error)
	Attributes(win WindowID) (WindowAttributes, error)
	// Validate reports whether win has no destroy or unmap pending in
	// the event queue. Pending events are left queued.
	Validate(win WindowID) bool

	CreateFrame(r geom.Rect, borderColor uint32) (WindowID, error)
	CreateChild(parent WindowID, kind ChildKind, r geom.Rect) (WindowID, error)
	DestroyWindow(win WindowID) error
	Reparent(win, parent WindowID, pos geom.Point) error
	ChangeSaveSet(win WindowID, insert bool) error
	SelectClientInput(win WindowID) error
	SetBorderWidth(win WindowID, width int) error
	// ConfigureUnmanaged forwards a configure request for a window the
	// manager does not own.
	ConfigureUnmanaged(ev ConfigureRequestEvent) error

	MoveResize(win WindowID, r geom.Rect) error
	Move(win WindowID, pos geom.Point) error
	Map(win WindowID) error
	Unmap(win WindowID) error
	// Restack applies the order of wins, topmost first, in one request
	// sequence bracketed by a server grab.
	Restack(wins []WindowID) error

	SetInputFocus(win WindowID) error
	FocusRoot() error

	SendConfigureNotify(win WindowID, client geom.Rect, borderWidth int) error
	SendProtocol(win WindowID, p Protocol) error

	GrabServer()
	UngrabServer()

	// GrabButton grabs button with mods on win for every combination of
	// the lock modifiers.
	// With sync set the pointer freezes until ReplayPointer is called.
	GrabButton(win WindowID, button int, mods uint16, sync bool) error
	UngrabButton(win WindowID, button int, mods uint16) error
	ReplayPointer()
	GrabPointer(win WindowID) error
	UngrabPointer()

	SetBackground(win WindowID, s Surface) error
	SetBackgroundColor(win WindowID, color uint32) error
	Clear(win WindowID) error

	// ShapeFrame copies the bounding shape of client into frame at offset.
	// A nil error with shaped=false means the client is not shaped.
	ShapeFrame(frame, client WindowID, offset geom.Point) (shaped bool, err error)
}

// Hints reads and writes the window properties the manager consults.
type Hints interface {
	NormalHints(win WindowID) (NormalHints, error)
	WMHints(win WindowID) (WMHints, error)
	Protocols(win WindowID) (Protocols, error)
	TransientFor(win WindowID) (WindowID, error)
	MotifHints(win WindowID) (MotifHints, error)
	PrivateHints(win WindowID) (PrivateHints, error)
	Name(win WindowID) string
	IconName(win WindowID) string

	WMState(win WindowID) (WMState, error)
	SetWMState(win WindowID, state WMState) error
	LoadAttributes(win WindowID) (PersistedAttributes, error)
	StoreAttributes(win WindowID, a PersistedAttributes) error
}

// Renderer turns texture descriptions into surfaces.
type Renderer interface {
	Render(size geom.Size, t Texture) (Surface, error)
	Release(s Surface)
}

// Dock reports the screen space reserved by docks and panels.
type Dock interface {
	Strut() geom.Strut
	Regions() []geom.Rect
}

// Backend bundles every collaborator the window manager needs.
type Backend interface {
	Display
	Hints
	Renderer
	Dock
}
