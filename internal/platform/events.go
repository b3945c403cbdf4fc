package platform

import "github.com/1broseidon/framewm/internal/geom"

// Property names a hint category that changed on a client.
type Property int

const (
	PropertyOther Property = iota
	PropertyName
	PropertyIconName
	PropertyHints
	PropertyNormalHints
	PropertyTransientFor
	PropertyProtocols
	PropertyMotifHints
	PropertyPrivateHints
)

// Configure request value-mask bits, matching the X protocol.
const (
	ConfigX           = 1 << 0
	ConfigY           = 1 << 1
	ConfigWidth       = 1 << 2
	ConfigHeight      = 1 << 3
	ConfigBorderWidth = 1 << 4
	ConfigSibling     = 1 << 5
	ConfigStackMode   = 1 << 6
)

// Stack modes carried by a configure request.
const (
	StackAbove = 0
	StackBelow = 1
)

// Modifier masks used by button and key events.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7
)

type MapRequestEvent struct {
	Window WindowID
}

type MapNotifyEvent struct {
	Window WindowID
}

type UnmapNotifyEvent struct {
	Event     WindowID
	Window    WindowID
	Synthetic bool
}

type DestroyNotifyEvent struct {
	Window WindowID
}

type ReparentNotifyEvent struct {
	Window WindowID
	Parent WindowID
}

type ConfigureRequestEvent struct {
	Window      WindowID
	Mask        uint16
	Rect        geom.Rect
	BorderWidth int
	Sibling     WindowID
	StackMode   int
}

type PropertyNotifyEvent struct {
	Window   WindowID
	Property Property
}

type ButtonEvent struct {
	Window WindowID
	Button int
	State  uint16
	Root   geom.Point
	Event  geom.Point
	Time   uint32
}

type MotionEvent struct {
	Window WindowID
	State  uint16
	Root   geom.Point
	Time   uint32
}

type ExposeEvent struct {
	Window WindowID
	Area   geom.Rect
	Count  int
}

type CrossingEvent struct {
	Window WindowID
	Root   geom.Point
	Normal bool
}

// ClientMessageKind identifies the client messages the manager handles.
type ClientMessageKind int

const (
	MessageOther ClientMessageKind = iota
	MessageChangeState
	MessagePrivateHints
)

type ClientMessageEvent struct {
	Window WindowID
	Kind   ClientMessageKind
	Data   []uint32
}

// EventSink receives translated X events. It is implemented by the
// window manager and driven by the backend's event hooks.
type EventSink interface {
	MapRequest(ev MapRequestEvent)
	MapNotify(ev MapNotifyEvent)
	UnmapNotify(ev UnmapNotifyEvent)
	DestroyNotify(ev DestroyNotifyEvent)
	ReparentNotify(ev ReparentNotifyEvent)
	ConfigureRequest(ev ConfigureRequestEvent)
	PropertyNotify(ev PropertyNotifyEvent)
	ButtonPress(ev ButtonEvent)
	ButtonRelease(ev ButtonEvent)
	Motion(ev MotionEvent)
	Expose(ev ExposeEvent)
	Enter(ev CrossingEvent)
	ClientMessage(ev ClientMessageEvent)
}
