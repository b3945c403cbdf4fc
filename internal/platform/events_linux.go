//go:build linux

package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/x11"
)

var propertyByName = map[string]Property{
	"WM_NAME":            PropertyName,
	"_NET_WM_NAME":       PropertyName,
	"WM_ICON_NAME":       PropertyIconName,
	"_NET_WM_ICON_NAME":  PropertyIconName,
	"WM_HINTS":           PropertyHints,
	"WM_NORMAL_HINTS":    PropertyNormalHints,
	"WM_TRANSIENT_FOR":   PropertyTransientFor,
	"WM_PROTOCOLS":       PropertyProtocols,
	"_MOTIF_WM_HINTS":    PropertyMotifHints,
	x11.PrivateHintsProp: PropertyPrivateHints,
}

// Listen installs an xevent hook that translates every event the
// manager cares about and hands it to sink. Events the hook does not
// consume, such as key presses, continue to the xevent callbacks.
func (b *LinuxBackend) Listen(sink EventSink) {
	xevent.HookFun(func(_ *xgbutil.XUtil, ev interface{}) bool {
		return !b.dispatch(sink, ev)
	}).Connect(b.conn.XUtil)
}

// dispatch reports whether ev was consumed.
func (b *LinuxBackend) dispatch(sink EventSink, ev interface{}) bool {
	switch e := ev.(type) {
	case xproto.MapRequestEvent:
		sink.MapRequest(MapRequestEvent{Window: WindowID(e.Window)})
	case xproto.MapNotifyEvent:
		sink.MapNotify(MapNotifyEvent{Window: WindowID(e.Window)})
	case xproto.UnmapNotifyEvent:
		sink.UnmapNotify(translateUnmap(e))
	case xproto.DestroyNotifyEvent:
		sink.DestroyNotify(DestroyNotifyEvent{Window: WindowID(e.Window)})
	case xproto.ReparentNotifyEvent:
		sink.ReparentNotify(ReparentNotifyEvent{Window: WindowID(e.Window), Parent: WindowID(e.Parent)})
	case xproto.ConfigureRequestEvent:
		sink.ConfigureRequest(translateConfigureRequest(e))
	case xproto.PropertyNotifyEvent:
		prop, ok := propertyByName[b.conn.AtomName(e.Atom)]
		if !ok {
			prop = PropertyOther
		}
		sink.PropertyNotify(PropertyNotifyEvent{Window: WindowID(e.Window), Property: prop})
	case xproto.ButtonPressEvent:
		sink.ButtonPress(translateButton(xproto.ButtonReleaseEvent(e)))
	case xproto.ButtonReleaseEvent:
		sink.ButtonRelease(translateButton(e))
	case xproto.MotionNotifyEvent:
		sink.Motion(MotionEvent{
			Window: WindowID(e.Event),
			State:  e.State,
			Root:   geom.Point{X: int(e.RootX), Y: int(e.RootY)},
			Time:   uint32(e.Time),
		})
	case xproto.ExposeEvent:
		sink.Expose(ExposeEvent{
			Window: WindowID(e.Window),
			Area:   geom.NewRect(int(e.X), int(e.Y), int(e.Width), int(e.Height)),
			Count:  int(e.Count),
		})
	case xproto.EnterNotifyEvent:
		sink.Enter(CrossingEvent{
			Window: WindowID(e.Event),
			Root:   geom.Point{X: int(e.RootX), Y: int(e.RootY)},
			Normal: e.Mode == xproto.NotifyModeNormal,
		})
	case xproto.ClientMessageEvent:
		sink.ClientMessage(b.translateClientMessage(e))
	default:
		return false
	}
	return true
}

// translateUnmap marks unmaps reported to anything but the window itself
// as synthetic: the root does not select SubstructureNotify, so the only
// such events are the ICCCM withdraw notices clients send.
func translateUnmap(e xproto.UnmapNotifyEvent) UnmapNotifyEvent {
	return UnmapNotifyEvent{
		Event:     WindowID(e.Event),
		Window:    WindowID(e.Window),
		Synthetic: e.Event != e.Window,
	}
}

func translateConfigureRequest(e xproto.ConfigureRequestEvent) ConfigureRequestEvent {
	return ConfigureRequestEvent{
		Window:      WindowID(e.Window),
		Mask:        e.ValueMask,
		Rect:        geom.NewRect(int(e.X), int(e.Y), int(e.Width), int(e.Height)),
		BorderWidth: int(e.BorderWidth),
		Sibling:     WindowID(e.Sibling),
		StackMode:   int(e.StackMode),
	}
}

// ButtonPressEvent and ButtonReleaseEvent share a layout.
func translateButton(e xproto.ButtonReleaseEvent) ButtonEvent {
	return ButtonEvent{
		Window: WindowID(e.Event),
		Button: int(e.Detail),
		State:  e.State,
		Root:   geom.Point{X: int(e.RootX), Y: int(e.RootY)},
		Event:  geom.Point{X: int(e.EventX), Y: int(e.EventY)},
		Time:   uint32(e.Time),
	}
}

func (b *LinuxBackend) translateClientMessage(e xproto.ClientMessageEvent) ClientMessageEvent {
	kind := MessageOther
	switch b.conn.AtomName(e.Type) {
	case x11.ChangeStateMsg:
		kind = MessageChangeState
	case x11.PrivateHintsProp:
		kind = MessagePrivateHints
	}
	var data []uint32
	if e.Format == 32 {
		data = e.Data.Data32
	}
	return ClientMessageEvent{Window: WindowID(e.Window), Kind: kind, Data: data}
}
