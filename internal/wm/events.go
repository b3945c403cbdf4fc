package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// doubleClickMS is the longest gap between two titlebar clicks that
// still counts as a double click.
const doubleClickMS = 250

// childKindOf maps one of w's X windows to its decoration kind, or -1 for
// the frame and the client.
func (w *Window) childKindOf(id platform.WindowID) platform.ChildKind {
	for kind, cid := range w.children {
		if cid == id {
			return kind
		}
	}
	return -1
}

func isButton(kind platform.ChildKind) bool {
	return kind == platform.ChildIconifyButton || kind == platform.ChildMaximizeButton || kind == platform.ChildCloseButton
}

func (w *Window) raise() {
	if ws, ok := w.screen.Workspace(w.workspace); ok && !w.iconic {
		ws.RaiseWindow(w)
	}
}

func (w *Window) lower() {
	if ws, ok := w.screen.Workspace(w.workspace); ok && !w.iconic {
		ws.LowerWindow(w)
	}
}

func (w *Window) ButtonPress(ev platform.ButtonEvent) {
	scr := w.screen
	if open := scr.router.Menu(); open != nil && open != w.menu {
		scr.router.CloseMenu()
	}
	kind := w.childKindOf(ev.Window)
	modified := ev.State&scr.opts.MoveModifier != 0

	if (kind == platform.ChildPlate || ev.Window == w.id) && !modified {
		// Click-to-focus grab: focus, raise and pass the click on.
		if ev.Button == 1 {
			w.SetInputFocus()
			w.raise()
		}
		scr.backend.ReplayPointer()
		return
	}

	if isButton(kind) {
		w.pressButton(kind)
		return
	}

	switch ev.Button {
	case 1:
		w.SetInputFocus()
		w.raise()
		if kind == platform.ChildTitle || kind == platform.ChildLabel {
			if w.lastClick != 0 && ev.Time-w.lastClick < doubleClickMS {
				w.lastClick = 0
				w.Shade()
				return
			}
			w.lastClick = ev.Time
		}
		switch kind {
		case platform.ChildLeftGrip:
			w.startResize(ev, true)
		case platform.ChildRightGrip:
			w.startResize(ev, false)
		default:
			w.startMove(ev)
		}
	case 2:
		w.lower()
	case 3:
		if modified {
			w.startResize(ev, false)
			return
		}
		if kind == platform.ChildTitle || kind == platform.ChildLabel {
			w.showMenu(ev.Root)
		}
	}
}

func (w *Window) pressButton(kind platform.ChildKind) {
	w.releasePressed()
	w.pressed = kind
	w.pressedSrf = w.render(w.childRects[kind].Size(), w.screen.style.ButtonPressed)
	w.paintChild(kind)
}

func (w *Window) ButtonRelease(ev platform.ButtonEvent) {
	if w.moving || w.resizing {
		w.endGesture()
		return
	}
	kind := w.pressed
	if !isButton(kind) {
		return
	}
	w.releasePressed()
	w.paintChild(kind)

	id, ok := w.children[kind]
	size := w.childRects[kind].Size()
	inside := ev.Event.X >= 0 && ev.Event.Y >= 0 && ev.Event.X < size.Width && ev.Event.Y < size.Height
	if !ok || ev.Window != id || !inside {
		return
	}
	switch kind {
	case platform.ChildIconifyButton:
		if w.funcs.Iconify {
			w.Iconify()
		}
	case platform.ChildMaximizeButton:
		if w.funcs.Maximize {
			w.Maximize(MaximizeModeForButton(ev.Button))
		}
	case platform.ChildCloseButton:
		if w.funcs.Close {
			w.Close()
		}
	}
}

func (w *Window) Motion(ev platform.MotionEvent) {
	if w.moving || w.resizing {
		w.gestureMotion(ev.Root)
	}
}

func (w *Window) Expose(ev platform.ExposeEvent) {
	if ev.Count != 0 {
		return
	}
	if kind := w.childKindOf(ev.Window); kind >= 0 && kind != platform.ChildPlate {
		w.paintChild(kind)
	}
}

func (w *Window) Enter(ev platform.CrossingEvent) {
	scr := w.screen
	if !ev.Normal || !scr.sloppyFocus() || scr.router.Masked() != nil {
		return
	}
	if w.visible && !w.focused {
		w.SetInputFocus()
	}
}

// mapRequest maps the window. A new window honors its initial state.
func (w *Window) mapRequest(focus bool) {
	scr := w.screen
	switch {
	case w.iconic:
		w.Deiconify(false, true)
	case w.state == platform.StateWithdrawn && w.hints.InitialState == platform.StateIconic:
		w.Iconify()
	case w.workspace == scr.current || w.stuck:
		w.Deiconify(false, false)
		if focus && scr.opts.Focus.FocusNew {
			w.SetInputFocus()
		}
	default:
		w.setState(w.normalState())
	}
}

func (w *Window) mapNotify() {
	if !w.iconic && (w.workspace == w.screen.current || w.stuck) {
		w.visible = true
	}
}

// unmapNotify unmanages the window unless the manager caused the unmap.
func (w *Window) unmapNotify(ev platform.UnmapNotifyEvent) {
	if !ev.Synthetic && w.ignoreUnmap > 0 {
		w.ignoreUnmap--
		return
	}
	w.setState(platform.StateWithdrawn)
	w.unmanage(false)
}

func (w *Window) destroyNotify() {
	w.unmanage(false)
}

func (w *Window) reparentNotify(ev platform.ReparentNotifyEvent) {
	if ev.Parent == w.children[platform.ChildPlate] {
		return
	}
	w.unmanage(false)
}

// configureRequest honors a client's own geometry and stacking request.
func (w *Window) configureRequest(ev platform.ConfigureRequestEvent) {
	if ev.Mask&platform.ConfigBorderWidth != 0 {
		w.clientBorder = ev.BorderWidth
	}
	if ev.Mask&(platform.ConfigX|platform.ConfigY|platform.ConfigWidth|platform.ConfigHeight) != 0 {
		size := w.clientRect.Size()
		if ev.Mask&platform.ConfigWidth != 0 {
			size.Width = ev.Rect.Width
		}
		if ev.Mask&platform.ConfigHeight != 0 {
			size.Height = ev.Rect.Height
		}
		in := w.insets()
		fsize := in.Grow(size)
		origin := w.frameRect.Origin()
		if ev.Mask&(platform.ConfigX|platform.ConfigY) != 0 {
			ref := restoreGravity(origin, w.normal.Gravity, w.clientRect.Size(), w.clientBorder, w.frameRect.Size(), in)
			if ev.Mask&platform.ConfigX != 0 {
				ref.X = ev.Rect.X
			}
			if ev.Mask&platform.ConfigY != 0 {
				ref.Y = ev.Rect.Y
			}
			origin = applyGravity(ref, w.normal.Gravity, size, w.clientBorder, fsize, in)
		}
		if res := w.Configure(geom.RectFrom(origin, fsize)); !res.OK() {
			// Clients expect a reply even when nothing changed.
			w.sendConfigureNotify()
		}
	}
	if ev.Mask&platform.ConfigStackMode != 0 {
		switch ev.StackMode {
		case platform.StackAbove:
			w.raise()
		case platform.StackBelow:
			w.lower()
		}
	}
}

// propertyNotify refetches the hint category that changed.
func (w *Window) propertyNotify(p platform.Property) {
	b := w.backend()
	switch p {
	case platform.PropertyName:
		w.title = b.Name(w.id)
		w.relabelMenu()
		w.paintChild(platform.ChildLabel)
		if ws, ok := w.screen.Workspace(w.workspace); ok && !w.iconic {
			ws.relabelMenu()
		}
	case platform.PropertyIconName:
		w.iconTitle = b.IconName(w.id)
		if w.iconic {
			w.screen.relabelIcons()
		}
	case platform.PropertyHints:
		w.readWMHints()
	case platform.PropertyNormalHints:
		before := w.normal
		w.readNormalHints()
		if before.FixedSize() != w.normal.FixedSize() {
			w.rederiveDecorations()
			return
		}
		c := w.clientRect.Size()
		if fit := constrainSize(c, w.normal); fit != c && w.maximized == MaximizeNone {
			w.Configure(geom.RectFrom(w.frameRect.Origin(), w.insets().Grow(fit)))
		}
	case platform.PropertyTransientFor:
		w.clearParent()
		w.modal = false
		w.readTransient()
		w.rederiveDecorations()
	case platform.PropertyProtocols:
		w.readProtocols()
		w.rederiveDecorations()
	case platform.PropertyMotifHints, platform.PropertyPrivateHints:
		w.rederiveDecorations()
	}
}

func (w *Window) clientMessage(ev platform.ClientMessageEvent) {
	switch ev.Kind {
	case platform.MessageChangeState:
		if len(ev.Data) > 0 && platform.WMState(ev.Data[0]) == platform.StateIconic && w.funcs.Iconify {
			w.Iconify()
		}
	case platform.MessagePrivateHints:
		if len(ev.Data) < 5 {
			return
		}
		w.changeHints(platform.PrivateHints{
			Flags:      uint(ev.Data[0]),
			Attrib:     uint(ev.Data[1]),
			Workspace:  int(int32(ev.Data[2])),
			Stack:      int(int32(ev.Data[3])),
			Decoration: platform.Decoration(ev.Data[4]),
		})
	}
}
