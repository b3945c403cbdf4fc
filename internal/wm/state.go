package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

func (w *Window) setState(s platform.WMState) {
	w.state = s
	if err := w.backend().SetWMState(w.id, s); err != nil {
		w.log.Debug("set WM_STATE", "state", s.String(), "err", err)
	}
}

// normalState is the WM_STATE of a mapped window. Shaded windows report
// iconic for compatibility with older pagers.
func (w *Window) normalState() platform.WMState {
	if w.shaded {
		return platform.StateIconic
	}
	return platform.StateNormal
}

func (w *Window) unmapClient() {
	b := w.backend()
	if w.clientMapped {
		w.ignoreUnmap++
		_ = b.Unmap(w.id)
		w.clientMapped = false
	}
	_ = b.Unmap(w.frame)
}

func (w *Window) mapClient() {
	b := w.backend()
	_ = b.Map(w.id)
	w.clientMapped = true
	_ = b.Map(w.frame)
}

func (w *Window) hideMenu() {
	if w.menu != nil && w.menu.Visible() {
		_ = w.menu.Hide()
	}
}

// Iconify hides the window and moves it to the icon list. The whole
// transient group is iconified with it.
func (w *Window) Iconify() Result {
	if w.iconic {
		return ignored(ErrAlreadyIconic)
	}
	w.setState(platform.StateIconic)
	w.unmapClient()
	w.hideMenu()
	w.visible = false
	w.iconic = true

	if ws, ok := w.screen.Workspace(w.workspace); ok {
		ws.RemoveWindow(w)
	}
	w.screen.addIcon(w)

	if w.parent != nil && !w.parent.iconic {
		w.parent.Iconify()
	}
	for _, t := range w.Transients() {
		if !t.iconic {
			t.Iconify()
		}
	}
	w.storeAttributes()
	return applied()
}

// Deiconify maps the window again. With reassociate set the window joins
// the current workspace and its transients follow; with raise set it is
// raised afterwards.
func (w *Window) Deiconify(reassociate, raise bool) Result {
	if w.destroyed {
		return ignored(ErrStale)
	}
	wasIconic := w.iconic
	scr := w.screen

	if wasIconic {
		scr.removeIcon(w)
		w.iconic = false
		if reassociate || !scr.validWorkspace(w.workspace) {
			w.workspace = scr.current
		}
		scr.workspaces[w.workspace].AddWindow(w, false)
	} else if reassociate && w.workspace != scr.current && !w.stuck {
		scr.SendToWorkspace(w, scr.current)
	}

	if w.workspace == scr.current || w.stuck {
		w.setState(w.normalState())
		w.mapClient()
		w.visible = true
	}

	if wasIconic && scr.opts.Focus.FocusNew && w.visible {
		w.SetInputFocus()
	}
	if raise {
		if ws, ok := scr.Workspace(w.workspace); ok {
			ws.RaiseWindow(w)
		}
	}
	if reassociate {
		for _, t := range w.Transients() {
			t.Deiconify(true, false)
		}
	}
	w.storeAttributes()
	return applied()
}

// Withdraw unmaps the window without touching WM_STATE or the workspace
// lists. Icons are already unmapped and stay in the icon list.
func (w *Window) Withdraw() Result {
	if !w.visible {
		return ignored(ErrUnchanged)
	}
	w.visible = false
	w.unmapClient()
	w.hideMenu()
	return applied()
}

// Close asks the client to close itself. Clients without WM_DELETE_WINDOW
// are left alone.
func (w *Window) Close() Result {
	if !w.protocols.Delete {
		return ignored(ErrNoDeleteProtocol)
	}
	if err := w.backend().SendProtocol(w.id, platform.ProtocolDelete); err != nil {
		w.log.Debug("send WM_DELETE_WINDOW", "err", err)
		return ignored(ErrStale)
	}
	return applied()
}

// Maximize toggles maximization. On a maximized window any mode restores
// the geometry saved when it was maximized.
func (w *Window) Maximize(mode MaximizeMode) Result {
	if w.maximized != MaximizeNone {
		w.maximized = MaximizeNone
		premax := w.premax
		w.premax = geom.Rect{}
		w.paintChild(platform.ChildMaximizeButton)
		if w.resizing {
			w.storeAttributes()
			return deferred()
		}
		if !premax.Empty() {
			w.Configure(premax)
		}
		w.storeAttributes()
		return applied()
	}
	if mode == MaximizeNone {
		return ignored(ErrNotMaximized)
	}
	if w.shaded {
		w.shaded = false
		w.setState(platform.StateNormal)
	}
	w.premax = w.frameRect
	w.maximized = mode
	w.Configure(w.maximizedRect(mode))
	w.paintChild(platform.ChildMaximizeButton)
	w.storeAttributes()
	return applied()
}

// maximizedRect fits the frame into the available area on the axes named
// by mode, honoring the client's size hints.
func (w *Window) maximizedRect(mode MaximizeMode) geom.Rect {
	area := w.screen.AvailableArea()
	in := w.insets()
	avail := in.Shrink(area.Size())
	cur := w.frameRect

	want := w.clientRect.Size()
	if mode == MaximizeFull || mode == MaximizeHorizontal {
		want.Width = avail.Width
	}
	if mode == MaximizeFull || mode == MaximizeVertical {
		want.Height = avail.Height
	}
	c := constrainSize(want, w.normal)
	f := in.Grow(c)

	r := cur
	if mode == MaximizeFull || mode == MaximizeHorizontal {
		r.X = area.X + (area.Width-f.Width)/2
		r.Width = f.Width
	}
	if mode == MaximizeFull || mode == MaximizeVertical {
		r.Y = area.Y + (area.Height-f.Height)/2
		r.Height = f.Height
	}
	return r
}

// Shade rolls the window up into its titlebar, or back down.
func (w *Window) Shade() Result {
	if !w.decor.Titlebar {
		return ignored(ErrNoTitlebar)
	}
	w.shaded = !w.shaded
	_ = w.backend().MoveResize(w.frame, w.FrameRect())
	if !w.iconic && w.state != platform.StateWithdrawn {
		w.setState(w.normalState())
	}
	w.storeAttributes()
	return applied()
}

// Stick toggles whether the window is shown on every workspace.
func (w *Window) Stick() Result {
	w.stuck = !w.stuck
	for _, t := range w.Transients() {
		if t.stuck != w.stuck {
			t.Stick()
		}
	}
	w.storeAttributes()
	return applied()
}

// unmanage releases the frame. With remap set the client is mapped again
// at its ungravitated position, as on manager shutdown.
func (w *Window) unmanage(remap bool) {
	if w.destroyed {
		return
	}
	scr := w.screen
	b := scr.backend
	b.GrabServer()
	defer b.UngrabServer()

	w.stopAutoRaise()
	if w.iconic {
		scr.removeIcon(w)
	} else if ws, ok := scr.Workspace(w.workspace); ok {
		ws.RemoveWindow(w)
	}
	w.destroyed = true

	w.clearParent()
	for _, t := range w.transients {
		t.parent = nil
	}
	w.transients = nil
	scr.router.forget(w)
	if w.menu != nil {
		w.menu.Destroy()
	}

	if b.Validate(w.id) {
		in := w.insets()
		pos := restoreGravity(w.frameRect.Origin(), w.normal.Gravity, w.clientRect.Size(), w.clientBorder, w.frameRect.Size(), in)
		_ = b.SetBorderWidth(w.id, w.clientBorder)
		_ = b.Reparent(w.id, b.Root(), pos)
		_ = b.ChangeSaveSet(w.id, false)
		if remap {
			_ = b.Map(w.id)
		}
	}

	for _, kind := range decorationKinds {
		w.releaseSurfaces(kind)
	}
	w.releasePressed()
	_ = b.DestroyWindow(w.frame)
	w.log.Debug("unmanaged", "remap", remap)
}
