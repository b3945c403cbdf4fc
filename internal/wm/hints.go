package wm

import (
	"errors"
	"slices"

	"github.com/1broseidon/framewm/internal/platform"
)

func (w *Window) readProtocols() {
	p, err := w.backend().Protocols(w.id)
	if err != nil && !errors.Is(err, platform.ErrNoProperty) {
		w.log.Debug("read WM_PROTOCOLS", "err", err)
	}
	w.protocols = p
	w.funcs.Close = p.Delete
	w.decor.Close = p.Delete
}

func (w *Window) readWMHints() {
	h, err := w.backend().WMHints(w.id)
	if err != nil {
		h = platform.DefaultWMHints()
	}
	w.hints = h
}

func (w *Window) readNormalHints() {
	screen := w.backend().ScreenRect().Size()
	h, err := w.backend().NormalHints(w.id)
	if err != nil {
		h = platform.DefaultNormalHints(screen)
	}
	w.normal = h.Normalize(screen)
}

// readDecorationHints applies the private hints, or the Motif hints when
// the private ones are absent.
func (w *Window) readDecorationHints() {
	b := w.backend()
	if ph, err := b.PrivateHints(w.id); err == nil {
		w.private = &ph
		if ph.Flags&platform.AttribDecoration != 0 {
			w.applyDecorationPreset(ph.Decoration)
		}
		return
	}
	mh, err := b.MotifHints(w.id)
	if err != nil {
		return
	}
	w.applyMotif(mh)
}

func (w *Window) applyMotif(mh platform.MotifHints) {
	if mh.Flags&platform.MotifFlagFunctions != 0 {
		fn := mh.Functions
		has := func(bit uint) bool { return fn&bit != 0 }
		if has(platform.MotifFuncAll) {
			// With the "all" bit set the listed functions are the exclusions.
			w.funcs = Functions{
				Resize:   !has(platform.MotifFuncResize),
				Move:     !has(platform.MotifFuncMove),
				Iconify:  !has(platform.MotifFuncIconify),
				Maximize: !has(platform.MotifFuncMaximize),
				Close:    w.protocols.Delete && !has(platform.MotifFuncClose),
			}
		} else {
			w.funcs = Functions{
				Resize:   has(platform.MotifFuncResize),
				Move:     has(platform.MotifFuncMove),
				Iconify:  has(platform.MotifFuncIconify),
				Maximize: has(platform.MotifFuncMaximize),
				Close:    w.protocols.Delete && has(platform.MotifFuncClose),
			}
		}
		w.decor.Close = w.funcs.Close
	}
	if mh.Flags&platform.MotifFlagDecorations != 0 {
		d := mh.Decorations
		has := func(bit uint) bool { return d&bit != 0 }
		if has(platform.MotifDecorAll) {
			w.decor = Decorations{
				Titlebar: !has(platform.MotifDecorTitle),
				Handle:   !has(platform.MotifDecorHandle),
				Border:   !has(platform.MotifDecorBorder),
				Iconify:  !has(platform.MotifDecorIconify),
				Maximize: !has(platform.MotifDecorMaximize),
				Menu:     !has(platform.MotifDecorMenu),
				Close:    w.decor.Close,
			}
		} else {
			w.decor = Decorations{
				Titlebar: has(platform.MotifDecorTitle),
				Handle:   has(platform.MotifDecorHandle),
				Border:   has(platform.MotifDecorBorder),
				Iconify:  has(platform.MotifDecorIconify),
				Maximize: has(platform.MotifDecorMaximize),
				Menu:     has(platform.MotifDecorMenu),
				Close:    w.decor.Close && has(platform.MotifDecorTitle),
			}
		}
	}
}

// applyDecorationPreset sets decorations and functions for one of the
// private presets.
func (w *Window) applyDecorationPreset(p platform.Decoration) {
	closeOK := w.protocols.Delete
	switch p {
	case platform.DecorNone:
		w.decor = Decorations{}
		w.funcs = Functions{Close: closeOK}
	case platform.DecorTiny:
		w.decor = Decorations{Titlebar: true, Iconify: true, Menu: true, Close: closeOK}
		w.funcs = Functions{Move: true, Iconify: true, Close: closeOK}
	case platform.DecorTool:
		w.decor = Decorations{Titlebar: true, Menu: true, Close: closeOK}
		w.funcs = Functions{Move: true, Close: closeOK}
	default:
		p = platform.DecorNormal
		w.decor = fullDecorations()
		w.decor.Close = closeOK
		w.funcs = fullFunctions()
		w.funcs.Close = closeOK
	}
	w.preset = &p
}

// readTransient links w to the window named by WM_TRANSIENT_FOR, either
// directly or through the window group it leads.
func (w *Window) readTransient() {
	id, err := w.backend().TransientFor(w.id)
	if err != nil || id == platform.None || id == w.id {
		return
	}
	var parent *Window
	if id == w.backend().Root() {
		// Transient for the root means modal for the whole group.
		w.modal = true
		if w.hints.Group == platform.None {
			return
		}
		parent = w.screen.groupLeaderWindow(w.hints.Group)
	} else if parent = w.screen.router.Window(id); parent == nil || parent.id != id {
		parent = w.screen.groupLeaderWindow(id)
	}
	if parent == nil || parent == w || parent.isTransientOf(w) {
		return
	}
	w.setParent(parent)
	w.stuck = parent.stuck
	w.workspace = parent.workspace
}

func (w *Window) setParent(parent *Window) {
	if w.parent == parent {
		return
	}
	w.clearParent()
	w.parent = parent
	if !slices.Contains(parent.transients, w) {
		parent.transients = append(parent.transients, w)
	}
}

func (w *Window) clearParent() {
	if w.parent == nil {
		return
	}
	w.parent.transients = slices.DeleteFunc(w.parent.transients, func(t *Window) bool { return t == w })
	w.parent = nil
}

// isTransientOf reports whether w descends from ancestor.
func (w *Window) isTransientOf(ancestor *Window) bool {
	seen := map[*Window]bool{}
	for p := w.parent; p != nil && !seen[p]; p = p.parent {
		if p == ancestor {
			return true
		}
		seen[p] = true
	}
	return false
}

// adjustDecorations drops decorations a transient or fixed-size window
// cannot use.
func (w *Window) adjustDecorations() {
	if w.parent != nil || w.modal {
		w.decor.Maximize = false
		w.decor.Handle = false
		w.funcs.Maximize = false
	}
	if w.normal.FixedSize() {
		w.decor.Maximize = false
		w.decor.Handle = false
		w.funcs.Resize = false
		w.funcs.Maximize = false
	}
}

// rederiveDecorations recomputes decorations from the current hints and
// rebuilds the frame when they changed.
func (w *Window) rederiveDecorations() {
	before := w.decor
	w.decor = fullDecorations()
	w.funcs = fullFunctions()
	w.private = nil
	w.preset = nil
	w.decor.Close = w.protocols.Delete
	w.funcs.Close = w.protocols.Delete
	w.readDecorationHints()
	w.adjustDecorations()
	if w.decor != before {
		if !w.decor.Titlebar && w.shaded {
			w.shaded = false
		}
		w.Reconfigure()
	}
}

// restoreAttributes applies the persisted record from a previous run, or
// the state requested by the private hints when there is none.
func (w *Window) restoreAttributes() {
	a, err := w.backend().LoadAttributes(w.id)
	if err != nil {
		if !errors.Is(err, platform.ErrNoProperty) {
			w.log.Debug("ignoring persisted attributes", "err", err)
		}
		if w.private != nil {
			a := w.private.Attributes()
			a.Flags &^= platform.AttribDecoration
			w.applyAttributes(a)
		}
		return
	}
	w.applyAttributes(a)
}

func (w *Window) applyAttributes(a platform.PersistedAttributes) {
	flags, attrib, premax := a.Flags, a.Attrib, a.Premax
	if flags&platform.AttribDecoration != 0 {
		w.applyDecorationPreset(a.Decoration)
		w.adjustDecorations()
		w.Reconfigure()
	}
	if flags&platform.AttribWorkspace != 0 && a.Workspace != w.workspace && w.parent == nil {
		w.screen.SendToWorkspace(w, a.Workspace)
	}
	if flags&platform.AttribStuck != 0 {
		if want := attrib&platform.AttribStuck != 0; want != w.stuck {
			w.Stick()
		}
	}
	if flags&(platform.AttribMaxHoriz|platform.AttribMaxVert) != 0 {
		mode := MaximizeNone
		horiz := attrib&platform.AttribMaxHoriz != 0
		vert := attrib&platform.AttribMaxVert != 0
		switch {
		case horiz && vert:
			mode = MaximizeFull
		case vert:
			mode = MaximizeVertical
		case horiz:
			mode = MaximizeHorizontal
		}
		if mode != MaximizeNone && w.maximized == MaximizeNone {
			w.Maximize(mode)
			if !premax.Empty() {
				w.premax = premax
			}
		}
	}
	if flags&platform.AttribShaded != 0 {
		if want := attrib&platform.AttribShaded != 0; want != w.shaded {
			w.Shade()
		}
	}
	if flags&platform.AttribStack != 0 && !w.iconic {
		if ws, ok := w.screen.Workspace(w.workspace); ok {
			switch a.Stack {
			case platform.StackTop:
				ws.RaiseWindow(w)
			case platform.StackBottom:
				ws.LowerWindow(w)
			}
		}
	}
}

// storeAttributes persists the restorable state on the client.
func (w *Window) storeAttributes() {
	if w.destroyed {
		return
	}
	a := platform.PersistedAttributes{
		Flags:     platform.AttribShaded | platform.AttribMaxHoriz | platform.AttribMaxVert | platform.AttribStuck | platform.AttribWorkspace,
		Workspace: w.workspace,
		Premax:    w.premax,
	}
	if w.shaded {
		a.Attrib |= platform.AttribShaded
	}
	if w.stuck {
		a.Attrib |= platform.AttribStuck
	}
	switch w.maximized {
	case MaximizeFull:
		a.Attrib |= platform.AttribMaxHoriz | platform.AttribMaxVert
	case MaximizeVertical:
		a.Attrib |= platform.AttribMaxVert
	case MaximizeHorizontal:
		a.Attrib |= platform.AttribMaxHoriz
	}
	if w.preset != nil {
		a.Flags |= platform.AttribDecoration
		a.Decoration = *w.preset
	}
	if err := w.backend().StoreAttributes(w.id, a); err != nil {
		w.log.Debug("store attributes", "err", err)
	}
}

// changeHints applies a private hints message sent by a client or pager.
func (w *Window) changeHints(ph platform.PrivateHints) {
	if ph.Flags&platform.AttribDecoration != 0 {
		w.applyDecorationPreset(ph.Decoration)
		w.adjustDecorations()
		if !w.decor.Titlebar && w.shaded {
			w.shaded = false
		}
		w.Reconfigure()
	}
	a := ph.Attributes()
	a.Flags &^= platform.AttribDecoration
	w.applyAttributes(a)
	w.storeAttributes()
}
