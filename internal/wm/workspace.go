package wm

import (
	"slices"

	"github.com/1broseidon/framewm/internal/menu"
	"github.com/1broseidon/framewm/internal/platform"
)

// Workspace holds the windows of one virtual desktop. windows is in
// insertion order and gives each window its number; stacking is the
// Z-order with the topmost window first.
type Workspace struct {
	screen *Screen
	id     int
	name   string

	windows  []*Window
	stacking []*Window

	lastFocused *Window
	menu        *menu.Menu
}

func newWorkspace(s *Screen, id int, name string) *Workspace {
	ws := &Workspace{screen: s, id: id, name: name}
	ws.menu = menu.New(s.backend, menu.KindWorkspace, name, s.opts.Menu, ws.menuSelected)
	return ws
}

func (ws *Workspace) ID() int          { return ws.id }
func (ws *Workspace) Name() string     { return ws.name }
func (ws *Workspace) Count() int       { return len(ws.windows) }
func (ws *Workspace) Menu() *menu.Menu { return ws.menu }

// SetName renames the workspace and its client menu.
func (ws *Workspace) SetName(name string) {
	ws.name = name
	ws.menu.SetTitle(name)
}

// Windows returns the windows in insertion order.
func (ws *Workspace) Windows() []*Window {
	return slices.Clone(ws.windows)
}

// Stacking returns the windows topmost first.
func (ws *Workspace) Stacking() []*Window {
	return slices.Clone(ws.stacking)
}

// Window returns the window with the given number.
func (ws *Workspace) Window(n int) *Window {
	if n < 0 || n >= len(ws.windows) {
		return nil
	}
	return ws.windows[n]
}

func (ws *Workspace) contains(w *Window) bool {
	return slices.Contains(ws.windows, w)
}

// AddWindow appends w, places it when asked, and raises it. It returns
// the window number.
func (ws *Workspace) AddWindow(w *Window, place bool) int {
	if ws.contains(w) {
		return w.number
	}
	if place {
		ws.placeWindow(w)
	}
	w.workspace = ws.id
	w.number = len(ws.windows)
	ws.windows = append(ws.windows, w)
	ws.stacking = slices.Insert(ws.stacking, 0, w)
	ws.relabelMenu()
	ws.screen.notify(func(o Observer) { o.WindowAdded(ws, w) })
	ws.RaiseWindow(w)
	return w.number
}

// RemoveWindow drops w from both lists, hands focus on if w held it, and
// renumbers the remaining windows.
func (ws *Workspace) RemoveWindow(w *Window) {
	ws.removeWindow(w, true)
}

func (ws *Workspace) removeWindow(w *Window, transfer bool) {
	if !ws.contains(w) {
		return
	}
	ws.stacking = slices.DeleteFunc(ws.stacking, func(x *Window) bool { return x == w })

	if transfer && ws.screen.router.Focused() == w {
		ws.transferFocus(w)
	}
	if ws.lastFocused == w {
		ws.lastFocused = nil
	}

	ws.windows = slices.DeleteFunc(ws.windows, func(x *Window) bool { return x == w })
	w.number = -1
	for i, x := range ws.windows {
		x.number = i
	}
	ws.relabelMenu()
	ws.screen.notify(func(o Observer) { o.WindowRemoved(ws, w) })
}

func (ws *Workspace) transferFocus(from *Window) {
	scr := ws.screen
	if p := from.parent; p != nil && p.visible && !p.destroyed && scr.backend.Validate(p.id) {
		if p.SetInputFocus() {
			return
		}
	}
	if scr.sloppyFocus() {
		scr.focusNone()
		return
	}
	for _, top := range ws.stacking {
		if top.visible && top.SetInputFocus() {
			return
		}
	}
	scr.focusNone()
}

// chain collects root and its transient descendants depth first, parents
// before children. Cycles are cut.
func chain(root *Window) []*Window {
	var out []*Window
	seen := map[*Window]bool{}
	var walk func(*Window)
	walk = func(w *Window) {
		if seen[w] {
			return
		}
		seen[w] = true
		out = append(out, w)
		for _, t := range w.transients {
			walk(t)
		}
	}
	walk(root)
	return out
}

// RaiseWindow raises w's whole transient group, keeping transients above
// their parents, with one restack request.
func (ws *Workspace) RaiseWindow(w *Window) {
	root := w
	seen := map[*Window]bool{w: true}
	for root.parent != nil && !seen[root.parent] {
		root = root.parent
		seen[root] = true
	}
	members := chain(root)

	// Insert parents first so children end above them.
	var moved []*Window
	for _, m := range members {
		if m.iconic || m.destroyed {
			continue
		}
		if mws, ok := ws.screen.Workspace(m.workspace); ok && mws.contains(m) {
			mws.stacking = slices.DeleteFunc(mws.stacking, func(x *Window) bool { return x == m })
			mws.stacking = slices.Insert(mws.stacking, 0, m)
		}
		moved = append(moved, m)
	}
	if len(moved) == 0 {
		return
	}
	slices.Reverse(moved)
	ws.restack(moved, true)
	for _, m := range moved {
		ws.screen.notify(func(o Observer) { o.WindowRaised(m) })
	}
}

// LowerWindow lowers w and its transient descendants to the bottom.
func (ws *Workspace) LowerWindow(w *Window) {
	members := chain(w)

	// Children go to the back first so the parent ends up lowest.
	var moved []*Window
	for i := len(members) - 1; i >= 0; i-- {
		m := members[i]
		if m.iconic || m.destroyed {
			continue
		}
		if mws, ok := ws.screen.Workspace(m.workspace); ok && mws.contains(m) {
			mws.stacking = slices.DeleteFunc(mws.stacking, func(x *Window) bool { return x == m })
			mws.stacking = append(mws.stacking, m)
		}
		moved = append(moved, m)
	}
	if len(moved) == 0 {
		return
	}
	ws.restack(moved, false)
	for _, m := range moved {
		ws.screen.notify(func(o Observer) { o.WindowLowered(m) })
	}
}

// restack sends the group, topmost first, plus the rest of this
// workspace's stacking list in one request.
func (ws *Workspace) restack(group []*Window, top bool) {
	inGroup := make(map[*Window]bool, len(group))
	frames := make([]platform.WindowID, 0, len(ws.stacking)+len(group))
	if top {
		for _, g := range group {
			inGroup[g] = true
			frames = append(frames, g.frame)
		}
	} else {
		for _, g := range group {
			inGroup[g] = true
		}
	}
	for _, x := range ws.stacking {
		if !inGroup[x] {
			frames = append(frames, x.frame)
		}
	}
	if !top {
		for _, g := range group {
			frames = append(frames, g.frame)
		}
	}
	if err := ws.screen.backend.Restack(frames); err != nil {
		ws.screen.log.Debug("restack", "err", err)
	}
}

// restackAll reapplies the stacking list to the server.
func (ws *Workspace) restackAll() {
	if len(ws.stacking) == 0 {
		return
	}
	frames := make([]platform.WindowID, 0, len(ws.stacking))
	for _, x := range ws.stacking {
		frames = append(frames, x.frame)
	}
	_ = ws.screen.backend.Restack(frames)
}

// hide withdraws the workspace's windows. Stuck windows move to next.
func (ws *Workspace) hide(next *Workspace) {
	for _, w := range slices.Clone(ws.stacking) {
		if w.stuck {
			ws.removeWindow(w, false)
			next.insertSilently(w)
			continue
		}
		w.Withdraw()
	}
}

// insertSilently adds w at the top without placing or raising it.
func (ws *Workspace) insertSilently(w *Window) {
	w.workspace = ws.id
	w.number = len(ws.windows)
	ws.windows = append(ws.windows, w)
	ws.stacking = slices.Insert(ws.stacking, 0, w)
	ws.relabelMenu()
	ws.screen.notify(func(o Observer) { o.WindowAdded(ws, w) })
}

// show maps the workspace's windows bottom to top.
func (ws *Workspace) show() {
	for i := len(ws.stacking) - 1; i >= 0; i-- {
		w := ws.stacking[i]
		if !w.visible {
			w.Deiconify(false, false)
		}
	}
	ws.restackAll()
}

// Reconfigure relabels the client menu and reconfigures every live window.
func (ws *Workspace) Reconfigure() {
	ws.relabelMenu()
	for _, w := range slices.Clone(ws.windows) {
		if ws.screen.backend.Validate(w.id) {
			w.Reconfigure()
		}
	}
}

// relabelMenu rebuilds the client menu; item i is window number i.
func (ws *Workspace) relabelMenu() {
	items := make([]menu.Item, 0, len(ws.windows))
	for i, w := range ws.windows {
		label := w.title
		if label == "" {
			label = w.String()
		}
		items = append(items, menu.Item{Label: label, Value: i})
	}
	ws.menu.SetItems(items)
}

func (ws *Workspace) menuSelected(it menu.Item) {
	w := ws.Window(it.Value)
	if w == nil {
		return
	}
	if ws.id != ws.screen.current {
		ws.screen.ChangeWorkspace(ws.id)
	}
	if w.shaded {
		w.Shade()
	}
	ws.RaiseWindow(w)
	w.SetInputFocus()
}
