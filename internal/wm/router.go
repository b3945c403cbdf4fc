package wm

import (
	"github.com/1broseidon/framewm/internal/menu"
	"github.com/1broseidon/framewm/internal/platform"
)

// EventTarget receives pointer and exposure events for the windows it
// registered.
type EventTarget interface {
	ButtonPress(ev platform.ButtonEvent)
	ButtonRelease(ev platform.ButtonEvent)
	Motion(ev platform.MotionEvent)
	Expose(ev platform.ExposeEvent)
	Enter(ev platform.CrossingEvent)
}

var (
	_ EventTarget = (*Window)(nil)
	_ EventTarget = (*menu.Menu)(nil)
)

// InputRouter maps X window ids to the objects that handle them and holds
// the process-wide focus, pointer mask and open menu.
type InputRouter struct {
	targets map[platform.WindowID]EventTarget
	focused *Window
	masked  *Window
	menu    *menu.Menu
}

func NewInputRouter() *InputRouter {
	return &InputRouter{targets: make(map[platform.WindowID]EventTarget)}
}

// Register routes events for id to t.
func (r *InputRouter) Register(id platform.WindowID, t EventTarget) {
	if id == platform.None {
		return
	}
	r.targets[id] = t
}

func (r *InputRouter) Unregister(id platform.WindowID) {
	delete(r.targets, id)
}

// Target returns the handler for id.
func (r *InputRouter) Target(id platform.WindowID) (EventTarget, bool) {
	t, ok := r.targets[id]
	return t, ok
}

// Window returns the managed window owning id, which may be the client,
// the frame or any decoration child.
func (r *InputRouter) Window(id platform.WindowID) *Window {
	w, _ := r.targets[id].(*Window)
	return w
}

// Len is the number of registered ids.
func (r *InputRouter) Len() int { return len(r.targets) }

func (r *InputRouter) Focused() *Window { return r.focused }

// setFocused records w as the focused window and clears the flag on the
// previous one.
func (r *InputRouter) setFocused(w *Window) {
	if r.focused == w {
		return
	}
	prev := r.focused
	r.focused = w
	if prev != nil {
		prev.setFocusFlag(false)
	}
}

// Mask directs all pointer motion to w until Unmask. It fails when another
// window already holds the mask.
func (r *InputRouter) Mask(w *Window) bool {
	if r.masked != nil && r.masked != w {
		return false
	}
	r.masked = w
	return true
}

func (r *InputRouter) Unmask(w *Window) {
	if r.masked == w {
		r.masked = nil
	}
}

func (r *InputRouter) Masked() *Window { return r.masked }

// OpenMenu records m as the open menu, hiding any other.
func (r *InputRouter) OpenMenu(m *menu.Menu) {
	if r.menu != nil && r.menu != m {
		_ = r.menu.Hide()
	}
	r.menu = m
	r.Register(m.Window(), m)
}

// CloseMenu hides the open menu, if any.
func (r *InputRouter) CloseMenu() {
	if r.menu != nil {
		_ = r.menu.Hide()
		r.menu = nil
	}
}

func (r *InputRouter) Menu() *menu.Menu {
	if r.menu != nil && !r.menu.Visible() {
		r.menu = nil
	}
	return r.menu
}

// forget drops every reference the router holds to w.
func (r *InputRouter) forget(w *Window) {
	for _, id := range w.ids() {
		delete(r.targets, id)
	}
	if r.focused == w {
		r.focused = nil
	}
	if r.masked == w {
		r.masked = nil
	}
	if w.menu != nil && r.menu == w.menu {
		r.menu = nil
	}
}
