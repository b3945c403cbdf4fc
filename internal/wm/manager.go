package wm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// Manager is the event dispatcher. It owns the screen and the input
// router and turns backend events into window operations.
type Manager struct {
	backend platform.Backend
	screen  *Screen
	router  *InputRouter
	log     *slog.Logger
}

var _ platform.EventSink = (*Manager)(nil)

// NewManager creates a manager with the given style and policies.
func NewManager(b platform.Backend, clock Clock, style Style, opts Options, workspaces []string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	router := NewInputRouter()
	return &Manager{
		backend: b,
		screen:  NewScreen(b, router, clock, style, opts, workspaces, logger),
		router:  router,
		log:     logger,
	}
}

func (m *Manager) Screen() *Screen      { return m.screen }
func (m *Manager) Router() *InputRouter { return m.router }

// Window returns the managed window whose client is id.
func (m *Manager) Window(id platform.WindowID) *Window {
	w := m.router.Window(id)
	if w == nil || w.id != id {
		return nil
	}
	return w
}

// Focused returns the focused window, or nil.
func (m *Manager) Focused() *Window { return m.router.Focused() }

// Manage adopts a client window. It is a no-op for windows already
// managed.
func (m *Manager) Manage(id platform.WindowID, startup bool) (*Window, error) {
	if w := m.router.Window(id); w != nil {
		return w, ErrAlreadyManaged
	}
	return m.screen.manage(id, startup)
}

// Start adopts the windows that existed before the manager started:
// every mapped top-level window and every window left iconic.
func (m *Manager) Start() error {
	ids, err := m.backend.TopLevelWindows()
	if err != nil {
		return fmt.Errorf("query windows: %w", err)
	}
	adopted := 0
	for _, id := range ids {
		attrs, err := m.backend.Attributes(id)
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		state, _ := m.backend.WMState(id)
		if !attrs.Viewable && state != platform.StateIconic {
			continue
		}
		w, err := m.Manage(id, true)
		if err != nil {
			m.log.Debug("skip window at startup", "window", fmt.Sprintf("0x%x", uint32(id)), "err", err)
			continue
		}
		if state == platform.StateIconic {
			w.Iconify()
		} else {
			w.mapRequest(false)
		}
		adopted++
	}
	m.log.Info("startup scan complete", "windows", adopted)
	return nil
}

// Shutdown releases every window, mapping clients back at their
// original positions.
func (m *Manager) Shutdown() {
	m.router.CloseMenu()
	for _, w := range m.screen.Windows() {
		w.unmanage(true)
	}
	_ = m.backend.FocusRoot()
}

func (m *Manager) MapRequest(ev platform.MapRequestEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.mapRequest(false)
		return
	}
	w, err := m.screen.manage(ev.Window, false)
	if err != nil {
		if errors.Is(err, ErrWithdrawn) {
			// Dock apps are left unmanaged but still shown.
			_ = m.backend.Map(ev.Window)
		}
		m.log.Debug("not managing window", "window", fmt.Sprintf("0x%x", uint32(ev.Window)), "err", err)
		return
	}
	w.mapRequest(true)
}

func (m *Manager) MapNotify(ev platform.MapNotifyEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.mapNotify()
	}
}

func (m *Manager) UnmapNotify(ev platform.UnmapNotifyEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.unmapNotify(ev)
	}
}

func (m *Manager) DestroyNotify(ev platform.DestroyNotifyEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.destroyNotify()
	}
}

func (m *Manager) ReparentNotify(ev platform.ReparentNotifyEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.reparentNotify(ev)
	}
}

func (m *Manager) ConfigureRequest(ev platform.ConfigureRequestEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.configureRequest(ev)
		return
	}
	if err := m.backend.ConfigureUnmanaged(ev); err != nil {
		m.log.Debug("configure unmanaged", "err", err)
	}
}

func (m *Manager) PropertyNotify(ev platform.PropertyNotifyEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.propertyNotify(ev.Property)
	}
}

func (m *Manager) ClientMessage(ev platform.ClientMessageEvent) {
	if w := m.Window(ev.Window); w != nil {
		w.clientMessage(ev)
	}
}

func (m *Manager) ButtonPress(ev platform.ButtonEvent) {
	if t, ok := m.router.Target(ev.Window); ok {
		t.ButtonPress(ev)
		return
	}
	m.router.CloseMenu()
	if ev.Window == m.backend.Root() && ev.Button == 3 {
		m.showRootMenu(ev.Root)
	}
}

func (m *Manager) ButtonRelease(ev platform.ButtonEvent) {
	if w := m.router.Masked(); w != nil {
		w.ButtonRelease(ev)
		return
	}
	if t, ok := m.router.Target(ev.Window); ok {
		t.ButtonRelease(ev)
	}
}

func (m *Manager) Motion(ev platform.MotionEvent) {
	if w := m.router.Masked(); w != nil {
		w.Motion(ev)
		return
	}
	if t, ok := m.router.Target(ev.Window); ok {
		t.Motion(ev)
	}
}

func (m *Manager) Expose(ev platform.ExposeEvent) {
	if t, ok := m.router.Target(ev.Window); ok {
		t.Expose(ev)
	}
}

func (m *Manager) Enter(ev platform.CrossingEvent) {
	if t, ok := m.router.Target(ev.Window); ok {
		t.Enter(ev)
	}
}

// showRootMenu pops up the current workspace's window list.
func (m *Manager) showRootMenu(p geom.Point) {
	ws := m.screen.CurrentWorkspace()
	if err := ws.menu.Show(p); err != nil {
		m.log.Debug("show workspace menu", "err", err)
		return
	}
	m.router.OpenMenu(ws.menu)
}

// Reconfigure applies a reloaded style and policy set.
func (m *Manager) Reconfigure(style Style, opts Options) {
	m.router.CloseMenu()
	m.screen.Reconfigure(style, opts)
	m.log.Info("reconfigured", "workspaces", len(m.screen.workspaces))
}

// Sweep unmanages windows whose clients disappeared without the manager
// seeing the event. It returns the number of windows released.
func (m *Manager) Sweep() int {
	n := 0
	for _, w := range m.screen.Windows() {
		if _, err := m.backend.Attributes(w.id); err != nil {
			w.unmanage(false)
			n++
		}
	}
	return n
}
