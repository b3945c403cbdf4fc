package wm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/menu"
	"github.com/1broseidon/framewm/internal/platform"
)

// Options are the screen-wide policies the windows and workspaces consult.
type Options struct {
	Placement    config.Placement
	Focus        config.Focus
	EdgeSnap     int
	OpaqueMove   bool
	MoveModifier uint16
	Menu         menu.Options
}

// OptionsFromConfig extracts the policies from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	mod, err := ParseModifier(cfg.Mouse.MoveModifier)
	if err != nil {
		return Options{}, fmt.Errorf("mouse.move_modifier: %w", err)
	}
	return Options{
		Placement:    cfg.Placement,
		Focus:        cfg.Focus,
		EdgeSnap:     cfg.EdgeSnapThreshold,
		OpaqueMove:   cfg.OpaqueMove,
		MoveModifier: mod,
		Menu:         menu.DefaultOptions(),
	}, nil
}

// ParseModifier maps a modifier name such as "Mod1" or "Control" to its mask.
func ParseModifier(name string) (uint16, error) {
	switch name {
	case "Shift":
		return platform.ModShift, nil
	case "Control", "Ctrl":
		return platform.ModControl, nil
	case "Mod1", "Alt":
		return platform.Mod1, nil
	case "Mod2":
		return platform.Mod2, nil
	case "Mod3":
		return platform.Mod3, nil
	case "Mod4", "Super":
		return platform.Mod4, nil
	case "Mod5":
		return platform.Mod5, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// Screen owns the workspaces, the icon list and the style of one X screen.
type Screen struct {
	backend platform.Backend
	router  *InputRouter
	clock   Clock
	log     *slog.Logger
	style   Style
	opts    Options

	workspaces []*Workspace
	current    int
	icons      []*Window
	cascade    geom.Point
	observers  []Observer
	iconMenu   *menu.Menu
}

// NewScreen creates a screen with one workspace per name. At least one
// workspace is always created.
func NewScreen(b platform.Backend, router *InputRouter, clock Clock, style Style, opts Options, names []string, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Screen{
		backend: b,
		router:  router,
		clock:   clock,
		log:     logger,
		style:   style,
		opts:    opts,
		cascade: geom.Point{X: cascadeInset, Y: cascadeInset},
	}
	s.iconMenu = menu.New(b, menu.KindIcon, "Icons", opts.Menu, s.iconSelected)
	if len(names) == 0 {
		names = []string{"one"}
	}
	for _, name := range names {
		s.AddWorkspace(name)
	}
	return s
}

func (s *Screen) Style() Style                { return s.style }
func (s *Screen) Options() Options            { return s.opts }
func (s *Screen) Router() *InputRouter        { return s.router }
func (s *Screen) BorderColor() uint32         { return s.style.BorderColor }
func (s *Screen) Renderer() platform.Renderer { return s.backend }
func (s *Screen) IconMenu() *menu.Menu        { return s.iconMenu }

func (s *Screen) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Screen) notify(f func(Observer)) {
	for _, o := range s.observers {
		f(o)
	}
}

func (s *Screen) clickToFocus() bool { return s.opts.Focus.Model != config.FocusSloppy }
func (s *Screen) sloppyFocus() bool  { return s.opts.Focus.Model == config.FocusSloppy }

func (s *Screen) focusNone() {
	s.router.setFocused(nil)
	if err := s.backend.FocusRoot(); err != nil {
		s.log.Debug("focus root", "err", err)
	}
	s.notify(func(o Observer) { o.FocusChanged(nil) })
}

// AvailableArea is the screen minus the space reserved by docks.
func (s *Screen) AvailableArea() geom.Rect {
	return s.backend.Strut().Apply(s.backend.ScreenRect())
}

func (s *Screen) validWorkspace(i int) bool { return i >= 0 && i < len(s.workspaces) }

// Workspace returns the workspace with the given id.
func (s *Screen) Workspace(i int) (*Workspace, bool) {
	if !s.validWorkspace(i) {
		return nil, false
	}
	return s.workspaces[i], true
}

func (s *Screen) Workspaces() []*Workspace { return slices.Clone(s.workspaces) }

func (s *Screen) CurrentWorkspace() *Workspace { return s.workspaces[s.current] }

func (s *Screen) CurrentIndex() int { return s.current }

// AddWorkspace appends a workspace and returns it.
func (s *Screen) AddWorkspace(name string) *Workspace {
	ws := newWorkspace(s, len(s.workspaces), name)
	s.workspaces = append(s.workspaces, ws)
	s.notify(func(o Observer) { o.WorkspacesChanged(s) })
	return ws
}

// RemoveLastWorkspace deletes the last workspace, moving its windows and
// icons to the current workspace. When the last workspace is current the
// one before it becomes current first.
func (s *Screen) RemoveLastWorkspace() Result {
	if len(s.workspaces) <= 1 {
		return ignored(ErrLastWorkspace)
	}
	last := s.workspaces[len(s.workspaces)-1]
	if s.current == last.id {
		s.ChangeWorkspace(last.id - 1)
	}
	target := s.current
	for _, w := range last.Windows() {
		s.SendToWorkspace(w, target)
	}
	for _, w := range s.icons {
		if w.workspace == last.id {
			w.workspace = target
			w.storeAttributes()
		}
	}
	last.menu.Destroy()
	s.workspaces = s.workspaces[:len(s.workspaces)-1]
	s.notify(func(o Observer) { o.WorkspacesChanged(s) })
	return applied()
}

// ChangeWorkspace hides the current workspace and shows workspace i.
// Stuck windows follow.
func (s *Screen) ChangeWorkspace(i int) Result {
	if !s.validWorkspace(i) {
		return ignored(ErrNoSuchWorkspace)
	}
	if i == s.current {
		return ignored(ErrCurrentWorkspace)
	}
	old := s.workspaces[s.current]
	next := s.workspaces[i]
	if f := s.router.Focused(); f != nil && f.workspace == old.id {
		old.lastFocused = f
	}
	s.router.CloseMenu()

	old.hide(next)
	s.current = i
	next.show()
	s.notify(func(o Observer) { o.WorkspacesChanged(s) })

	if f := s.router.Focused(); f != nil && f.visible {
		return applied()
	}
	if s.opts.Focus.FocusLast && next.lastFocused != nil && next.contains(next.lastFocused) && next.lastFocused.SetInputFocus() {
		return applied()
	}
	s.focusNone()
	return applied()
}

// SendToWorkspace moves w to workspace i, hiding it when i is not current.
func (s *Screen) SendToWorkspace(w *Window, i int) Result {
	if !s.validWorkspace(i) {
		return ignored(ErrNoSuchWorkspace)
	}
	if w.workspace == i {
		return ignored(ErrUnchanged)
	}
	if w.iconic {
		w.workspace = i
		w.storeAttributes()
		return applied()
	}
	if ws, ok := s.Workspace(w.workspace); ok {
		ws.RemoveWindow(w)
	}
	s.workspaces[i].AddWindow(w, false)
	if i != s.current && !w.stuck {
		w.Withdraw()
	} else if !w.visible && w.state != platform.StateWithdrawn {
		w.Deiconify(false, false)
	}
	for _, t := range w.Transients() {
		if !t.iconic && t.workspace != i {
			s.SendToWorkspace(t, i)
		}
	}
	w.storeAttributes()
	return applied()
}

// Icons returns the iconified windows in iconify order.
func (s *Screen) Icons() []*Window { return slices.Clone(s.icons) }

func (s *Screen) addIcon(w *Window) {
	if !slices.Contains(s.icons, w) {
		s.icons = append(s.icons, w)
	}
	s.relabelIcons()
}

func (s *Screen) removeIcon(w *Window) {
	s.icons = slices.DeleteFunc(s.icons, func(x *Window) bool { return x == w })
	s.relabelIcons()
}

func (s *Screen) relabelIcons() {
	items := make([]menu.Item, 0, len(s.icons))
	for i, w := range s.icons {
		label := w.iconTitle
		if label == "" {
			label = w.title
		}
		items = append(items, menu.Item{Label: label, Value: i})
	}
	s.iconMenu.SetItems(items)
}

func (s *Screen) iconSelected(it menu.Item) {
	if it.Value >= 0 && it.Value < len(s.icons) {
		s.icons[it.Value].Deiconify(true, true)
	}
}

// Windows returns every managed window: each workspace in order, then icons.
func (s *Screen) Windows() []*Window {
	var out []*Window
	for _, ws := range s.workspaces {
		out = append(out, ws.windows...)
	}
	return append(out, s.icons...)
}

// groupLeaderWindow finds a managed window belonging to the group led by id.
func (s *Screen) groupLeaderWindow(id platform.WindowID) *Window {
	for _, w := range s.Windows() {
		if w.id == id || w.hints.Group == id {
			return w
		}
	}
	return nil
}

// Reconfigure applies a new style and policies to every window.
func (s *Screen) Reconfigure(style Style, opts Options) {
	s.style = style
	s.opts = opts
	for _, ws := range s.workspaces {
		ws.Reconfigure()
	}
	for _, w := range s.icons {
		w.Reconfigure()
	}
	s.relabelIcons()
	s.notify(func(o Observer) { o.WorkspacesChanged(s) })
}
