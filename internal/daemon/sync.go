package daemon

import (
	"log/slog"

	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/wm"
)

// Publisher writes window manager state to root window properties.
type Publisher interface {
	PublishDesktops(names []string, current int) error
	PublishClients(clients []platform.WindowID, active platform.WindowID) error
	SetWindowDesktop(win platform.WindowID, desktop int) error
}

// Source reports the state to publish.
type Source interface {
	Windows() []wm.WindowInfo
	Workspaces() []wm.WorkspaceInfo
}

// StateSynchronizer keeps the EWMH desktop and client list properties in
// step with the manager. Changes are coalesced into one publish per loop
// iteration through post.
type StateSynchronizer struct {
	pub    Publisher
	src    Source
	post   func(func())
	logger *slog.Logger

	pending bool
	desktop map[platform.WindowID]int
}

var _ wm.Observer = (*StateSynchronizer)(nil)

// NewStateSynchronizer creates a new state synchronizer. post queues a
// function on the event loop.
func NewStateSynchronizer(pub Publisher, src Source, post func(func()), logger *slog.Logger) *StateSynchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateSynchronizer{
		pub:     pub,
		src:     src,
		post:    post,
		logger:  logger,
		desktop: make(map[platform.WindowID]int),
	}
}

func (s *StateSynchronizer) WindowAdded(*wm.Workspace, *wm.Window)   { s.schedule() }
func (s *StateSynchronizer) WindowRemoved(*wm.Workspace, *wm.Window) { s.schedule() }
func (s *StateSynchronizer) WindowRaised(*wm.Window)                 {}
func (s *StateSynchronizer) WindowLowered(*wm.Window)                {}
func (s *StateSynchronizer) WindowConfigured(*wm.Window)             {}
func (s *StateSynchronizer) FocusChanged(*wm.Window)                 { s.schedule() }
func (s *StateSynchronizer) WorkspacesChanged(*wm.Screen)            { s.schedule() }

func (s *StateSynchronizer) schedule() {
	if s.pending {
		return
	}
	s.pending = true
	s.post(s.Sync)
}

// Sync publishes the current state immediately.
func (s *StateSynchronizer) Sync() {
	s.pending = false

	spaces := s.src.Workspaces()
	names := make([]string, len(spaces))
	current := 0
	for i, ws := range spaces {
		names[i] = ws.Name
		if ws.Current {
			current = i
		}
	}
	if err := s.pub.PublishDesktops(names, current); err != nil {
		s.logger.Warn("failed to publish desktops", "error", err)
	}

	wins := s.src.Windows()
	clients := make([]platform.WindowID, 0, len(wins))
	var active platform.WindowID
	seen := make(map[platform.WindowID]bool, len(wins))
	for _, w := range wins {
		id := platform.WindowID(w.ID)
		clients = append(clients, id)
		seen[id] = true
		if w.Focused {
			active = id
		}

		desktop := w.Workspace
		if w.Stuck {
			desktop = -1
		}
		if prev, ok := s.desktop[id]; ok && prev == desktop {
			continue
		}
		if err := s.pub.SetWindowDesktop(id, desktop); err != nil {
			s.logger.Debug("failed to set window desktop", "window_id", w.ID, "error", err)
			continue
		}
		s.desktop[id] = desktop
	}
	for id := range s.desktop {
		if !seen[id] {
			delete(s.desktop, id)
		}
	}

	if err := s.pub.PublishClients(clients, active); err != nil {
		s.logger.Warn("failed to publish client list", "error", err)
	}
}
