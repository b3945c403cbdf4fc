package daemon

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/framewm/internal/platform"
	"github.com/1broseidon/framewm/internal/wm"
)

type inlineRunner struct{ err error }

func (r inlineRunner) Do(_ context.Context, f func()) error {
	if r.err != nil {
		return r.err
	}
	f()
	return nil
}

type countingSweeper struct {
	calls atomic.Int32
	stale int
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return s.stale
}

func TestReconcileNow(t *testing.T) {
	sw := &countingSweeper{stale: 2}
	r := NewReconciler(ReconcilerConfig{}, sw, inlineRunner{})
	if got := r.ReconcileNow(context.Background()); got != 2 {
		t.Fatalf("ReconcileNow = %d, want 2", got)
	}
	if r.interval != 10*time.Second {
		t.Fatalf("default interval = %v", r.interval)
	}
}

func TestReconcile_LoopStopped(t *testing.T) {
	sw := &countingSweeper{stale: 1}
	r := NewReconciler(ReconcilerConfig{}, sw, inlineRunner{err: errors.New("event loop stopped")})
	if got := r.ReconcileNow(context.Background()); got != 0 {
		t.Fatalf("ReconcileNow = %d, want 0", got)
	}
	if sw.calls.Load() != 0 {
		t.Fatal("sweep ran without the loop")
	}
}

type panickySweeper struct{}

func (panickySweeper) Sweep() int { panic("boom") }

func TestReconcile_RecoversPanic(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{}, panickySweeper{}, inlineRunner{})
	if got := r.ReconcileNow(context.Background()); got != 0 {
		t.Fatalf("ReconcileNow = %d, want 0", got)
	}
}

func TestServe_TicksUntilCancelled(t *testing.T) {
	sw := &countingSweeper{}
	r := NewReconciler(ReconcilerConfig{Interval: 5 * time.Millisecond}, sw, inlineRunner{})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- r.Serve(ctx) }()

	deadline := time.Now().Add(time.Second)
	for sw.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("reconciler never ticked twice")
		}
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve returned %v", err)
	}
}

type fakePublisher struct {
	names    []string
	current  int
	clients  []platform.WindowID
	active   platform.WindowID
	desktops map[platform.WindowID]int
	sets     int
}

func (p *fakePublisher) PublishDesktops(names []string, current int) error {
	p.names, p.current = names, current
	return nil
}

func (p *fakePublisher) PublishClients(clients []platform.WindowID, active platform.WindowID) error {
	p.clients, p.active = clients, active
	return nil
}

func (p *fakePublisher) SetWindowDesktop(win platform.WindowID, desktop int) error {
	if p.desktops == nil {
		p.desktops = map[platform.WindowID]int{}
	}
	p.desktops[win] = desktop
	p.sets++
	return nil
}

type fakeSource struct {
	windows    []wm.WindowInfo
	workspaces []wm.WorkspaceInfo
}

func (s *fakeSource) Windows() []wm.WindowInfo       { return s.windows }
func (s *fakeSource) Workspaces() []wm.WorkspaceInfo { return s.workspaces }

func TestStateSynchronizer_Coalesces(t *testing.T) {
	var queued []func()
	pub := &fakePublisher{}
	src := &fakeSource{
		workspaces: []wm.WorkspaceInfo{{Index: 0, Name: "one"}, {Index: 1, Name: "two", Current: true}},
		windows: []wm.WindowInfo{
			{ID: 10, Workspace: 1, Focused: true},
			{ID: 11, Workspace: 0, Stuck: true},
		},
	}
	s := NewStateSynchronizer(pub, src, func(f func()) { queued = append(queued, f) }, nil)

	s.WindowAdded(nil, nil)
	s.FocusChanged(nil)
	s.WorkspacesChanged(nil)
	if len(queued) != 1 {
		t.Fatalf("queued %d publishes, want 1", len(queued))
	}
	queued[0]()

	if !slices.Equal(pub.names, []string{"one", "two"}) || pub.current != 1 {
		t.Fatalf("desktops = %v current %d", pub.names, pub.current)
	}
	if !slices.Equal(pub.clients, []platform.WindowID{10, 11}) || pub.active != 10 {
		t.Fatalf("clients = %v active %d", pub.clients, pub.active)
	}
	if pub.desktops[10] != 1 || pub.desktops[11] != -1 {
		t.Fatalf("window desktops = %v", pub.desktops)
	}

	// Unchanged desktops are not rewritten.
	s.WindowRemoved(nil, nil)
	if len(queued) != 2 {
		t.Fatalf("queued %d publishes, want 2", len(queued))
	}
	queued[1]()
	if pub.sets != 2 {
		t.Fatalf("SetWindowDesktop called %d times, want 2", pub.sets)
	}
}
