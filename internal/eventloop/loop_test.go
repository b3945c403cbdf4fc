package eventloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeX struct {
	before chan struct{}
	after  chan struct{}
	quit   chan struct{}
	stops  atomic.Int32
}

func startLoop(t *testing.T) (*Loop, *fakeX, context.CancelFunc, <-chan error) {
	t.Helper()
	x := &fakeX{
		before: make(chan struct{}),
		after:  make(chan struct{}),
		quit:   make(chan struct{}),
	}
	l := newLoop(x.before, x.after, x.quit, func() { x.stops.Add(1) }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return l, x, cancel, errc
}

func TestDoRunsOnLoop(t *testing.T) {
	l, _, _, _ := startLoop(t)

	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("task did not run")
	}
}

func TestWorkWaitsForEventDispatch(t *testing.T) {
	l, x, _, _ := startLoop(t)

	// An event is being dispatched until after is signalled.
	x.before <- struct{}{}

	var ran atomic.Bool
	done := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func() { ran.Store(true) })
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Fatal("task ran while an event was being dispatched")
	}

	x.after <- struct{}{}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	if !ran.Load() {
		t.Fatal("task did not run")
	}
}

func TestAfterFunc(t *testing.T) {
	l, _, _, _ := startLoop(t)

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestAfterFuncStop(t *testing.T) {
	l, _, _, _ := startLoop(t)

	var ran atomic.Bool
	timer := l.AfterFunc(20*time.Millisecond, func() { ran.Store(true) })
	if !timer.Stop() {
		t.Fatal("Stop on a pending timer should report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}

	time.Sleep(50 * time.Millisecond)
	// Flush anything the timer might have posted.
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ran.Load() {
		t.Fatal("stopped timer ran")
	}
}

func TestTaskPanicDoesNotKillLoop(t *testing.T) {
	l, _, _, _ := startLoop(t)

	l.Post(func() { panic("boom") })
	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("loop stopped after a panicking task")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l, x, cancel, errc := startLoop(t)

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if x.stops.Load() != 1 {
		t.Fatalf("stop called %d times, want 1", x.stops.Load())
	}
	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("Do after stop = %v, want ErrStopped", err)
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	_, x, _, errc := startLoop(t)

	close(x.quit)
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
