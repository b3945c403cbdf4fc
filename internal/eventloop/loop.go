// Package eventloop serializes X event handling with work posted from
// other goroutines (IPC requests, timers, the reconciler).
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/framewm/internal/wm"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop runs posted functions between X events. While xevent dispatches
// an event the loop goroutine waits, so event handlers and posted work
// never run at the same time.
type Loop struct {
	before <-chan struct{}
	after  <-chan struct{}
	quit   <-chan struct{}
	stop   func()

	work    chan func()
	done    chan struct{}
	stopped atomic.Bool
	log     *slog.Logger
}

var _ wm.Clock = (*Loop)(nil)

// New starts xevent's main loop for xu and returns a Loop bound to it.
// Nothing is dispatched until Run is called.
func New(xu *xgbutil.XUtil, logger *slog.Logger) *Loop {
	before, after, quit := xevent.MainPing(xu)
	return newLoop(before, after, quit, func() { xevent.Quit(xu) }, logger)
}

func newLoop(before, after, quit <-chan struct{}, stop func(), logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		before: before,
		after:  after,
		quit:   quit,
		stop:   stop,
		work:   make(chan func(), 64),
		done:   make(chan struct{}),
		log:    logger,
	}
}

// Run dispatches until ctx is cancelled or the X connection closes.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.stopped.Store(true)
		close(l.done)
	}()
	for {
		select {
		case <-ctx.Done():
			l.stop()
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-l.before:
			<-l.after
		case f := <-l.work:
			l.run(f)
		}
	}
}

func (l *Loop) run(f func()) {
	defer func() {
		if err := recover(); err != nil {
			l.log.Error("event loop task panic recovered", "error", err)
		}
	}()
	f()
}

// Post queues f to run on the loop. It never blocks the caller.
func (l *Loop) Post(f func()) {
	if l.stopped.Load() {
		return
	}
	select {
	case l.work <- f:
	default:
		go func() {
			select {
			case l.work <- f:
			case <-l.done:
			}
		}()
	}
}

// Do runs f on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		f()
	}
	select {
	case l.work <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc runs f on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) wm.Timer {
	t := &timer{}
	t.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.cancelled.Load() {
				return
			}
			t.fired.Store(true)
			f()
		})
	})
	return t
}

// timer cancels a callback even when it already sits in the work queue.
type timer struct {
	t         *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

// Stop reports whether the call prevented f from running.
func (t *timer) Stop() bool {
	t.t.Stop()
	if t.fired.Load() {
		return false
	}
	return !t.cancelled.Swap(true)
}
