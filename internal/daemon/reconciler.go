package daemon

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper releases managed windows whose clients are gone and returns how
// many it released. It must only be called on the event loop.
type Sweeper interface {
	Sweep() int
}

// Runner executes f on the event loop and waits for it.
type Runner interface {
	Do(ctx context.Context, f func()) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically re-validates every managed window, catching
// clients that vanished without the manager seeing their destroy event.
type Reconciler struct {
	interval time.Duration
	sweeper  Sweeper
	loop     Runner
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, sweeper Sweeper, loop Runner) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		sweeper:  sweeper,
		loop:     loop,
		logger:   logger,
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve runs the reconciliation loop until ctx is cancelled. It satisfies
// suture.Service.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile(ctx context.Context) int {
	released := 0
	err := r.loop.Do(ctx, func() {
		// Recover from panics to prevent crashing the window manager
		defer func() {
			if err := recover(); err != nil {
				r.logger.Error("reconciler panic recovered", "error", err)
			}
		}()
		released = r.sweeper.Sweep()
	})
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("reconciler: sweep not run", "error", err)
		}
		return 0
	}
	if released > 0 {
		r.logger.Info("reconciler: released stale windows", "count", released)
	}
	return released
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) int {
	return r.reconcile(ctx)
}
