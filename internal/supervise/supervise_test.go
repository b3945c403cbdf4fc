package supervise

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	plain := errors.New("boom")

	tests := []struct {
		name        string
		ctx         context.Context
		err         error
		wantNil     bool
		wantCtxErr  bool
		wantIs      error
		wantNotCtx  bool
		wantExactly error
	}{
		{name: "nil", ctx: live, err: nil, wantNil: true},
		{name: "plain error passes through", ctx: live, err: plain, wantExactly: plain},
		{name: "cancelled ctx wins", ctx: cancelled, err: plain, wantIs: context.Canceled},
		{name: "own deadline is not a shutdown", ctx: live, err: fmt.Errorf("request: %w", context.DeadlineExceeded), wantNotCtx: true},
		{
			name:       "keeps do-not-restart",
			ctx:        live,
			err:        errors.Join(context.Canceled, suture.ErrDoNotRestart),
			wantNotCtx: true,
			wantIs:     suture.ErrDoNotRestart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeError(tt.ctx, tt.err)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("SanitizeError = %v, want nil", got)
				}
				return
			}
			if tt.wantExactly != nil && got != tt.wantExactly {
				t.Fatalf("SanitizeError = %v, want %v", got, tt.wantExactly)
			}
			if tt.wantIs != nil && !errors.Is(got, tt.wantIs) {
				t.Fatalf("SanitizeError = %v, want errors.Is %v", got, tt.wantIs)
			}
			if tt.wantNotCtx && (errors.Is(got, context.Canceled) || errors.Is(got, context.DeadlineExceeded)) {
				t.Fatalf("SanitizeError = %v still reads as a context error", got)
			}
		})
	}
}

func TestSupervisorRestartsFailedService(t *testing.T) {
	var runs atomic.Int32
	svc := NewFunc("flaky", func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("first run fails")
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if svc.String() != "flaky" {
		t.Fatalf("String() = %q", svc.String())
	}

	super := New("test", nil)
	Add(super, svc)

	ctx, cancel := context.WithCancel(context.Background())
	errc := super.ServeBackground(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("service was not restarted")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errc
}
