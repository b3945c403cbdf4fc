package wm

import "errors"

// Outcome classifies what a window operation did.
type Outcome int

const (
	// Applied means the operation changed state.
	Applied Outcome = iota
	// Ignored means the operation was a no-op; Reason says why.
	Ignored
	// Deferred means the change was recorded and is finished later, for
	// example when a resize gesture ends.
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Ignored:
		return "ignored"
	case Deferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Result is returned by the public window and workspace operations.
type Result struct {
	Outcome Outcome
	Reason  error
}

func applied() Result             { return Result{Outcome: Applied} }
func deferred() Result            { return Result{Outcome: Deferred} }
func ignored(reason error) Result { return Result{Outcome: Ignored, Reason: reason} }

// OK reports whether the operation took effect now or later.
func (r Result) OK() bool { return r.Outcome != Ignored }

func (r Result) String() string {
	if r.Reason != nil {
		return r.Outcome.String() + ": " + r.Reason.Error()
	}
	return r.Outcome.String()
}

var (
	ErrStale            = errors.New("client window is gone")
	ErrOverrideRedirect = errors.New("window is override-redirect")
	ErrWithdrawn        = errors.New("window asked to start withdrawn")
	ErrAlreadyManaged   = errors.New("window is already managed")
	ErrAlreadyIconic    = errors.New("window is already iconic")
	ErrNotIconic        = errors.New("window is not iconic")
	ErrNoTitlebar       = errors.New("window has no titlebar")
	ErrNoDeleteProtocol = errors.New("client does not support WM_DELETE_WINDOW")
	ErrNotMaximized     = errors.New("window is not maximized")
	ErrUnchanged        = errors.New("geometry unchanged")
	ErrNotAllowed       = errors.New("operation disabled for this window")
	ErrNoSuchWorkspace  = errors.New("no such workspace")
	ErrLastWorkspace    = errors.New("cannot remove the only workspace")
	ErrCurrentWorkspace = errors.New("workspace is already current")
	ErrPointerMasked    = errors.New("pointer is grabbed by another window")
	ErrNoWindow         = errors.New("no such window")
)
