package wm

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Implementations must run f on the event
// loop goroutine, never concurrently with event handlers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Observer is notified of structural changes. Every method is called on
// the event loop.
type Observer interface {
	WindowAdded(ws *Workspace, w *Window)
	WindowRemoved(ws *Workspace, w *Window)
	WindowRaised(w *Window)
	WindowLowered(w *Window)
	WindowConfigured(w *Window)
	// FocusChanged reports the new focused window, nil for none.
	FocusChanged(w *Window)
	// WorkspacesChanged follows a switch, add, remove or rename.
	WorkspacesChanged(s *Screen)
}
