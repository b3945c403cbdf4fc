package wm

import (
	"time"

	"github.com/1broseidon/framewm/internal/platform"
)

// modalTransient returns a visible modal transient of w, if any.
func (w *Window) modalTransient() *Window {
	for _, t := range w.transients {
		if t.modal && !t.iconic && !t.destroyed {
			return t
		}
	}
	return nil
}

// SetInputFocus gives w the keyboard focus, or hands it to a modal
// transient. It returns false when the client is gone.
func (w *Window) SetInputFocus() bool {
	if w.destroyed {
		return false
	}
	if t := w.modalTransient(); t != nil {
		return t.SetInputFocus()
	}
	if w.focused {
		return true
	}
	b := w.backend()
	if !b.Validate(w.id) {
		return false
	}

	var err error
	if w.hints.Input {
		err = b.SetInputFocus(w.id)
	} else {
		err = b.FocusRoot()
	}
	if err != nil {
		w.log.Debug("set input focus", "err", err)
		return false
	}

	w.screen.router.setFocused(w)
	w.setFocusFlag(true)
	w.screen.notify(func(o Observer) { o.FocusChanged(w) })
	if w.protocols.TakeFocus {
		if err := b.SendProtocol(w.id, platform.ProtocolTakeFocus); err != nil {
			w.log.Debug("send WM_TAKE_FOCUS", "err", err)
		}
	}
	if ws, ok := w.screen.Workspace(w.workspace); ok {
		ws.lastFocused = w
	}
	if w.screen.sloppyFocus() && w.screen.opts.Focus.AutoRaise {
		w.startAutoRaise()
	}
	return true
}

// setFocusFlag repaints the decorations for the new focus state.
func (w *Window) setFocusFlag(focused bool) {
	w.focused = focused
	if !focused {
		w.stopAutoRaise()
	}
	if w.frame != platform.None && !w.destroyed {
		w.paintDecorations()
	}
}

// startAutoRaise (re)arms the auto-raise timer.
func (w *Window) startAutoRaise() {
	w.stopAutoRaise()
	delay := time.Duration(w.screen.opts.Focus.AutoRaiseDelayMS) * time.Millisecond
	w.autoRaise = w.screen.clock.AfterFunc(delay, func() {
		w.autoRaise = nil
		if w.destroyed || !w.focused || w.iconic {
			return
		}
		if ws, ok := w.screen.Workspace(w.workspace); ok {
			ws.RaiseWindow(w)
		}
	})
}

func (w *Window) stopAutoRaise() {
	if w.autoRaise != nil {
		w.autoRaise.Stop()
		w.autoRaise = nil
	}
}

// AutoRaisePending reports whether the auto-raise timer is armed.
func (w *Window) AutoRaisePending() bool { return w.autoRaise != nil }
