package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/framewm/internal/config"
)

// Handler manages global keyboard shortcuts on the root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler for the root window of xu.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, log: logger}
}

// Bind grabs every non-empty sequence in b and calls run with the
// command's name when it is pressed. All sequences are attempted; the
// returned error joins the ones that could not be grabbed.
func (h *Handler) Bind(b config.Bindings, run func(name string)) error {
	var errs []error
	for _, name := range bound(b) {
		seq, _ := b.Sequence(name)
		if err := h.RegisterFunc(seq, func() { run(name) }); err != nil {
			errs = append(errs, fmt.Errorf("bind %s (%s): %w", name, seq, err))
			continue
		}
		h.log.Debug("key bound", "command", name, "keys", seq)
	}
	return errors.Join(errs...)
}

// Unbind releases every grab and callback on the root window.
func (h *Handler) Unbind() {
	keybind.Detach(h.xu, h.root)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// bound returns the names of the commands that have a key sequence.
func bound(b config.Bindings) []string {
	var out []string
	for _, name := range config.BindingNames {
		if seq, _ := b.Sequence(name); seq != "" {
			out = append(out, name)
		}
	}
	return out
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the given lock modifiers,
// including the empty one. Zero and duplicate masks are skipped.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
