package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const pointerEventMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// GrabButton grabs button with mods on win once for every modifier
// combination in xevent.IgnoreMods, so lock keys do not defeat the
// binding. A sync grab freezes the pointer until ReplayPointer.
func (c *Connection) GrabButton(win xproto.Window, button int, mods uint16, sync bool) error {
	mode := byte(xproto.GrabModeAsync)
	if sync {
		mode = xproto.GrabModeSync
	}
	for _, m := range xevent.IgnoreMods {
		err := xproto.GrabButtonChecked(c.XUtil.Conn(), false, win,
			pointerEventMask, mode, xproto.GrabModeAsync,
			0, 0, byte(button), mods|m).Check()
		if err != nil {
			return fmt.Errorf("grab button %d: %w", button, err)
		}
	}
	return nil
}

// UngrabButton undoes GrabButton.
func (c *Connection) UngrabButton(win xproto.Window, button int, mods uint16) {
	mousebind.Ungrab(c.XUtil, win, mods, xproto.Button(button))
}

// ReplayPointer releases a sync grab and lets the client see the press.
func (c *Connection) ReplayPointer() {
	xevent.ReplayPointer(c.XUtil)
}

// GrabPointer routes all pointer events to win, confined to the root.
func (c *Connection) GrabPointer(win xproto.Window) error {
	ok, err := mousebind.GrabPointer(c.XUtil, win, c.Root, 0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pointer already grabbed")
	}
	return nil
}

func (c *Connection) UngrabPointer() {
	mousebind.UngrabPointer(c.XUtil)
}
