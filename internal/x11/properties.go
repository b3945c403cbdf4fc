package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Private properties. The hints record is written by clients, the
// attributes record by the manager so a restart can restore state.
const (
	PrivateHintsProp = "_FRAMEWM_HINTS"
	AttributesProp   = "_FRAMEWM_ATTRIBUTES"
	ChangeStateMsg   = "WM_CHANGE_STATE"
)

// PrivateHintsLen is the number of 32-bit fields in _FRAMEWM_HINTS:
// flags, attrib, workspace, stack, decoration.
const PrivateHintsLen = 5

// ReadPrivateHints returns the raw _FRAMEWM_HINTS fields of win.
func (c *Connection) ReadPrivateHints(win xproto.Window) ([]uint, error) {
	vals, err := xprop.PropValNums(xprop.GetProperty(c.XUtil, win, PrivateHintsProp))
	if err != nil {
		return nil, err
	}
	if len(vals) < PrivateHintsLen {
		return nil, fmt.Errorf("%s: want %d fields, got %d", PrivateHintsProp, PrivateHintsLen, len(vals))
	}
	return vals[:PrivateHintsLen], nil
}

// ReadAttributes returns the raw persisted attribute record of win.
// Length checking is left to the decoder.
func (c *Connection) ReadAttributes(win xproto.Window) ([]uint, error) {
	return xprop.PropValNums(xprop.GetProperty(c.XUtil, win, AttributesProp))
}

// WriteAttributes replaces the persisted attribute record of win.
func (c *Connection) WriteAttributes(win xproto.Window, vals []uint) error {
	return xprop.ChangeProp32(c.XUtil, win, AttributesProp, AttributesProp, vals...)
}

// Name prefers the UTF-8 _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) Name(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmNameGet(c.XUtil, win)
	return name
}

// IconName prefers _NET_WM_ICON_NAME and falls back to WM_ICON_NAME.
func (c *Connection) IconName(win xproto.Window) string {
	if name, err := ewmh.WmIconNameGet(c.XUtil, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmIconNameGet(c.XUtil, win)
	return name
}

// AtomName resolves an atom for event translation. Lookups are cached
// by xgbutil.
func (c *Connection) AtomName(atom xproto.Atom) string {
	name, err := xprop.AtomName(c.XUtil, atom)
	if err != nil {
		return ""
	}
	return name
}
