package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// supported is the EWMH subset the manager publishes.
var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_DESKTOP",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
}

// SetSupportingWM creates the _NET_SUPPORTING_WM_CHECK window and
// announces name and the supported hints on the root.
func (c *Connection) SetSupportingWM(name string) error {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("generate check window: %w", err)
	}
	if err := win.CreateChecked(c.Root, -100, -100, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	c.check = win

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, win.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, win.Id, win.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, win.Id, name); err != nil {
		return err
	}
	return ewmh.SupportedSet(c.XUtil, supported)
}

// PublishDesktops mirrors the workspace list and the current workspace
// on the root window for pagers.
func (c *Connection) PublishDesktops(names []string, current int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(len(names))); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	if err := ewmh.DesktopNamesSet(c.XUtil, names); err != nil {
		return fmt.Errorf("failed to set desktop names: %w", err)
	}
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(current)); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// PublishClients sets _NET_CLIENT_LIST and _NET_ACTIVE_WINDOW.
// active may be 0.
func (c *Connection) PublishClients(clients []xproto.Window, active xproto.Window) error {
	if err := ewmh.ClientListSet(c.XUtil, clients); err != nil {
		return fmt.Errorf("failed to set client list: %w", err)
	}
	return ewmh.ActiveWindowSet(c.XUtil, active)
}

// SetWindowDesktop records the workspace of a client in _NET_WM_DESKTOP.
// Negative desktops mean the window is on all of them.
func (c *Connection) SetWindowDesktop(win xproto.Window, desktop int) error {
	d := uint(0xFFFFFFFF)
	if desktop >= 0 {
		d = uint(desktop)
	}
	return ewmh.WmDesktopSet(c.XUtil, win, d)
}
