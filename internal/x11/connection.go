package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrOtherWM is returned by BecomeWM when another client already selected
// SubstructureRedirect on the root window.
var ErrOtherWM = errors.New("another window manager is already running")

// RootEventMask is selected on the root window while managing it.
const RootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskColorMapChange |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	grabs int
	shape bool
	check *xwindow.Window
}

// NewConnection connects to display, or $DISPLAY when display is empty,
// and initializes the keyboard, mouse and shape helpers.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if err := shape.Init(xu.Conn()); err == nil {
		c.shape = true
	}
	return c, nil
}

// Screens reports how many roots the display has.
func (c *Connection) Screens() int {
	return len(xproto.Setup(c.XUtil.Conn()).Roots)
}

// BecomeWM selects the root event mask. Only one client may hold
// SubstructureRedirect, so a BadAccess reply means another manager runs.
func (c *Connection) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{RootEventMask}).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherWM
		}
		return fmt.Errorf("select root input: %w", err)
	}
	return nil
}

// GrabServer grabs the server. Calls nest; only the outermost pair
// reaches the server.
func (c *Connection) GrabServer() {
	if c.grabs == 0 {
		xproto.GrabServer(c.XUtil.Conn())
	}
	c.grabs++
}

// UngrabServer releases one level of GrabServer.
func (c *Connection) UngrabServer() {
	if c.grabs == 0 {
		return
	}
	c.grabs--
	if c.grabs == 0 {
		xproto.UngrabServer(c.XUtil.Conn())
	}
}

// GrabDepth is the current server grab nesting level.
func (c *Connection) GrabDepth() int { return c.grabs }

// Shape reports whether the SHAPE extension is available.
func (c *Connection) Shape() bool { return c.shape }

// Sync waits until the server has processed every request sent so far.
func (c *Connection) Sync() {
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.check != nil {
		c.check.Destroy()
	}
	c.XUtil.Conn().Close()
}
