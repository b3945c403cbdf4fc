package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	xheads "github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// ScreenGeometry returns the size of the root window.
func (c *Connection) ScreenGeometry() Geometry {
	s := c.XUtil.Screen()
	return Geometry{Width: int(s.WidthInPixels), Height: int(s.HeightInPixels)}
}

// GetMonitors retrieves all active monitors using XRandR, falling back to
// Xinerama heads and finally to the whole root window.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	monitors, err := c.randrMonitors()
	if err == nil && len(monitors) > 0 {
		return monitors, nil
	}
	monitors, xerr := c.xineramaMonitors()
	if xerr == nil && len(monitors) > 0 {
		return monitors, nil
	}
	g := c.ScreenGeometry()
	return []Monitor{{Name: "root", Width: g.Width, Height: g.Height}}, nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}
	return monitors, nil
}

func (c *Connection) xineramaMonitors() ([]Monitor, error) {
	if err := xinerama.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("xinerama init failed: %w", err)
	}
	heads, err := xheads.PhysicalHeads(c.XUtil)
	if err != nil {
		return nil, err
	}
	monitors := make([]Monitor, 0, len(heads))
	for i, h := range heads {
		monitors = append(monitors, monitorFromRect(i, h))
	}
	return monitors, nil
}

func monitorFromRect(id int, r xrect.Rect) Monitor {
	return Monitor{
		ID:     id,
		Name:   fmt.Sprintf("Head%d", id),
		X:      r.X(),
		Y:      r.Y(),
		Width:  r.Width(),
		Height: r.Height(),
	}
}

// Struts is the space docks reserve along each screen edge.
type Struts struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// DockWindows returns the unmanaged top-level windows of dock type, with
// their geometry.
func (c *Connection) DockWindows() map[xproto.Window]Geometry {
	children, err := c.TopLevelWindows()
	if err != nil {
		return nil
	}
	docks := make(map[xproto.Window]Geometry)
	for _, win := range children {
		if !c.IsDock(win) {
			continue
		}
		attrs, err := c.Attributes(win)
		if err != nil || !attrs.Viewable {
			continue
		}
		docks[win] = attrs.Geometry
	}
	return docks
}

// DockStruts accumulates the struts of every dock window, clipped to the
// screen.
func (c *Connection) DockStruts() Struts {
	screen := c.ScreenGeometry()
	whole := Monitor{Width: screen.Width, Height: screen.Height}

	var struts Struts
	for win := range c.DockWindows() {
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
			updateStrutsForMonitor(&whole, screen.Width, screen.Height, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, win); err == nil {
			updateStrutsForMonitor(&whole, screen.Width, screen.Height, fullStrut(s, screen), &struts)
		}
	}
	return struts
}

func fullStrut(s *ewmh.WmStrut, screen Geometry) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(screen.Height - 1),
		RightStartY:  0,
		RightEndY:    uint(screen.Height - 1),
		TopStartX:    0,
		TopEndX:      uint(screen.Width - 1),
		BottomStartX: 0,
		BottomEndX:   uint(screen.Width - 1),
	}
}

func updateStrutsForMonitor(monitor *Monitor, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *Struts) {
	monX1 := monitor.X
	monY1 := monitor.Y
	monX2 := monitor.X + monitor.Width
	monY2 := monitor.Y + monitor.Height

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		x1 := int(sp.TopStartX)
		x2 := int(sp.TopEndX) + 1
		y1 := 0
		y2 := int(sp.Top)
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.Top = max(acc.Top, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		x1 := int(sp.BottomStartX)
		x2 := int(sp.BottomEndX) + 1
		y2 := rootHeight
		y1 := rootHeight - int(sp.Bottom)
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.Bottom = max(acc.Bottom, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).h)
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		x1 := 0
		x2 := int(sp.Left)
		y1 := int(sp.LeftStartY)
		y2 := int(sp.LeftEndY) + 1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.Left = max(acc.Left, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		x2 := rootWidth
		x1 := rootWidth - int(sp.Right)
		y1 := int(sp.RightStartY)
		y2 := int(sp.RightEndY) + 1
		if intersects(monX1, monY1, monX2, monY2, x1, y1, x2, y2) {
			acc.Right = max(acc.Right, intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2).w)
		}
	}
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func intersects(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) bool {
	isect := intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2)
	return isect.w > 0 && isect.h > 0
}
