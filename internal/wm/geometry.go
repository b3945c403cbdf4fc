package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

// Decorations says which parts of the frame are drawn.
type Decorations struct {
	Titlebar bool
	Handle   bool
	Border   bool
	Iconify  bool
	Maximize bool
	Close    bool
	Menu     bool
}

// Functions says which user operations are allowed on a window.
type Functions struct {
	Resize   bool
	Move     bool
	Iconify  bool
	Maximize bool
	Close    bool
}

func fullDecorations() Decorations {
	return Decorations{Titlebar: true, Handle: true, Border: true, Iconify: true, Maximize: true, Menu: true}
}

func fullFunctions() Functions {
	return Functions{Resize: true, Move: true, Iconify: true, Maximize: true}
}

// Insets returns the space the frame adds around the client for the
// given decorations.
func (s Style) Insets(d Decorations) geom.Insets {
	b := 0
	if d.Border {
		b = s.BorderWidth + s.FrameWidth
	}
	in := geom.Insets{Left: b, Right: b, Top: b, Bottom: b}
	if d.Titlebar {
		in.Top += s.TitleHeight()
	}
	if d.Handle {
		in.Bottom += s.HandleWidth + s.BorderWidth
	}
	return in
}

// Upsize converts a client size to the frame size that holds it.
func (s Style) Upsize(client geom.Size, d Decorations) geom.Size {
	return s.Insets(d).Grow(client)
}

// Downsize converts a frame size to the client size it holds.
func (s Style) Downsize(frame geom.Size, d Decorations) geom.Size {
	return s.Insets(d).Shrink(frame)
}

// gravityOffset is the displacement from the client's requested origin to
// the frame origin. It depends only on sizes, so applying and removing it
// round-trips exactly.
func gravityOffset(g platform.Gravity, client geom.Size, clientBorder int, frame geom.Size, in geom.Insets) geom.Point {
	cw := client.Width + 2*clientBorder
	ch := client.Height + 2*clientBorder

	var d geom.Point
	switch g {
	case platform.GravityNorthWest, platform.GravityWest, platform.GravitySouthWest:
		d.X = 0
	case platform.GravityNorth, platform.GravityCenter, platform.GravitySouth:
		d.X = (cw - frame.Width) / 2
	case platform.GravityNorthEast, platform.GravityEast, platform.GravitySouthEast:
		d.X = cw - frame.Width
	default:
		d.X = clientBorder - in.Left
	}
	switch g {
	case platform.GravityNorthWest, platform.GravityNorth, platform.GravityNorthEast:
		d.Y = 0
	case platform.GravityWest, platform.GravityCenter, platform.GravityEast:
		d.Y = (ch - frame.Height) / 2
	case platform.GravitySouthWest, platform.GravitySouth, platform.GravitySouthEast:
		d.Y = ch - frame.Height
	default:
		d.Y = clientBorder - in.Top
	}
	return d
}

// applyGravity maps a client's requested position to a frame origin.
func applyGravity(pos geom.Point, g platform.Gravity, client geom.Size, clientBorder int, frame geom.Size, in geom.Insets) geom.Point {
	return pos.Add(gravityOffset(g, client, clientBorder, frame, in))
}

// restoreGravity is the inverse of applyGravity.
func restoreGravity(frameOrigin geom.Point, g platform.Gravity, client geom.Size, clientBorder int, frame geom.Size, in geom.Insets) geom.Point {
	return frameOrigin.Sub(gravityOffset(g, client, clientBorder, frame, in))
}

// constrainSize clamps a client size to the min/max, aspect and increment
// hints. Increments round down from the base size.
func constrainSize(s geom.Size, h platform.NormalHints) geom.Size {
	w, ht := s.Width, s.Height

	if h.MinAspectNum > 0 && h.MinAspectDen > 0 && ht > 0 && w*h.MinAspectDen < ht*h.MinAspectNum {
		ht = w * h.MinAspectDen / h.MinAspectNum
	}
	if h.MaxAspectNum > 0 && h.MaxAspectDen > 0 && ht > 0 && w*h.MaxAspectDen > ht*h.MaxAspectNum {
		w = ht * h.MaxAspectNum / h.MaxAspectDen
	}

	w = constrainAxis(w, h.MinWidth, h.MaxWidth, h.BaseWidth, h.WidthInc)
	ht = constrainAxis(ht, h.MinHeight, h.MaxHeight, h.BaseHeight, h.HeightInc)
	return geom.NewSize(w, ht)
}

func constrainAxis(v, lo, hi, base, inc int) int {
	if hi > 0 && v > hi {
		v = hi
	}
	if inc > 1 {
		if base <= 0 {
			base = lo
		}
		if v > base {
			v = base + (v-base)/inc*inc
		}
	}
	if v < lo {
		v = lo
	}
	return v
}
