package wm

import (
	"github.com/1broseidon/framewm/internal/config"
	"github.com/1broseidon/framewm/internal/geom"
)

const (
	placementStep = 8
	cascadeInset  = 32
)

// placeWindow picks a frame origin for w using the configured policy,
// falling back to the cascade, and re-centers it on any axis where it
// would cross the far edge of the available area.
func (ws *Workspace) placeWindow(w *Window) {
	scr := ws.screen
	area := scr.AvailableArea()
	size := w.FrameRect().Size()
	pl := scr.opts.Placement

	var (
		pos geom.Point
		ok  bool
	)
	switch pl.Policy {
	case config.PlacementRowSmart:
		pos, ok = ws.smartPlacement(w, size, area, true, pl.AvoidDocks)
	case config.PlacementColumnSmart:
		pos, ok = ws.smartPlacement(w, size, area, false, true)
	case config.PlacementBestFit:
		pos, ok = ws.bestFitPlacement(w, size, area)
	}
	if !ok {
		pos = scr.cascadePlacement(area)
	}

	if pos.X+size.Width > area.Right() {
		pos.X = area.X + (area.Width-size.Width)/2
	}
	if pos.Y+size.Height > area.Bottom() {
		pos.Y = area.Y + (area.Height-size.Height)/2
	}
	w.moveFrame(pos)
}

// occupied returns the inflated frames a new window must avoid.
func (ws *Workspace) occupied(skip *Window, avoidDocks bool) []geom.Rect {
	m := ws.screen.opts.Placement.Margin
	var out []geom.Rect
	for _, o := range ws.windows {
		if o == skip || o.iconic {
			continue
		}
		out = append(out, o.FrameRect().Inflate(m, m))
	}
	if avoidDocks {
		for _, r := range ws.screen.backend.Regions() {
			out = append(out, r.Inflate(m, m))
		}
	}
	return out
}

type scan struct {
	from, to, step int
}

func newScan(lo, hi int, reverse bool) scan {
	if reverse {
		return scan{from: hi, to: lo, step: -placementStep}
	}
	return scan{from: lo, to: hi, step: placementStep}
}

func (s scan) done(v int) bool {
	if s.step > 0 {
		return v > s.to
	}
	return v < s.to
}

// smartPlacement scans for the first free slot. rowMajor scans rows in
// the outer loop; otherwise columns.
func (ws *Workspace) smartPlacement(w *Window, size geom.Size, area geom.Rect, rowMajor, avoidDocks bool) (geom.Point, bool) {
	pl := ws.screen.opts.Placement
	m := pl.Margin
	used := ws.occupied(w, avoidDocks)

	xs := newScan(area.X, area.Right()-size.Width, pl.RowDirection == config.RightToLeft)
	ys := newScan(area.Y, area.Bottom()-size.Height, pl.ColumnDirection == config.BottomToTop)

	fits := func(x, y int) bool {
		cand := geom.RectFrom(geom.Point{X: x, Y: y}, size).Inflate(m, m)
		for _, u := range used {
			if cand.Intersects(u) {
				return false
			}
		}
		return true
	}

	outer, inner := ys, xs
	if !rowMajor {
		outer, inner = xs, ys
	}
	for a := outer.from; !outer.done(a); a += outer.step {
		for b := inner.from; !inner.done(b); b += inner.step {
			x, y := b, a
			if !rowMajor {
				x, y = a, b
			}
			if fits(x, y) {
				return geom.Point{X: x, Y: y}, true
			}
		}
	}
	return geom.Point{}, false
}

// bestFitPlacement splits the free area around every window and takes
// the last free rectangle large enough for the new frame.
func (ws *Workspace) bestFitPlacement(w *Window, size geom.Size, area geom.Rect) (geom.Point, bool) {
	m := ws.screen.opts.Placement.Margin
	free := []geom.Rect{area}
	for _, u := range ws.occupied(w, false) {
		free = geom.SplitAll(free, u)
	}

	var (
		pos   geom.Point
		found bool
	)
	for _, r := range free {
		if r.Width >= size.Width+2*m && r.Height >= size.Height+2*m {
			pos = geom.Point{X: r.X + m, Y: r.Y + m}
			found = true
		}
	}
	return pos, found
}

// cascadePlacement returns the cascade cursor and advances it by one
// titlebar height, wrapping once it passes the middle of the area.
func (s *Screen) cascadePlacement(area geom.Rect) geom.Point {
	if s.cascade.X > area.Width/2 || s.cascade.Y > area.Height/2 {
		s.cascade = geom.Point{X: cascadeInset, Y: cascadeInset}
	}
	pos := area.Origin().Add(s.cascade)
	step := s.style.TitleHeight()
	s.cascade = s.cascade.Add(geom.Point{X: step, Y: step})
	return pos
}
