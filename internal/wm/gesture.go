package wm

import (
	"github.com/1broseidon/framewm/internal/geom"
	"github.com/1broseidon/framewm/internal/platform"
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResizeRight
	gestureResizeLeft
)

// gesture tracks an interactive move or resize. Only the window holding
// the router's pointer mask has one in progress.
type gesture struct {
	kind    gestureKind
	anchor  geom.Point
	start   geom.Rect
	pending geom.Rect
}

func (w *Window) beginGesture(kind gestureKind, root geom.Point) bool {
	r := w.screen.router
	if !r.Mask(w) {
		return false
	}
	if err := w.backend().GrabPointer(w.frame); err != nil {
		w.log.Debug("grab pointer", "err", err)
		r.Unmask(w)
		return false
	}
	w.gesture = gesture{kind: kind, anchor: root, start: w.frameRect}
	return true
}

func (w *Window) startMove(ev platform.ButtonEvent) {
	if !w.funcs.Move {
		return
	}
	if w.beginGesture(gestureMove, ev.Root) {
		w.moving = true
	}
}

func (w *Window) startResize(ev platform.ButtonEvent, left bool) {
	if !w.funcs.Resize || w.shaded {
		return
	}
	kind := gestureResizeRight
	if left {
		kind = gestureResizeLeft
	}
	if !w.beginGesture(kind, ev.Root) {
		return
	}
	w.resizing = true
	if w.maximized != MaximizeNone {
		// The gesture supplies the final geometry.
		w.Maximize(MaximizeNone)
	}
}

func (w *Window) gestureMotion(root geom.Point) {
	g := &w.gesture
	dx := root.X - g.anchor.X
	dy := root.Y - g.anchor.Y

	var r geom.Rect
	switch g.kind {
	case gestureMove:
		r = w.snap(g.start.Translate(dx, dy))
		if !w.screen.opts.OpaqueMove {
			g.pending = r
			return
		}
	case gestureResizeRight:
		f := w.constrainFrame(geom.NewSize(g.start.Width+dx, g.start.Height+dy))
		r = geom.RectFrom(g.start.Origin(), f)
	case gestureResizeLeft:
		f := w.constrainFrame(geom.NewSize(g.start.Width-dx, g.start.Height+dy))
		r = geom.NewRect(g.start.Right()-f.Width, g.start.Y, f.Width, f.Height)
	default:
		return
	}
	w.Configure(r)
}

// constrainFrame applies the client's size hints to a frame size.
func (w *Window) constrainFrame(f geom.Size) geom.Size {
	in := w.insets()
	return in.Grow(constrainSize(in.Shrink(f), w.normal))
}

// snap pulls a frame within the snap threshold of an edge of the
// available area onto that edge.
func (w *Window) snap(r geom.Rect) geom.Rect {
	t := w.screen.opts.EdgeSnap
	if t <= 0 {
		return r
	}
	area := w.screen.AvailableArea()
	height := w.FrameRect().Height

	switch {
	case abs(r.X-area.X) < t:
		r.X = area.X
	case abs(r.X+r.Width-area.Right()) < t:
		r.X = area.Right() - r.Width
	}
	switch {
	case abs(r.Y-area.Y) < t:
		r.Y = area.Y
	case abs(r.Y+height-area.Bottom()) < t:
		r.Y = area.Bottom() - height
	}
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// endGesture finishes the gesture on button release and tells the client
// where it ended up.
func (w *Window) endGesture() {
	g := w.gesture
	w.gesture = gesture{}
	w.screen.router.Unmask(w)
	w.backend().UngrabPointer()

	wasMoving := w.moving
	w.moving = false
	w.resizing = false

	if wasMoving && !g.pending.Empty() {
		if w.Configure(g.pending).OK() {
			w.storeAttributes()
			return
		}
	}
	if wasMoving {
		w.sendConfigureNotify()
		w.screen.notify(func(o Observer) { o.WindowConfigured(w) })
	}
	w.storeAttributes()
}
