package geom

import "fmt"

// Point is a position in root window coordinates.
type Point struct {
	X int
	Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair. Widths and heights are never negative.
type Size struct {
	Width  int
	Height int
}

// NewSize returns a size with negative components clamped to zero.
func NewSize(w, h int) Size {
	return Size{Width: clamp(w), Height: clamp(h)}
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Rect is an origin plus a size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewRect returns a rect with negative dimensions clamped to zero.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: clamp(w), Height: clamp(h)}
}

// RectFrom builds a rect from an origin and a size.
func RectFrom(p Point, s Size) Rect {
	return NewRect(p.X, p.Y, s.Width, s.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Right is the first column past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom is the first row past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

func (r Rect) Area() int { return r.Width * r.Height }

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the middle point, rounded towards the origin.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects uses half-open intervals: rects that only share an edge
// do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersection returns the overlapping area, or an empty rect at the
// origin of r when there is none.
func (r Rect) Intersection(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{X: r.X, Y: r.Y}
	}
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	return NewRect(x1, y1, x2-x1, y2-y1)
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Inflate grows r by dx on the left and right and dy on top and bottom.
func (r Rect) Inflate(dx, dy int) Rect {
	return NewRect(r.X-dx, r.Y-dy, r.Width+2*dx, r.Height+2*dy)
}

// Deflate is the inverse of Inflate. The result is clamped to zero size.
func (r Rect) Deflate(dx, dy int) Rect {
	return NewRect(r.X+dx, r.Y+dy, r.Width-2*dx, r.Height-2*dy)
}

func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// MoveTo returns r with its origin at p.
func (r Rect) MoveTo(p Point) Rect {
	return Rect{X: p.X, Y: p.Y, Width: r.Width, Height: r.Height}
}

// Resize returns r with a new size, keeping the origin.
func (r Rect) Resize(s Size) Rect {
	return NewRect(r.X, r.Y, s.Width, s.Height)
}

// Strut is the space reserved along each screen edge.
type Strut struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Merge keeps the larger reservation on every edge.
func (s Strut) Merge(o Strut) Strut {
	return Strut{
		Left:   max(s.Left, o.Left),
		Right:  max(s.Right, o.Right),
		Top:    max(s.Top, o.Top),
		Bottom: max(s.Bottom, o.Bottom),
	}
}

// Apply removes the strut from r.
func (s Strut) Apply(r Rect) Rect {
	return NewRect(r.X+s.Left, r.Y+s.Top, r.Width-s.Left-s.Right, r.Height-s.Top-s.Bottom)
}

// Insets describe the decoration around a client inside its frame.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Horizontal is the total width consumed by the insets.
func (i Insets) Horizontal() int { return i.Left + i.Right }

// Vertical is the total height consumed by the insets.
func (i Insets) Vertical() int { return i.Top + i.Bottom }

// Grow adds the insets to a size.
func (i Insets) Grow(s Size) Size {
	return NewSize(s.Width+i.Horizontal(), s.Height+i.Vertical())
}

// Shrink removes the insets from a size.
func (i Insets) Shrink(s Size) Size {
	return NewSize(s.Width-i.Horizontal(), s.Height-i.Vertical())
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
