package geom

// Split returns the parts of free not covered by used, as up to four
// maximal slivers in the order left, above, right, below. The slivers
// overlap each other at the corners. When free and used do not
// intersect, free is returned unchanged.
func Split(free, used Rect) []Rect {
	if !free.Intersects(used) {
		return []Rect{free}
	}

	var out []Rect
	if used.X > free.X {
		out = append(out, NewRect(free.X, free.Y, used.X-free.X, free.Height))
	}
	if used.Y > free.Y {
		out = append(out, NewRect(free.X, free.Y, free.Width, used.Y-free.Y))
	}
	if used.Right() < free.Right() {
		out = append(out, NewRect(used.Right(), free.Y, free.Right()-used.Right(), free.Height))
	}
	if used.Bottom() < free.Bottom() {
		out = append(out, NewRect(free.X, used.Bottom(), free.Width, free.Bottom()-used.Bottom()))
	}
	return out
}

// SplitAll applies Split to every rect in free.
func SplitAll(free []Rect, used Rect) []Rect {
	out := make([]Rect, 0, len(free))
	for _, r := range free {
		out = append(out, Split(r, used)...)
	}
	return out
}
