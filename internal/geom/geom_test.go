package geom

import "testing"

func TestIntersectsHalfOpen(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", NewRect(5, 5, 10, 10), true},
		{"touching right edge", NewRect(10, 0, 10, 10), false},
		{"touching bottom edge", NewRect(0, 10, 10, 10), false},
		{"inside", NewRect(2, 2, 2, 2), true},
		{"empty", NewRect(2, 2, 0, 5), false},
		{"disjoint", NewRect(50, 50, 1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Fatalf("Intersects(%v) = %v, want %v", tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Fatalf("symmetric Intersects(%v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestIntersection(t *testing.T) {
	got := NewRect(0, 0, 10, 10).Intersection(NewRect(5, 4, 10, 10))
	want := NewRect(5, 4, 5, 6)
	if got != want {
		t.Fatalf("Intersection = %v, want %v", got, want)
	}
}

func TestInflateDeflate(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if got := r.Inflate(2, 3).Deflate(2, 3); got != r {
		t.Fatalf("Deflate(Inflate(r)) = %v, want %v", got, r)
	}
	if got := NewRect(0, 0, 4, 4).Deflate(5, 5); got.Width != 0 || got.Height != 0 {
		t.Fatalf("Deflate past zero should clamp, got %v", got)
	}
}

func TestNewRectClampsNegative(t *testing.T) {
	r := NewRect(1, 1, -5, -1)
	if r.Width != 0 || r.Height != 0 {
		t.Fatalf("expected clamped size, got %v", r)
	}
}

func TestContains(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	if !r.Contains(Point{X: 0, Y: 0}) {
		t.Fatalf("origin should be contained")
	}
	if r.Contains(Point{X: 10, Y: 5}) {
		t.Fatalf("right edge should be excluded")
	}
	if !r.ContainsRect(NewRect(0, 0, 10, 10)) {
		t.Fatalf("rect should contain itself")
	}
}

func TestStrutApply(t *testing.T) {
	screen := NewRect(0, 0, 1024, 768)
	s := Strut{Top: 24}.Merge(Strut{Bottom: 30, Top: 10})
	got := s.Apply(screen)
	want := NewRect(0, 24, 1024, 768-24-30)
	if got != want {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
}

func TestInsetsRoundTrip(t *testing.T) {
	in := Insets{Left: 1, Right: 1, Top: 21, Bottom: 8}
	s := Size{Width: 300, Height: 200}
	if got := in.Shrink(in.Grow(s)); got != s {
		t.Fatalf("Shrink(Grow(s)) = %v, want %v", got, s)
	}
}

func TestSplit(t *testing.T) {
	free := NewRect(0, 0, 100, 100)
	used := NewRect(40, 40, 20, 20)

	parts := Split(free, used)
	if len(parts) != 4 {
		t.Fatalf("expected 4 slivers, got %d: %v", len(parts), parts)
	}
	want := []Rect{
		NewRect(0, 0, 40, 100),
		NewRect(0, 0, 100, 40),
		NewRect(60, 0, 40, 100),
		NewRect(0, 60, 100, 40),
	}
	for i, p := range parts {
		if p != want[i] {
			t.Fatalf("sliver %d = %v, want %v", i, p, want[i])
		}
		if p.Intersects(used) {
			t.Fatalf("sliver %v intersects used %v", p, used)
		}
	}
}

func TestSplitCorner(t *testing.T) {
	parts := Split(NewRect(0, 0, 100, 100), NewRect(0, 0, 30, 30))
	if len(parts) != 2 {
		t.Fatalf("expected right and below slivers, got %v", parts)
	}
}

func TestSplitDisjoint(t *testing.T) {
	free := NewRect(0, 0, 10, 10)
	parts := Split(free, NewRect(20, 20, 5, 5))
	if len(parts) != 1 || parts[0] != free {
		t.Fatalf("disjoint split should return free unchanged, got %v", parts)
	}
}
