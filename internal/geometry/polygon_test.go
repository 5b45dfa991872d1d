package geometry

import "testing"

func TestPointInPolygon(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	triangle := []Point{{0, 0}, {20, 0}, {0, 20}}
	// U shape: the notch between x=4..6 above y=4 is outside.
	ushape := []Point{{0, 0}, {4, 0}, {4, 6}, {6, 6}, {6, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name     string
		vertices []Point
		pt       Point
		want     bool
	}{
		{"square center", square, Pt(5, 5), true},
		{"square outside right", square, Pt(15, 5), false},
		{"square outside above", square, Pt(5, -1), false},
		{"triangle inside", triangle, Pt(5, 5), true},
		{"triangle beyond hypotenuse", triangle, Pt(15, 15), false},
		{"concave notch", ushape, Pt(5, 2), false},
		{"concave arm", ushape, Pt(2, 2), true},
		{"concave base", ushape, Pt(5, 8), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.pt, tt.vertices); got != tt.want {
				t.Errorf("PointInPolygon(%v): got %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestPointInPolygon_Degenerate(t *testing.T) {
	polys := [][]Point{
		nil,
		{},
		{{5, 5}},
		{{0, 0}, {10, 10}},
	}
	points := []Point{{0, 0}, {5, 5}, {10, 10}, {-3, 7}}

	for _, poly := range polys {
		for _, p := range points {
			if PointInPolygon(p, poly) {
				t.Errorf("PointInPolygon(%v, %v): got true for %d-vertex polygon", p, poly, len(poly))
			}
		}
	}
}

func TestPolygon_Bounds(t *testing.T) {
	p := Polygon{{5, 7}, {-2, 3}, {10, 1}}
	want := Rect{-2, 1, 12, 6}
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds: got %+v, want %+v", got, want)
	}
	if got := (Polygon{}).Bounds(); got != (Rect{}) {
		t.Errorf("empty Bounds: got %+v, want zero", got)
	}
}

func TestPolygon_Contains(t *testing.T) {
	p := Polygon{{0, 0}, {10, 0}, {5, 10}}
	if !p.Contains(Pt(5, 3)) {
		t.Error("expected (5,3) inside triangle")
	}
	if p.Contains(Pt(0, 10)) {
		t.Error("expected (0,10) outside triangle")
	}
}
