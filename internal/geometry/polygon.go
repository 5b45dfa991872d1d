package geometry

// Polygon is an ordered list of vertices, implicitly closed between the last
// and the first vertex.
type Polygon []Point

// Bounds returns the bounding box of the polygon's vertices.
// An empty polygon has a zero Rect.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	minX, minY := p[0].X, p[0].Y
	maxX, maxY := minX, minY
	for _, v := range p[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether pt lies inside the polygon. See PointInPolygon.
func (p Polygon) Contains(pt Point) bool {
	return PointInPolygon(pt, p)
}

// PointInPolygon tests pt against the polygon using the even-odd ray-casting
// rule: a horizontal ray from pt is intersected with every edge and pt is
// inside when the crossing count is odd.
//
// Fewer than three vertices never enclose area, so the result is false.
// Points exactly on an edge may be reported either way; callers must not rely
// on boundary inclusion.
func PointInPolygon(pt Point, vertices []Point) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}
