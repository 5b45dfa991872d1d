// Package geometry provides the 2D primitives used by marquee selection:
// points, axis-aligned rectangles and polygons in canvas space.
//
// Canvas coordinates follow the image convention: (0,0) is the top-left
// corner, X increases rightward and Y increases downward.
package geometry

import "math"

// Point is an (x, y) coordinate pair in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned box given by its origin and extent.
//
// Width and Height may be negative while a marquee is being dragged up or
// left of its origin. Call Normalize before using such a rectangle in
// intersection tests.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge (Left + Width).
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge (Top + Height).
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Normalize returns an equivalent rectangle with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.Left += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Top += r.Height
		r.Height = -r.Height
	}
	return r
}

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Corners returns the four corners of the normalized rectangle in the order
// top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Point {
	n := r.Normalize()
	return [4]Point{
		{n.Left, n.Top},
		{n.Right(), n.Top},
		{n.Right(), n.Bottom()},
		{n.Left, n.Bottom()},
	}
}

// Union returns the smallest rectangle enclosing both r and o.
// Both rectangles are normalized first.
func (r Rect) Union(o Rect) Rect {
	a, b := r.Normalize(), o.Normalize()
	left := math.Min(a.Left, b.Left)
	top := math.Min(a.Top, b.Top)
	right := math.Max(a.Right(), b.Right())
	bottom := math.Max(a.Bottom(), b.Bottom())
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// RectFromPoints builds the normalized rectangle spanned by two points.
func RectFromPoints(a, b Point) Rect {
	return Rect{Left: a.X, Top: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}.Normalize()
}

// BoxesIntersect reports whether two axis-aligned boxes overlap.
//
// Touching edges count as intersecting. Both boxes are normalized before the
// test, so the result is symmetric in its arguments.
func BoxesIntersect(a, b Rect) bool {
	a, b = a.Normalize(), b.Normalize()
	return !(a.Left > b.Right() ||
		a.Right() < b.Left ||
		a.Top > b.Bottom() ||
		a.Bottom() < b.Top)
}
