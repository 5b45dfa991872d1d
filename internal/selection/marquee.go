package selection

import (
	"fmt"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
)

// Mode selects what a drag gesture draws and what happens when it ends.
type Mode int

const (
	ModeRectangle Mode = iota // axis-aligned marquee, selects by box intersection
	ModeLasso                 // freeform polygon, selects by corner containment
	ModeCrop                  // axis-aligned marquee, crops the background
)

func (m Mode) String() string {
	switch m {
	case ModeRectangle:
		return "rectangle"
	case ModeLasso:
		return "lasso"
	case ModeCrop:
		return "crop"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name as produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "rectangle", "rect":
		return ModeRectangle, nil
	case "lasso":
		return ModeLasso, nil
	case "crop":
		return ModeCrop, nil
	}
	return 0, fmt.Errorf("unknown selection mode: %s", s)
}

// Marquee is the shape drawn by one drag gesture. Rectangle and crop
// gestures use Rect; lasso gestures use Vertices.
type Marquee struct {
	Mode Mode `json:"mode"`

	// Rect is anchored at the gesture start. Width and Height may be
	// negative when dragging up or left; use Bounds for the normalized box.
	Rect geometry.Rect `json:"rect"`

	Vertices geometry.Polygon `json:"vertices,omitempty"`
}

// NewMarquee starts a marquee at p: a zero-size rectangle, or a lasso with a
// single vertex.
func NewMarquee(mode Mode, p geometry.Point) Marquee {
	if mode == ModeLasso {
		return Marquee{Mode: mode, Vertices: geometry.Polygon{p}}
	}
	return Marquee{Mode: mode, Rect: geometry.Rect{Left: p.X, Top: p.Y}}
}

// Extend grows the marquee to pointer position p. Rectangles stretch from
// their origin; lassos append p unless it repeats the last vertex.
func (m *Marquee) Extend(p geometry.Point) {
	if m.Mode == ModeLasso {
		if n := len(m.Vertices); n > 0 && m.Vertices[n-1] == p {
			return
		}
		m.Vertices = append(m.Vertices, p)
		return
	}
	m.Rect.Width = p.X - m.Rect.Left
	m.Rect.Height = p.Y - m.Rect.Top
}

// Bounds returns the normalized bounding box of the marquee.
func (m Marquee) Bounds() geometry.Rect {
	if m.Mode == ModeLasso {
		return m.Vertices.Bounds()
	}
	return m.Rect.Normalize()
}

// Degenerate reports whether the marquee encloses no area: a rectangle with
// zero width or height, or a lasso with fewer than three vertices.
func (m Marquee) Degenerate() bool {
	if m.Mode == ModeLasso {
		return len(m.Vertices) < 3
	}
	return m.Rect.Empty()
}

// Outline returns the closed outline used to draw the marquee overlay.
func (m Marquee) Outline() geometry.Polygon {
	if m.Mode == ModeLasso {
		out := make(geometry.Polygon, len(m.Vertices))
		copy(out, m.Vertices)
		return out
	}
	c := m.Rect.Corners()
	return geometry.Polygon{c[0], c[1], c[2], c[3]}
}

func (m Marquee) clone() Marquee {
	if m.Vertices != nil {
		v := make(geometry.Polygon, len(m.Vertices))
		copy(v, m.Vertices)
		m.Vertices = v
	}
	return m
}
