package scene

import (
	"image"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
)

// Kind identifies what an object renders as.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindGroup   Kind = "group" // e.g. an arrow made of a line and a head
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRect, KindEllipse, KindText, KindImage, KindGroup:
		return true
	}
	return false
}

// Style holds the editable visual properties of an object.
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Text        string  `json:"text,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
}

// Object is a renderable entity on the canvas. Selection code only reads its
// bounding box; everything else is carried for the editor host.
type Object struct {
	ID    string        `json:"id"`
	Kind  Kind          `json:"kind"`
	Box   geometry.Rect `json:"box"`
	Style Style         `json:"style"`

	// Image is the raster of an image object. Box gives its displayed
	// position and size on the canvas.
	Image image.Image `json:"-"`

	// Children are the members of a group. A group's own Box is ignored.
	Children []*Object `json:"children,omitempty"`
}

// Bounds returns the axis-aligned bounding box of the object in canvas
// coordinates. For groups this is the union of the children's bounds.
func (o *Object) Bounds() geometry.Rect {
	if o.Kind == KindGroup && len(o.Children) > 0 {
		b := o.Children[0].Bounds()
		for _, c := range o.Children[1:] {
			b = b.Union(c.Bounds())
		}
		return b
	}
	return o.Box.Normalize()
}

// clone returns a copy of o with its own children. The raster is shared;
// it is never modified in place.
func (o *Object) clone() *Object {
	cp := *o
	if o.Children != nil {
		cp.Children = make([]*Object, len(o.Children))
		for i, c := range o.Children {
			cp.Children[i] = c.clone()
		}
	}
	return &cp
}

// Move translates the object (and all children of a group) by (dx, dy).
func (o *Object) Move(dx, dy float64) {
	o.Box = o.Box.Translate(dx, dy)
	for _, c := range o.Children {
		c.Move(dx, dy)
	}
}
