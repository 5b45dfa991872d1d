package selection

import (
	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
)

// Scene is the part of the editor host the resolver reads and writes.
type Scene interface {
	Objects() []*scene.Object
	SetActiveSelection([]*scene.Object)
	ClearActiveSelection()
}

// HitTestRect returns the objects whose bounding boxes intersect r, in the
// order given. Partial overlap is enough.
func HitTestRect(r geometry.Rect, objs []*scene.Object) []*scene.Object {
	var hits []*scene.Object
	for _, o := range objs {
		if geometry.BoxesIntersect(r, o.Bounds()) {
			hits = append(hits, o)
		}
	}
	return hits
}

// HitTestLasso returns the objects with at least one bounding-box corner
// inside poly, in the order given.
//
// Only corners are tested: an object whose corners all fall outside the
// lasso is missed even if its body crosses the lasso interior.
func HitTestLasso(poly geometry.Polygon, objs []*scene.Object) []*scene.Object {
	if len(poly) < 3 {
		return nil
	}
	var hits []*scene.Object
	for _, o := range objs {
		for _, c := range o.Bounds().Corners() {
			if poly.Contains(c) {
				hits = append(hits, o)
				break
			}
		}
	}
	return hits
}

// Resolve computes the objects matched by a finished marquee. Degenerate
// marquees match nothing. Crop marquees select nothing either; they are
// handled by the crop operator.
func Resolve(m Marquee, objs []*scene.Object) []*scene.Object {
	if m.Degenerate() {
		return nil
	}
	switch m.Mode {
	case ModeRectangle:
		return HitTestRect(m.Rect.Normalize(), objs)
	case ModeLasso:
		return HitTestLasso(m.Vertices, objs)
	}
	return nil
}

// Apply installs result as the active selection, replacing whatever was
// selected before. An empty result clears the selection.
func Apply(s Scene, result []*scene.Object) {
	if len(result) == 0 {
		s.ClearActiveSelection()
		return
	}
	s.SetActiveSelection(result)
}
