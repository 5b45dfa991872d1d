// Package scene holds the editor's canvas state: the objects in z-order, an
// optional background image, the active selection and the transient marquee
// overlay.
//
// Scene implements the query and mutation interfaces consumed by the
// selection and crop packages, and its render surface (see surface.go)
// implements region export.
package scene

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
)

// ErrNotFound is returned when an object ID is not in the scene.
var ErrNotFound = errors.New("object not found")

// Scene is the canvas document. Its methods are safe for concurrent use.
//
// Objects stored in the scene are treated as immutable: Objects, Object and
// ActiveSelection hand out shared pointers that callers must only read, and
// UpdateObject swaps in a modified copy instead of writing through them. A
// pointer obtained earlier therefore keeps describing the object as it was,
// and reading it needs no lock.
type Scene struct {
	mu sync.RWMutex

	width, height float64

	objects    []*Object // bottom to top
	background *Object
	active     []*Object
	overlay    geometry.Polygon

	logger *log.Logger
}

// New creates an empty canvas of the given size.
func New(width, height float64) *Scene {
	return &Scene{
		width:  width,
		height: height,
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger routes scene diagnostics to l. A nil logger silences them.
func (s *Scene) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.mu.Lock()
	s.logger = l
	s.mu.Unlock()
}

// Size returns the canvas dimensions.
func (s *Scene) Size() (width, height float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Objects returns the objects in z-order, bottom first. The slice is a copy;
// the objects are shared and read-only.
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Object looks up an object by ID.
func (s *Scene) Object(id string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.objects[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddObject places obj on top of the z-order and returns it. Objects
// without an ID (including group children) get a fresh UUID.
func (s *Scene) AddObject(obj *Object) *Object {
	assignIDs(obj)

	s.mu.Lock()
	s.objects = append(s.objects, obj)
	s.logger.Printf("scene: added %s %s at %+v", obj.Kind, obj.ID, obj.Bounds())
	s.mu.Unlock()
	return obj
}

func assignIDs(obj *Object) {
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	}
	for _, c := range obj.Children {
		assignIDs(c)
	}
}

// RemoveObject deletes the object with the given ID, dropping it from the
// active selection as well.
func (s *Scene) RemoveObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)

	kept := s.active[:0]
	for _, o := range s.active {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	s.active = kept
	return nil
}

// UpdateObject applies fn to a copy of the object with the given ID and
// replaces the stored object with it, in the z-order and in the active
// selection. fn runs under the scene lock and must not call back into the
// scene.
func (s *Scene) UpdateObject(id string, fn func(*Object)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := s.objects[i]
	next := prev.clone()
	fn(next)
	next.ID = prev.ID
	s.objects[i] = next

	for j, o := range s.active {
		if o == prev {
			s.active[j] = next
		}
	}
	return nil
}

func (s *Scene) indexOf(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// SetActiveSelection replaces the active selection with objs.
func (s *Scene) SetActiveSelection(objs []*Object) {
	sel := make([]*Object, len(objs))
	copy(sel, objs)

	s.mu.Lock()
	s.active = sel
	s.mu.Unlock()
}

// ClearActiveSelection empties the active selection.
func (s *Scene) ClearActiveSelection() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// ActiveSelection returns a copy of the active selection.
func (s *Scene) ActiveSelection() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, len(s.active))
	copy(out, s.active)
	return out
}

// SetBackground installs img as the background, displayed at box. A box with
// zero width or height takes the raster's pixel size at box's origin.
func (s *Scene) SetBackground(img image.Image, box geometry.Rect) *Object {
	box = box.Normalize()
	if box.Empty() {
		b := img.Bounds()
		box.Width, box.Height = float64(b.Dx()), float64(b.Dy())
	}
	bg := &Object{
		ID:    uuid.NewString(),
		Kind:  KindImage,
		Box:   box,
		Image: img,
	}

	s.mu.Lock()
	s.background = bg
	s.mu.Unlock()
	return bg
}

// Background returns the background image object, if any.
func (s *Scene) Background() (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background, s.background != nil
}

// ClearBackground removes the background image.
func (s *Scene) ClearBackground() {
	s.mu.Lock()
	s.background = nil
	s.mu.Unlock()
}

// ShowOverlay sets the marquee outline drawn over the canvas. The overlay is
// never part of Objects.
func (s *Scene) ShowOverlay(outline geometry.Polygon) {
	o := make(geometry.Polygon, len(outline))
	copy(o, outline)

	s.mu.Lock()
	s.overlay = o
	s.mu.Unlock()
}

// HideOverlay removes the marquee outline.
func (s *Scene) HideOverlay() {
	s.mu.Lock()
	s.overlay = nil
	s.mu.Unlock()
}

// Overlay returns the current marquee outline, if one is shown.
func (s *Scene) Overlay() (geometry.Polygon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay, s.overlay != nil
}
