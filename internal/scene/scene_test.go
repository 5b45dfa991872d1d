package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
)

func rectObject(l, t, w, h float64) *Object {
	return &Object{Kind: KindRect, Box: geometry.Rect{Left: l, Top: t, Width: w, Height: h}}
}

func TestAddObject_AssignsIDs(t *testing.T) {
	s := New(800, 600)

	a := s.AddObject(rectObject(0, 0, 10, 10))
	b := s.AddObject(&Object{ID: "fixed", Kind: KindText})
	g := s.AddObject(&Object{Kind: KindGroup, Children: []*Object{rectObject(0, 0, 1, 1)}})

	if a.ID == "" {
		t.Error("AddObject should assign an ID")
	}
	if b.ID != "fixed" {
		t.Errorf("existing ID replaced: got %s", b.ID)
	}
	if g.Children[0].ID == "" {
		t.Error("group children should get IDs")
	}

	objs := s.Objects()
	if len(objs) != 3 || objs[0] != a || objs[2] != g {
		t.Errorf("Objects should be in insertion (z) order")
	}
}

func TestObjects_ReturnsCopy(t *testing.T) {
	s := New(100, 100)
	s.AddObject(rectObject(0, 0, 1, 1))

	objs := s.Objects()
	objs[0] = nil
	if s.Objects()[0] == nil {
		t.Error("mutating the returned slice changed the scene")
	}
}

func TestRemoveObject(t *testing.T) {
	s := New(100, 100)
	a := s.AddObject(rectObject(0, 0, 1, 1))
	b := s.AddObject(rectObject(5, 5, 1, 1))
	s.SetActiveSelection([]*Object{a, b})

	if err := s.RemoveObject(a.ID); err != nil {
		t.Fatalf("RemoveObject failed: %v", err)
	}
	if len(s.Objects()) != 1 {
		t.Errorf("objects after remove: got %d, want 1", len(s.Objects()))
	}
	sel := s.ActiveSelection()
	if len(sel) != 1 || sel[0] != b {
		t.Errorf("removed object should leave the selection, got %v", sel)
	}

	if err := s.RemoveObject("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveObject(missing): got %v, want ErrNotFound", err)
	}
}

func TestUpdateObject(t *testing.T) {
	s := New(100, 100)
	a := s.AddObject(rectObject(0, 0, 1, 1))

	err := s.UpdateObject(a.ID, func(o *Object) {
		o.Style.Fill = "#FF0000"
		o.Move(10, 20)
	})
	if err != nil {
		t.Fatalf("UpdateObject failed: %v", err)
	}

	got, err := s.Object(a.ID)
	if err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if got.Style.Fill != "#FF0000" {
		t.Errorf("Fill: got %s", got.Style.Fill)
	}
	if got.Box.Left != 10 || got.Box.Top != 20 {
		t.Errorf("Box after move: got %+v", got.Box)
	}

	if err := s.UpdateObject("missing", func(*Object) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateObject(missing): got %v, want ErrNotFound", err)
	}
}

// Pointers handed out before an update keep their old state; the scene and
// the active selection see the new one.
func TestUpdateObject_LeavesSnapshotsIntact(t *testing.T) {
	s := New(100, 100)
	a := s.AddObject(rectObject(0, 0, 10, 10))
	g := s.AddObject(&Object{Kind: KindGroup, Children: []*Object{rectObject(20, 20, 5, 5)}})
	s.SetActiveSelection([]*Object{a, g})

	before := s.Objects()
	for _, id := range []string{a.ID, g.ID} {
		if err := s.UpdateObject(id, func(o *Object) { o.Move(30, 40) }); err != nil {
			t.Fatalf("UpdateObject(%s) failed: %v", id, err)
		}
	}

	if got := before[0].Bounds(); got != (geometry.Rect{Width: 10, Height: 10}) {
		t.Errorf("snapshot of rect moved: got %+v", got)
	}
	if got := before[1].Bounds(); got != (geometry.Rect{Left: 20, Top: 20, Width: 5, Height: 5}) {
		t.Errorf("snapshot of group moved: got %+v", got)
	}

	after := s.Objects()
	if got := after[0].Bounds(); got.Left != 30 || got.Top != 40 {
		t.Errorf("stored rect: got %+v, want origin 30,40", got)
	}
	if got := after[1].Bounds(); got.Left != 50 || got.Top != 60 {
		t.Errorf("stored group: got %+v, want origin 50,60", got)
	}
	if after[1].Children[0].ID != g.Children[0].ID {
		t.Error("group child lost its ID")
	}

	sel := s.ActiveSelection()
	if len(sel) != 2 || sel[0] != after[0] || sel[1] != after[1] {
		t.Error("active selection should hold the updated objects")
	}
}

// Readers walking Objects() race with UpdateObject only on the lock.
// Run with -race to check.
func TestUpdateObject_ConcurrentReaders(t *testing.T) {
	s := New(100, 100)
	a := s.AddObject(rectObject(0, 0, 10, 10))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = s.UpdateObject(a.ID, func(o *Object) { o.Move(1, 1) })
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, o := range s.Objects() {
				if b := o.Bounds(); b.Width != 10 || b.Height != 10 {
					t.Errorf("torn bounds: %+v", b)
					return
				}
			}
		}
	}()
	wg.Wait()

	got, err := s.Object(a.ID)
	if err != nil {
		t.Fatalf("Object failed: %v", err)
	}
	if got.Box.Left != 200 || got.Box.Top != 200 {
		t.Errorf("final position: got %+v, want 200,200", got.Box)
	}
}

func TestActiveSelection(t *testing.T) {
	s := New(100, 100)
	a := s.AddObject(rectObject(0, 0, 1, 1))

	s.SetActiveSelection([]*Object{a})
	if len(s.ActiveSelection()) != 1 {
		t.Fatal("selection not set")
	}

	s.ClearActiveSelection()
	if len(s.ActiveSelection()) != 0 {
		t.Error("selection not cleared")
	}
}

func TestObject_Bounds_Group(t *testing.T) {
	// An arrow: shaft plus head, grouped.
	arrow := &Object{
		Kind: KindGroup,
		Children: []*Object{
			rectObject(10, 48, 80, 4),
			rectObject(80, 40, 20, 20),
		},
	}
	want := geometry.Rect{Left: 10, Top: 40, Width: 90, Height: 20}
	if got := arrow.Bounds(); got != want {
		t.Errorf("group Bounds: got %+v, want %+v", got, want)
	}

	arrow.Move(5, 5)
	want = want.Translate(5, 5)
	if got := arrow.Bounds(); got != want {
		t.Errorf("group Bounds after Move: got %+v, want %+v", got, want)
	}
}

func TestObject_Bounds_Normalized(t *testing.T) {
	o := rectObject(20, 20, -10, -5)
	want := geometry.Rect{Left: 10, Top: 15, Width: 10, Height: 5}
	if got := o.Bounds(); got != want {
		t.Errorf("Bounds: got %+v, want %+v", got, want)
	}
}

func TestOverlay(t *testing.T) {
	s := New(100, 100)
	if _, ok := s.Overlay(); ok {
		t.Error("new scene should have no overlay")
	}

	s.ShowOverlay(geometry.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}})
	if p, ok := s.Overlay(); !ok || len(p) != 3 {
		t.Errorf("Overlay: got %v, %v", p, ok)
	}
	if len(s.Objects()) != 0 {
		t.Error("overlay must not be part of the scene objects")
	}

	s.HideOverlay()
	if _, ok := s.Overlay(); ok {
		t.Error("overlay still shown after HideOverlay")
	}
}

func TestKind_Valid(t *testing.T) {
	for _, k := range []Kind{KindRect, KindEllipse, KindText, KindImage, KindGroup} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("polygon").Valid() {
		t.Error("unknown kind reported valid")
	}
}
