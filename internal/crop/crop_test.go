package crop

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
)

// fakeExporter records the requested region and returns a solid PNG of the
// requested size.
type fakeExporter struct {
	calls   []geometry.Rect
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeExporter) ExportRegion(ctx context.Context, left, top, width, height float64) ([]byte, error) {
	f.calls = append(f.calls, geometry.Rect{Left: left, Top: top, Width: width, Height: height})
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return imaging.EncodePNG(img)
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{10, 20, 30, 255})
		}
	}
	return img
}

func TestCrop_PositionsNewObject(t *testing.T) {
	s := scene.New(200, 200)
	bg := s.SetBackground(solid(100, 100), geometry.Rect{})
	exp := &fakeExporter{}
	op := New(s, exp)

	obj, err := op.Crop(context.Background(), geometry.Rect{Left: 10, Top: 10, Width: 50, Height: 50})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if obj == nil {
		t.Fatal("Crop returned no object")
	}

	if len(exp.calls) != 1 {
		t.Fatalf("export calls: got %d, want 1", len(exp.calls))
	}
	if want := (geometry.Rect{Left: 10, Top: 10, Width: 50, Height: 50}); exp.calls[0] != want {
		t.Errorf("export region: got %+v, want %+v", exp.calls[0], want)
	}

	if obj.Box.Left != 10 || obj.Box.Top != 10 {
		t.Errorf("cropped object position: got (%v,%v), want (10,10)", obj.Box.Left, obj.Box.Top)
	}
	if obj.Kind != scene.KindImage || obj.Image == nil {
		t.Errorf("cropped object should be an image, got kind %s", obj.Kind)
	}
	if obj.Image.Bounds().Dx() != 50 {
		t.Errorf("cropped raster width: got %d, want 50", obj.Image.Bounds().Dx())
	}

	objs := s.Objects()
	if len(objs) != 1 || objs[0] != obj {
		t.Error("cropped object not added to the scene")
	}
	if got, _ := s.Background(); got != bg {
		t.Error("background must be left in place")
	}
}

func TestCrop_RelativeToBackgroundOrigin(t *testing.T) {
	s := scene.New(400, 400)
	s.SetBackground(solid(100, 100), geometry.Rect{Left: 100, Top: 50})
	exp := &fakeExporter{}
	op := New(s, exp)

	// Dragged from bottom-right to top-left.
	obj, err := op.Crop(context.Background(), geometry.Rect{Left: 150, Top: 100, Width: -40, Height: -40})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if want := (geometry.Rect{Left: 10, Top: 10, Width: 40, Height: 40}); exp.calls[0] != want {
		t.Errorf("export region: got %+v, want %+v", exp.calls[0], want)
	}
	if obj.Box.Left != 110 || obj.Box.Top != 60 {
		t.Errorf("cropped object position: got (%v,%v), want (110,60)", obj.Box.Left, obj.Box.Top)
	}
}

func TestCrop_NoBackgroundIsNoop(t *testing.T) {
	s := scene.New(100, 100)
	exp := &fakeExporter{}
	op := New(s, exp)

	obj, err := op.Crop(context.Background(), geometry.Rect{Left: 0, Top: 0, Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Crop without background should not fail: %v", err)
	}
	if obj != nil {
		t.Error("Crop without background should not create an object")
	}
	if len(s.Objects()) != 0 || len(exp.calls) != 0 {
		t.Error("Crop without background should not touch scene or exporter")
	}
}

func TestCrop_EmptyRegionIsNoop(t *testing.T) {
	s := scene.New(100, 100)
	s.SetBackground(solid(50, 50), geometry.Rect{})
	exp := &fakeExporter{}
	op := New(s, exp)

	obj, err := op.Crop(context.Background(), geometry.Rect{Left: 5, Top: 5})
	if err != nil || obj != nil {
		t.Errorf("zero-area crop: got (%v, %v), want (nil, nil)", obj, err)
	}
	if len(exp.calls) != 0 {
		t.Error("zero-area crop should not export")
	}
}

func TestCrop_ExportFailurePropagates(t *testing.T) {
	s := scene.New(100, 100)
	s.SetBackground(solid(50, 50), geometry.Rect{})
	tainted := errors.New("tainted canvas")
	op := New(s, &fakeExporter{err: tainted})

	obj, err := op.Crop(context.Background(), geometry.Rect{Width: 10, Height: 10})
	if !errors.Is(err, tainted) {
		t.Fatalf("Crop error: got %v, want wrapped %v", err, tainted)
	}
	if obj != nil || len(s.Objects()) != 0 {
		t.Error("failed crop must not add an object")
	}
	if op.Pending() {
		t.Error("operator still pending after failure")
	}
}

func TestCrop_RejectsConcurrentCrop(t *testing.T) {
	s := scene.New(100, 100)
	s.SetBackground(solid(50, 50), geometry.Rect{})
	exp := &fakeExporter{started: make(chan struct{}), release: make(chan struct{})}
	op := New(s, exp)

	done := make(chan error, 1)
	go func() {
		_, err := op.Crop(context.Background(), geometry.Rect{Width: 10, Height: 10})
		done <- err
	}()

	select {
	case <-exp.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first crop never reached the exporter")
	}

	if !op.Pending() {
		t.Error("operator should report a pending crop")
	}
	if _, err := op.Crop(context.Background(), geometry.Rect{Width: 5, Height: 5}); !errors.Is(err, ErrPending) {
		t.Errorf("second crop: got %v, want ErrPending", err)
	}

	close(exp.release)
	if err := <-done; err != nil {
		t.Fatalf("first crop failed: %v", err)
	}
	if len(s.Objects()) != 1 {
		t.Errorf("objects: got %d, want 1", len(s.Objects()))
	}
}

func TestCrop_CancelledBeforeInsert(t *testing.T) {
	s := scene.New(100, 100)
	s.SetBackground(solid(50, 50), geometry.Rect{})
	op := New(s, &fakeExporter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := op.Crop(ctx, geometry.Rect{Width: 10, Height: 10}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled crop: got %v, want context.Canceled", err)
	}
	if len(s.Objects()) != 0 {
		t.Error("cancelled crop must not add an object")
	}
}

func TestCrop_WithSceneExporter(t *testing.T) {
	s := scene.New(200, 200)
	s.SetBackground(solid(100, 100), geometry.Rect{Left: 20, Top: 20})
	op := New(s, s)

	obj, err := op.Crop(context.Background(), geometry.Rect{Left: 30, Top: 40, Width: 25, Height: 15})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	b := obj.Image.Bounds()
	if b.Dx() != 25 || b.Dy() != 15 {
		t.Errorf("cropped raster: got %v, want 25x15", b)
	}
	r, g, bl, _ := obj.Image.At(b.Min.X+3, b.Min.Y+3).RGBA()
	if r>>8 != 10 || g>>8 != 20 || bl>>8 != 30 {
		t.Errorf("cropped pixel: got (%d,%d,%d), want background color", r>>8, g>>8, bl>>8)
	}
}

// stripes is green for x < 10 and red elsewhere.
func stripes(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 10 {
				img.Set(x, y, color.RGBA{0, 255, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}
	return img
}

// A crop rectangle that overhangs the background yields a raster of the
// full rectangle, so the new object shows its pixels at their original
// canvas positions.
func TestCrop_OverhangingRect(t *testing.T) {
	type pixel struct {
		x, y int
		want color.NRGBA
	}
	transparent := color.NRGBA{}
	green := color.NRGBA{0, 255, 0, 255}
	red := color.NRGBA{255, 0, 0, 255}

	tests := []struct {
		name   string
		rect   geometry.Rect
		pixels []pixel
	}{
		{
			name: "past bottom right",
			rect: geometry.Rect{Left: 80, Top: 80, Width: 40, Height: 40},
			pixels: []pixel{
				{10, 10, red},
				{30, 30, transparent},
				{30, 5, transparent},
			},
		},
		{
			name: "before left edge",
			rect: geometry.Rect{Left: -20, Top: 0, Width: 40, Height: 10},
			pixels: []pixel{
				{5, 5, transparent},
				{25, 5, green},
				{35, 5, red},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New(200, 200)
			s.SetBackground(stripes(100, 100), geometry.Rect{})
			op := New(s, s)

			obj, err := op.Crop(context.Background(), tt.rect)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if obj == nil {
				t.Fatal("Crop returned no object")
			}
			if obj.Box != tt.rect {
				t.Errorf("object box: got %+v, want %+v", obj.Box, tt.rect)
			}

			b := obj.Image.Bounds()
			if b.Dx() != int(tt.rect.Width) || b.Dy() != int(tt.rect.Height) {
				t.Fatalf("cropped raster: got %v, want %vx%v", b, tt.rect.Width, tt.rect.Height)
			}
			for _, p := range tt.pixels {
				got := color.NRGBAModel.Convert(obj.Image.At(b.Min.X+p.x, b.Min.Y+p.y)).(color.NRGBA)
				if got.A != p.want.A || (p.want.A != 0 && got != p.want) {
					t.Errorf("pixel (%d,%d): got %v, want %v", p.x, p.y, got, p.want)
				}
			}
		})
	}
}
