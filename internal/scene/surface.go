package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
)

// ErrNoBackground is returned by region export when no background is set.
var ErrNoBackground = errors.New("no background image")

// ExportRegion returns a PNG of the background region at (left, top) with the
// given size. Coordinates are relative to the background's displayed origin
// and in canvas units; they are mapped to raster pixels when the background
// is displayed at a different size than its raster. The PNG always covers
// the whole region: parts that extend past the background are transparent.
// A region that misses the background entirely is an error.
func (s *Scene) ExportRegion(ctx context.Context, left, top, width, height float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bg, ok := s.Background()
	if !ok {
		return nil, ErrNoBackground
	}

	px := rasterRegion(bg, geometry.Rect{Left: left, Top: top, Width: width, Height: height})
	cropped, err := imaging.ExtractRegion(bg.Image, px)
	if err != nil {
		return nil, fmt.Errorf("export region: %w", err)
	}
	return imaging.EncodePNG(cropped)
}

// rasterRegion converts a region relative to bg's displayed box into pixel
// coordinates of bg's raster.
func rasterRegion(bg *Object, r geometry.Rect) image.Rectangle {
	r = r.Normalize()
	b := bg.Image.Bounds()
	box := bg.Box.Normalize()

	sx, sy := 1.0, 1.0
	if box.Width > 0 {
		sx = float64(b.Dx()) / box.Width
	}
	if box.Height > 0 {
		sy = float64(b.Dy()) / box.Height
	}

	x0 := int(math.Floor(r.Left * sx))
	y0 := int(math.Floor(r.Top * sy))
	x1 := int(math.Ceil(r.Right() * sx))
	y1 := int(math.Ceil(r.Bottom() * sy))
	return image.Rect(x0, y0, x1, y1).Add(b.Min)
}

// Render draws the canvas to PNG: background, image and filled rectangle
// objects in z-order, then the marquee overlay tinted with overlay.
// Other object kinds are drawn by the editor host, not here.
func (s *Scene) Render(ctx context.Context, overlay color.Color) ([]byte, error) {
	s.mu.RLock()
	w, h := s.width, s.height
	bg := s.background
	objs := make([]*Object, len(s.objects))
	copy(objs, s.objects)
	outline := s.overlay
	s.mu.RUnlock()

	if (w <= 0 || h <= 0) && bg != nil {
		bb := bg.Bounds()
		w, h = bb.Right(), bb.Bottom()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas has no size")
	}

	canvas := image.Image(imaging.Canvas(int(math.Ceil(w)), int(math.Ceil(h)), color.White))
	if bg != nil {
		canvas = drawImageObject(canvas, bg)
	}

	for _, o := range objs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch o.Kind {
		case KindImage:
			canvas = drawImageObject(canvas, o)
		case KindRect:
			canvas = fillRect(canvas, o)
		}
	}

	if len(outline) >= 3 {
		canvas = imaging.DrawOverlay(canvas, outline, overlay)
	}
	return imaging.EncodePNG(canvas)
}

func drawImageObject(dst image.Image, o *Object) image.Image {
	if o.Image == nil {
		return dst
	}
	box := o.Box.Normalize()
	src := o.Image
	w, h := int(math.Round(box.Width)), int(math.Round(box.Height))
	if b := src.Bounds(); w > 0 && h > 0 && (b.Dx() != w || b.Dy() != h) {
		src = imaging.Resize(src, w, h)
	}
	return imaging.Paste(dst, src, image.Pt(int(math.Round(box.Left)), int(math.Round(box.Top))))
}

func fillRect(dst image.Image, o *Object) image.Image {
	if o.Style.Fill == "" {
		return dst
	}
	c, err := imaging.ParseColor(o.Style.Fill)
	if err != nil {
		return dst
	}
	corners := o.Bounds().Corners()
	layer := imaging.FillPolygon(dst.Bounds(), corners[:], c)
	return imaging.Paste(dst, layer, dst.Bounds().Min)
}
