package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
	"golang.org/x/image/vector"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
)

// FillPolygon rasterizes the closed polygon onto a transparent layer the size
// of bounds, translated so that bounds.Min maps to the layer origin.
// Polygons with fewer than three vertices produce an empty layer.
func FillPolygon(bounds image.Rectangle, poly geometry.Polygon, fill color.Color) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if len(poly) < 3 || bounds.Empty() {
		return layer
	}

	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.MoveTo(float32(poly[0].X)-ox, float32(poly[0].Y)-oy)
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X)-ox, float32(p.Y)-oy)
	}
	z.ClosePath()
	z.Draw(layer, layer.Bounds(), image.NewUniform(fill), image.Point{})
	return layer
}

// DrawOverlay composites a translucent marquee over dst and returns the
// result. dst is not modified. fill should carry its own alpha (see
// WithAlpha); pixels outside the polygon keep their original color.
func DrawOverlay(dst image.Image, poly geometry.Polygon, fill color.Color) *image.RGBA {
	b := dst.Bounds()
	layer := FillPolygon(b, poly, fill)

	base := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(base, base.Bounds(), dst, b.Min, draw.Src)

	return blend.Normal(base, layer)
}
