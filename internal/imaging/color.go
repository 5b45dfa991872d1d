package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#RRGGBB" (or the short "#RGB" form) into an opaque
// color. The leading '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// WithAlpha returns c with its alpha set to alpha (0.0 to 1.0) and its color
// channels premultiplied accordingly, as required by color.RGBA.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * alpha)),
		G: uint8(math.Round(float64(c.G) * alpha)),
		B: uint8(math.Round(float64(c.B) * alpha)),
		A: uint8(math.Round(255 * alpha)),
	}
}

// Hex formats c as "#RRGGBB", ignoring alpha.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return strings.ToUpper(cf.Hex())
}
