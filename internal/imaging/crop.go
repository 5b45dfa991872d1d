package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
)

// RasterResult is a PNG raster prepared for JSON transport.
type RasterResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRegion cuts region out of img. The region is clipped to the image
// bounds; a region that is empty or lies entirely outside the image is an
// error. The returned image has its origin at (0,0).
func CropRegion(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	region = region.Canon()
	if region.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: zero area", region)
	}

	bounds := img.Bounds()
	clipped := region.Intersect(bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}

	return imaging.Crop(img, clipped), nil
}

// ExtractRegion cuts region out of img at its full size. Pixels of region
// that fall outside img are transparent, so the result is always
// region.Dx() x region.Dy() and pixel (0,0) is region.Min. A region that is
// empty or does not overlap img at all is an error.
func ExtractRegion(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	region = region.Canon()
	cropped, err := CropRegion(img, region)
	if err != nil {
		return nil, err
	}
	clipped := region.Intersect(img.Bounds())
	if clipped == region {
		return cropped, nil
	}

	out := imaging.New(region.Dx(), region.Dy(), color.Transparent)
	return imaging.Paste(out, cropped, clipped.Min.Sub(region.Min)), nil
}

// Resize scales img to width x height. It is used to bring a background
// raster to its displayed size before compositing.
func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes PNG bytes produced by EncodePNG or a render surface.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster: %w", err)
	}
	return img, nil
}

// NewRasterResult wraps PNG bytes for transport. Dimensions are taken from
// the PNG header.
func NewRasterResult(data []byte) (*RasterResult, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read raster header: %w", err)
	}
	return &RasterResult{
		Width:       cfg.Width,
		Height:      cfg.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// Paste draws src over dst with its top-left corner at pt and returns the
// composite. dst is not modified.
func Paste(dst, src image.Image, pt image.Point) *image.NRGBA {
	return imaging.Overlay(dst, src, pt, 1.0)
}

// Canvas returns a new width x height raster filled with c.
func Canvas(width, height int, c color.Color) *image.NRGBA {
	return imaging.New(width, height, c)
}
