// Package crop cuts a rectangular region out of the canvas background and
// places it on the canvas as a new, independent image object.
package crop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
)

// ErrPending is returned when a crop is requested while another one is
// still exporting.
var ErrPending = errors.New("crop already in progress")

// Scene is the part of the editor host the operator reads and writes.
type Scene interface {
	Background() (*scene.Object, bool)
	AddObject(*scene.Object) *scene.Object
}

// Exporter renders a region of the background to PNG. Coordinates are
// relative to the background's origin.
type Exporter interface {
	ExportRegion(ctx context.Context, left, top, width, height float64) ([]byte, error)
}

// Operator performs region crops. At most one crop runs at a time.
type Operator struct {
	scene    Scene
	exporter Exporter
	pending  atomic.Bool
	logger   *log.Logger
}

// New creates an operator that reads the background from s and exports
// pixels through e.
func New(s Scene, e Exporter) *Operator {
	return &Operator{
		scene:    s,
		exporter: e,
		logger:   log.New(io.Discard, "", 0),
	}
}

// SetLogger routes crop diagnostics to l.
func (o *Operator) SetLogger(l *log.Logger) {
	if l != nil {
		o.logger = l
	}
}

// Pending reports whether a crop is in flight.
func (o *Operator) Pending() bool {
	return o.pending.Load()
}

// Crop exports the background pixels under r and adds them to the scene as
// a new image object at r's canvas position. The background is not touched.
//
// A nil object and nil error mean nothing was done: there is no background,
// or r encloses no area. Export and decode failures are returned to the
// caller. If ctx is cancelled while exporting, nothing is added.
func (o *Operator) Crop(ctx context.Context, r geometry.Rect) (*scene.Object, error) {
	if !o.pending.CompareAndSwap(false, true) {
		return nil, ErrPending
	}
	defer o.pending.Store(false)

	r = r.Normalize()
	if r.Empty() {
		return nil, nil
	}

	bg, ok := o.scene.Background()
	if !ok {
		o.logger.Printf("crop: no background, skipping")
		return nil, nil
	}

	origin := bg.Bounds()
	left, top := r.Left-origin.Left, r.Top-origin.Top

	data, err := o.exporter.ExportRegion(ctx, left, top, r.Width, r.Height)
	if err != nil {
		return nil, fmt.Errorf("export region (%.1f,%.1f %.1fx%.1f): %w", left, top, r.Width, r.Height, err)
	}
	img, err := imaging.DecodePNG(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj := o.scene.AddObject(&scene.Object{
		Kind:  scene.KindImage,
		Box:   r,
		Image: img,
	})
	o.logger.Printf("crop: created %s at (%.1f,%.1f)", obj.ID, r.Left, r.Top)
	return obj, nil
}
