package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/canvas-select-mcp/internal/geometry"
	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
	"github.com/ironsheep/canvas-select-mcp/internal/selection"
)

// toolTimeout bounds a single tool call. Only crop, export and render do
// enough work to notice it.
const toolTimeout = 30 * time.Second

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "canvas_gesture_start").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Scene
	case "canvas_set_background":
		return s.handleSetBackground(args)
	case "canvas_add_object":
		return s.handleAddObject(args)
	case "canvas_update_object":
		return s.handleUpdateObject(args)
	case "canvas_remove_object":
		return s.handleRemoveObject(args)
	case "canvas_list_objects":
		return s.handleListObjects()

	// Gestures
	case "canvas_set_mode":
		return s.handleSetMode(args)
	case "canvas_gesture_start":
		return s.handleGestureStart(args)
	case "canvas_gesture_move":
		return s.handleGestureMove(args)
	case "canvas_gesture_end":
		return s.handleGestureEnd(ctx)
	case "canvas_gesture_cancel":
		return s.handleGestureCancel()

	// Selection
	case "canvas_get_selection":
		return s.handleGetSelection()
	case "canvas_clear_selection":
		return s.handleClearSelection()
	case "canvas_select_rect":
		return s.handleSelectRect(ctx, args)
	case "canvas_select_lasso":
		return s.handleSelectLasso(ctx, args)

	// Region operations
	case "canvas_crop_region":
		return s.handleCropRegion(ctx, args)
	case "canvas_export_region":
		return s.handleExportRegion(ctx, args)
	case "canvas_render":
		return s.handleRender(ctx)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Result views ===

// objectView is the JSON shape of a scene object. Bounds is always
// normalized, and for groups it is the union of the children.
type objectView struct {
	ID       string        `json:"id"`
	Kind     scene.Kind    `json:"kind"`
	Bounds   geometry.Rect `json:"bounds"`
	Style    scene.Style   `json:"style"`
	Raster   *rasterSize   `json:"raster,omitempty"`
	Children []objectView  `json:"children,omitempty"`
}

// rasterSize is the pixel size of an image object's raster, which may differ
// from its displayed bounds.
type rasterSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func viewOf(o *scene.Object) objectView {
	v := objectView{
		ID:     o.ID,
		Kind:   o.Kind,
		Bounds: o.Bounds(),
		Style:  o.Style,
	}
	if o.Image != nil {
		b := o.Image.Bounds()
		v.Raster = &rasterSize{Width: b.Dx(), Height: b.Dy()}
	}
	for _, c := range o.Children {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

func viewsOf(objs []*scene.Object) []objectView {
	out := make([]objectView, 0, len(objs))
	for _, o := range objs {
		out = append(out, viewOf(o))
	}
	return out
}

func idsOf(objs []*scene.Object) []string {
	ids := make([]string, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID)
	}
	return ids
}

type gestureView struct {
	State    string           `json:"state"`
	Mode     string           `json:"mode"`
	Bounds   *geometry.Rect   `json:"marquee,omitempty"`
	Vertices []geometry.Point `json:"vertices,omitempty"`
}

func (s *Server) gestureState() gestureView {
	v := gestureView{
		State: s.session.State().String(),
		Mode:  s.session.Mode().String(),
	}
	if m, ok := s.session.Marquee(); ok {
		b := m.Bounds()
		v.Bounds = &b
		if m.Mode == selection.ModeLasso {
			v.Vertices = m.Vertices
		}
	}
	return v
}

type outcomeView struct {
	Mode       string        `json:"mode"`
	Marquee    geometry.Rect `json:"marquee"`
	Degenerate bool          `json:"degenerate"`
	Selected   []string      `json:"selected"`
	Objects    []objectView  `json:"objects,omitempty"`
	Cropped    *objectView   `json:"cropped,omitempty"`
}

func viewOutcome(o *selection.Outcome) outcomeView {
	v := outcomeView{
		Mode:       o.Mode.String(),
		Marquee:    o.Marquee.Bounds(),
		Degenerate: o.Degenerate,
		Selected:   idsOf(o.Selected),
		Objects:    viewsOf(o.Selected),
	}
	if o.Cropped != nil {
		c := viewOf(o.Cropped)
		v.Cropped = &c
	}
	return v
}

// === Scene Handlers ===

type boxArgs struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (a boxArgs) rect() geometry.Rect {
	return geometry.Rect{Left: a.Left, Top: a.Top, Width: a.Width, Height: a.Height}
}

type setBackgroundArgs struct {
	Path string `json:"path"`
	boxArgs
}

func (s *Server) handleSetBackground(args json.RawMessage) (interface{}, error) {
	var a setBackgroundArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	bg := s.scene.SetBackground(img, a.rect())
	return map[string]interface{}{
		"background": viewOf(bg),
		"source":     imaging.Describe(img, a.Path),
	}, nil
}

type objectArgs struct {
	Kind string `json:"kind"`
	boxArgs
	Style    scene.Style  `json:"style"`
	Path     string       `json:"path"`
	Children []objectArgs `json:"children"`
}

// buildObject turns tool arguments into a scene object, loading image
// rasters through the cache.
func (s *Server) buildObject(a objectArgs) (*scene.Object, error) {
	kind := scene.Kind(a.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown object kind: %q", a.Kind)
	}
	if err := validateStyle(a.Style); err != nil {
		return nil, err
	}

	obj := &scene.Object{
		Kind:  kind,
		Box:   a.rect().Normalize(),
		Style: a.Style,
	}

	switch kind {
	case scene.KindImage:
		if a.Path == "" {
			return nil, errors.New("image objects require a path")
		}
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		obj.Image = img
		if obj.Box.Empty() {
			b := img.Bounds()
			obj.Box.Width, obj.Box.Height = float64(b.Dx()), float64(b.Dy())
		}
	case scene.KindGroup:
		if len(a.Children) == 0 {
			return nil, errors.New("group objects require children")
		}
		for i, ca := range a.Children {
			child, err := s.buildObject(ca)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			obj.Children = append(obj.Children, child)
		}
	}
	return obj, nil
}

func validateStyle(st scene.Style) error {
	for _, c := range []string{st.Fill, st.Stroke} {
		if c == "" {
			continue
		}
		if _, err := imaging.ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleAddObject(args json.RawMessage) (interface{}, error) {
	var a objectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	obj, err := s.buildObject(a)
	if err != nil {
		return nil, err
	}
	return viewOf(s.scene.AddObject(obj)), nil
}

type stylePatch struct {
	Fill        *string  `json:"fill"`
	Stroke      *string  `json:"stroke"`
	StrokeWidth *float64 `json:"stroke_width"`
	Text        *string  `json:"text"`
	FontSize    *float64 `json:"font_size"`
}

func (p *stylePatch) apply(st *scene.Style) {
	if p == nil {
		return
	}
	if p.Fill != nil {
		st.Fill = *p.Fill
	}
	if p.Stroke != nil {
		st.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		st.StrokeWidth = *p.StrokeWidth
	}
	if p.Text != nil {
		st.Text = *p.Text
	}
	if p.FontSize != nil {
		st.FontSize = *p.FontSize
	}
}

type updateObjectArgs struct {
	ID    string      `json:"id"`
	DX    float64     `json:"dx"`
	DY    float64     `json:"dy"`
	Style *stylePatch `json:"style"`
}

func (s *Server) handleUpdateObject(args json.RawMessage) (interface{}, error) {
	var a updateObjectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	// Validate against a scratch copy so a bad color leaves the object as is.
	current, err := s.scene.Object(a.ID)
	if err != nil {
		return nil, err
	}
	next := current.Style
	a.Style.apply(&next)
	if err := validateStyle(next); err != nil {
		return nil, err
	}

	err = s.scene.UpdateObject(a.ID, func(o *scene.Object) {
		if a.DX != 0 || a.DY != 0 {
			o.Move(a.DX, a.DY)
		}
		a.Style.apply(&o.Style)
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.scene.Object(a.ID)
	if err != nil {
		return nil, err
	}
	return viewOf(updated), nil
}

type objectIDArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleRemoveObject(args json.RawMessage) (interface{}, error) {
	var a objectIDArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.scene.RemoveObject(a.ID); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"removed":   a.ID,
		"selection": idsOf(s.scene.ActiveSelection()),
	}, nil
}

func (s *Server) handleListObjects() (interface{}, error) {
	w, h := s.scene.Size()
	result := map[string]interface{}{
		"width":     w,
		"height":    h,
		"objects":   viewsOf(s.scene.Objects()),
		"selection": idsOf(s.scene.ActiveSelection()),
	}
	if bg, ok := s.scene.Background(); ok {
		result["background"] = viewOf(bg)
	}
	return result, nil
}

// === Gesture Handlers ===

type setModeArgs struct {
	Mode string `json:"mode"`
}

func (s *Server) handleSetMode(args json.RawMessage) (interface{}, error) {
	var a setModeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode, err := selection.ParseMode(a.Mode)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetMode(mode); err != nil {
		return nil, err
	}
	return s.gestureState(), nil
}

type pointArgs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleGestureStart(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.GestureStart(geometry.Pt(a.X, a.Y)); err != nil {
		return nil, err
	}
	return s.gestureState(), nil
}

func (s *Server) handleGestureMove(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.session.GestureMove(geometry.Pt(a.X, a.Y)); err != nil {
		return nil, err
	}
	return s.gestureState(), nil
}

func (s *Server) handleGestureEnd(ctx context.Context) (interface{}, error) {
	out, err := s.session.GestureEnd(ctx)
	if err != nil {
		return nil, err
	}
	return viewOutcome(out), nil
}

func (s *Server) handleGestureCancel() (interface{}, error) {
	if err := s.session.Cancel(); err != nil {
		return nil, err
	}
	return s.gestureState(), nil
}

// === Selection Handlers ===

func (s *Server) handleGetSelection() (interface{}, error) {
	active := s.scene.ActiveSelection()
	return map[string]interface{}{
		"selected": idsOf(active),
		"objects":  viewsOf(active),
		"gesture":  s.gestureState(),
	}, nil
}

func (s *Server) handleClearSelection() (interface{}, error) {
	s.scene.ClearActiveSelection()
	return map[string]interface{}{
		"selected": []string{},
	}, nil
}

// runGesture replays a complete drag through the session in the given mode,
// then restores the previous mode.
func (s *Server) runGesture(ctx context.Context, mode selection.Mode, path []geometry.Point) (*selection.Outcome, error) {
	if len(path) == 0 {
		return nil, errors.New("gesture needs at least one point")
	}

	prev := s.session.Mode()
	if err := s.session.SetMode(mode); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.session.SetMode(prev); err != nil {
			log.Printf("restore selection mode %s: %v", prev, err)
		}
	}()

	if err := s.session.GestureStart(path[0]); err != nil {
		return nil, err
	}
	for _, p := range path[1:] {
		if err := s.session.GestureMove(p); err != nil {
			_ = s.session.Cancel()
			return nil, err
		}
	}
	return s.session.GestureEnd(ctx)
}

func (s *Server) handleSelectRect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a boxArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r := a.rect()
	out, err := s.runGesture(ctx, selection.ModeRectangle, []geometry.Point{
		geometry.Pt(r.Left, r.Top),
		geometry.Pt(r.Right(), r.Bottom()),
	})
	if err != nil {
		return nil, err
	}
	return viewOutcome(out), nil
}

type selectLassoArgs struct {
	Points []pointArgs `json:"points"`
}

func (s *Server) handleSelectLasso(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a selectLassoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	path := make([]geometry.Point, 0, len(a.Points))
	for _, p := range a.Points {
		path = append(path, geometry.Pt(p.X, p.Y))
	}
	out, err := s.runGesture(ctx, selection.ModeLasso, path)
	if err != nil {
		return nil, err
	}
	return viewOutcome(out), nil
}

// === Region Operation Handlers ===

func (s *Server) handleCropRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a boxArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	obj, err := s.cropper.Crop(ctx, a.rect())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return map[string]interface{}{"cropped": nil}, nil
	}
	v := viewOf(obj)
	return map[string]interface{}{"cropped": v}, nil
}

func (s *Server) handleExportRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a boxArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := s.scene.ExportRegion(ctx, a.Left, a.Top, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	return imaging.NewRasterResult(data)
}

func (s *Server) handleRender(ctx context.Context) (interface{}, error) {
	data, err := s.scene.Render(ctx, s.overlay)
	if err != nil {
		return nil, err
	}
	return imaging.NewRasterResult(data)
}
