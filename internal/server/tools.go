package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// boxProperties describes a left/top/width/height rectangle in canvas units.
func boxProperties() map[string]interface{} {
	return map[string]interface{}{
		"left":   numberProp("Left edge in canvas units"),
		"top":    numberProp("Top edge in canvas units"),
		"width":  numberProp("Width in canvas units (negative values are normalized)"),
		"height": numberProp("Height in canvas units (negative values are normalized)"),
	}
}

func styleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Visual properties. Fill and stroke are hex colors like #FF0000.",
		"properties": map[string]interface{}{
			"fill":         stringProp("Fill color"),
			"stroke":       stringProp("Stroke color"),
			"stroke_width": numberProp("Stroke width"),
			"text":         stringProp("Text content (text objects)"),
			"font_size":    numberProp("Font size (text objects)"),
		},
	}
}

func pointSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": numberProp("X in canvas units"),
			"y": numberProp("Y in canvas units"),
		},
		"required": []string{"x", "y"},
	}
}

func noArgs() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	objectProps := boxProperties()
	objectProps["kind"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"rect", "ellipse", "text", "image", "group"},
		"description": "Object kind",
	}
	objectProps["style"] = styleSchema()
	objectProps["path"] = stringProp("Absolute path to the raster of an image object")
	objectProps["children"] = map[string]interface{}{
		"type":        "array",
		"description": "Members of a group object, same shape as this object",
		"items":       map[string]interface{}{"type": "object"},
	}

	backgroundProps := boxProperties()
	backgroundProps["path"] = stringProp("Absolute path to the background image file")

	return []Tool{
		// Scene
		{
			Name:        "canvas_set_background",
			Description: "Load an image file as the canvas background. The image is displayed at the given box; omit width/height to use its pixel size. Crop and export operate on this image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": backgroundProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "canvas_add_object",
			Description: "Add an object to the top of the canvas. Returns the object with its assigned id.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": objectProps,
				"required":   []string{"kind"},
			},
		},
		{
			Name:        "canvas_update_object",
			Description: "Move an object and/or change its style. Only the style fields given are changed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":    stringProp("Object id"),
					"dx":    numberProp("Horizontal offset to move by"),
					"dy":    numberProp("Vertical offset to move by"),
					"style": styleSchema(),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "canvas_remove_object",
			Description: "Remove an object from the canvas and from the active selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": stringProp("Object id"),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "canvas_list_objects",
			Description: "List the canvas objects bottom to top with their bounding boxes, plus the background and active selection.",
			InputSchema: noArgs(),
		},

		// Gestures
		{
			Name:        "canvas_set_mode",
			Description: "Choose the selection tool used by the next gesture: rectangle, lasso or crop. Fails while a gesture is in progress.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rectangle", "lasso", "crop"},
						"description": "Selection mode",
					},
				},
				"required": []string{"mode"},
			},
		},
		{
			Name:        "canvas_gesture_start",
			Description: "Pointer down: start a marquee at (x, y) in the current mode.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": numberProp("X in canvas units"),
					"y": numberProp("Y in canvas units"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "canvas_gesture_move",
			Description: "Pointer move: stretch the rectangle to (x, y), or append (x, y) to the lasso path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": numberProp("X in canvas units"),
					"y": numberProp("Y in canvas units"),
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "canvas_gesture_end",
			Description: "Pointer up: resolve the marquee. Rectangle and lasso modes replace the active selection; crop mode adds a cropped image object.",
			InputSchema: noArgs(),
		},
		{
			Name:        "canvas_gesture_cancel",
			Description: "Abandon the marquee being drawn without resolving it.",
			InputSchema: noArgs(),
		},

		// Selection
		{
			Name:        "canvas_get_selection",
			Description: "Return the active selection and the gesture state.",
			InputSchema: noArgs(),
		},
		{
			Name:        "canvas_clear_selection",
			Description: "Clear the active selection.",
			InputSchema: noArgs(),
		},
		{
			Name:        "canvas_select_rect",
			Description: "Select every object whose bounding box touches the rectangle. Equivalent to a full rectangle drag.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": boxProperties(),
				"required":   []string{"left", "top", "width", "height"},
			},
		},
		{
			Name:        "canvas_select_lasso",
			Description: "Select every object with a bounding-box corner inside the closed polygon. Equivalent to a full lasso drag.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Lasso path in drawing order; the polygon is closed implicitly",
						"items":       pointSchema("Lasso vertex"),
					},
				},
				"required": []string{"points"},
			},
		},

		// Region operations
		{
			Name:        "canvas_crop_region",
			Description: "Cut the background under the rectangle into a new image object placed at the same position.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": boxProperties(),
				"required":   []string{"left", "top", "width", "height"},
			},
		},
		{
			Name:        "canvas_export_region",
			Description: "Export a region of the background as base64-encoded PNG. Coordinates are relative to the background's top-left corner.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": boxProperties(),
				"required":   []string{"left", "top", "width", "height"},
			},
		},
		{
			Name:        "canvas_render",
			Description: "Render a preview of the canvas, including the marquee overlay while a gesture is drawn, as base64-encoded PNG.",
			InputSchema: noArgs(),
		},
	}
}
