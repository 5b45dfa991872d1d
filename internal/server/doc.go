// Package server implements the MCP (Model Context Protocol) server that
// drives a marquee-selection canvas.
//
// The server owns one canvas: a scene of objects, an optional background
// image, a gesture session and a crop operator. Tool calls play the role of
// the editor host, forwarding pointer events into the session and reading
// back the resulting selection.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Scene:
//   - canvas_set_background: Load the background image
//   - canvas_add_object, canvas_update_object, canvas_remove_object
//   - canvas_list_objects: Objects in z-order with bounding boxes
//
// Gestures:
//   - canvas_set_mode: rectangle, lasso or crop
//   - canvas_gesture_start, canvas_gesture_move, canvas_gesture_end
//   - canvas_gesture_cancel: Abandon the marquee
//
// Selection:
//   - canvas_get_selection, canvas_clear_selection
//   - canvas_select_rect, canvas_select_lasso: One-call drags
//
// Region Operations:
//   - canvas_crop_region: Background region to a new image object
//   - canvas_export_region: Background region as PNG
//   - canvas_render: Preview of the whole canvas
//
// # Gesture Serialization
//
// A gesture that is still being drawn or resolved rejects a new
// canvas_gesture_start, canvas_set_mode or one-call drag with an error. The
// crop operator rejects a second crop while one is pending.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
