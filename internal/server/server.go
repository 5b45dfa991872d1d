package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/ironsheep/canvas-select-mcp/internal/config"
	"github.com/ironsheep/canvas-select-mcp/internal/crop"
	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
	"github.com/ironsheep/canvas-select-mcp/internal/scene"
	"github.com/ironsheep/canvas-select-mcp/internal/selection"
)

// Server handles MCP protocol communication
type Server struct {
	cfg     *config.Config
	cache   *imaging.ImageCache
	scene   *scene.Scene
	cropper *crop.Operator
	session *selection.Session
	overlay color.RGBA
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with an empty canvas sized from cfg. A nil cfg uses
// config.Default.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	sc := scene.New(cfg.CanvasWidth, cfg.CanvasHeight)
	cropper := crop.New(sc, sc)

	opts := []selection.Option{selection.WithCropper(cropper)}
	if cfg.Debug() {
		logger := log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
		sc.SetLogger(logger)
		cropper.SetLogger(logger)
		opts = append(opts, selection.WithLogger(logger))
	}
	session := selection.NewSession(sc, opts...)
	if cfg.Debug() {
		session.AddListener(func(prev, next selection.State) {
			log.Printf("selection state %s -> %s", prev, next)
		})
	}

	tint, err := imaging.ParseColor(cfg.OverlayColor)
	if err != nil {
		tint, _ = imaging.ParseColor(config.Default().OverlayColor)
	}

	return &Server{
		cfg:     cfg,
		cache:   imaging.NewImageCache(),
		scene:   sc,
		cropper: cropper,
		session: session,
		overlay: imaging.WithAlpha(tint, cfg.OverlayAlpha),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited JSON-RPC requests from r until EOF,
// writing responses to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "canvas-select-mcp",
				"version": "0.1.0",
			},
		},
	}
}

// handleToolsList returns the tool table
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
