// Package config reads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/canvas-select-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel     = "CANVAS_MCP_LOG_LEVEL"
	EnvCanvasWidth  = "CANVAS_MCP_CANVAS_WIDTH"
	EnvCanvasHeight = "CANVAS_MCP_CANVAS_HEIGHT"
	EnvOverlayColor = "CANVAS_MCP_OVERLAY_COLOR"
	EnvOverlayAlpha = "CANVAS_MCP_OVERLAY_ALPHA"
)

// MaxCanvasSize bounds each canvas dimension. Render allocates a raster of
// the full canvas, so larger values are rejected.
const MaxCanvasSize = 16384

// Config holds the server settings.
type Config struct {
	LogLevel     string  // "debug" enables diagnostics on stderr
	CanvasWidth  float64 // canvas size in canvas units
	CanvasHeight float64
	OverlayColor string  // marquee tint, "#RRGGBB"
	OverlayAlpha float64 // marquee opacity, 0-1
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		CanvasWidth:  1080,
		CanvasHeight: 1080,
		OverlayColor: "#3B82F6",
		OverlayAlpha: 0.25,
	}
}

// Load builds a configuration from defaults overridden by environment
// variables, then validates it. Unparseable values fall back to defaults.
func Load() *Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) *Config {
	cfg := Default()

	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, err := strconv.ParseFloat(getenv(EnvCanvasWidth), 64); err == nil {
		cfg.CanvasWidth = v
	}
	if v, err := strconv.ParseFloat(getenv(EnvCanvasHeight), 64); err == nil {
		cfg.CanvasHeight = v
	}
	if v := getenv(EnvOverlayColor); v != "" {
		cfg.OverlayColor = v
	}
	if v, err := strconv.ParseFloat(getenv(EnvOverlayAlpha), 64); err == nil {
		cfg.OverlayAlpha = v
	}

	cfg.Validate()
	return cfg
}

// Validate replaces out-of-range values with their defaults. Canvas
// dimensions must lie in (0, MaxCanvasSize].
func (c *Config) Validate() {
	defaults := Default()

	if !validSize(c.CanvasWidth) {
		c.CanvasWidth = defaults.CanvasWidth
	}
	if !validSize(c.CanvasHeight) {
		c.CanvasHeight = defaults.CanvasHeight
	}
	if _, err := imaging.ParseColor(c.OverlayColor); err != nil {
		c.OverlayColor = defaults.OverlayColor
	}
	if !(c.OverlayAlpha >= 0 && c.OverlayAlpha <= 1) {
		c.OverlayAlpha = defaults.OverlayAlpha
	}
}

// validSize is false for NaN as well as out-of-range values.
func validSize(v float64) bool {
	return v > 0 && v <= MaxCanvasSize
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
