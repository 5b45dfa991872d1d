package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/canvas-select-mcp/internal/config"
	"github.com/ironsheep/canvas-select-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("canvas-select-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("canvas-select-mcp - MCP server for canvas marquee selection")
			fmt.Println()
			fmt.Println("Usage: canvas-select-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug         Enable debug logging\n", config.EnvLogLevel)
			fmt.Printf("  %s=1080       Canvas width in canvas units\n", config.EnvCanvasWidth)
			fmt.Printf("  %s=1080      Canvas height in canvas units\n", config.EnvCanvasHeight)
			fmt.Printf("  %s=#3B82F6   Marquee overlay color\n", config.EnvOverlayColor)
			fmt.Printf("  %s=0.25      Marquee overlay opacity (0-1)\n", config.EnvOverlayAlpha)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.Load()
	if cfg.Debug() {
		log.Printf("Canvas MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Canvas %vx%v, overlay %s at %.2f", cfg.CanvasWidth, cfg.CanvasHeight, cfg.OverlayColor, cfg.OverlayAlpha)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
