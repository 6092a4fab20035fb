package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/part-finder/internal/config"
	"github.com/ironsheep/part-finder/internal/server"
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
			fmt.Printf("parts-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("parts-mcp - MCP server for finding square parts in photographs")
			fmt.Println()
			fmt.Println("Usage: parts-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PARTS_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println("  PARTS_CONFIG=<file.json>     Load detection settings from a JSON file")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var logger *slog.Logger
	if os.Getenv("PARTS_LOG_LEVEL") == "debug" {
		log.Printf("Parts MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cfg, err := config.Load(os.Getenv("PARTS_CONFIG"))
	if err != nil {
		log.Printf("Config error, using defaults: %v", err)
	}
	if cfg.Debug && logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	server.Version = Version
	srv, err := server.New(cfg, logger)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
