package main

import (
	"fmt"
	"log"
	"os"

	"github.com/stickertools/sheet-split-mcp/internal/config"
	"github.com/stickertools/sheet-split-mcp/internal/server"
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
			fmt.Printf("sheet-split-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("sheet-split-mcp - MCP server for splitting sticker-sheet images")
			fmt.Println()
			fmt.Println("Usage: sheet-split-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SHEET_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  SHEET_MCP_CONFIG=path        Optional YAML config file")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("SHEET_MCP_CONFIG"))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logLevel := os.Getenv("SHEET_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Sheet Split MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
