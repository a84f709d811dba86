// ABOUTME: Main entry point for the longform MCP server with stdio transport
// ABOUTME: Wires config, storage, library, and the orchestrator behind MCP tools
package main

import (
	"log"
	"os"

	"github.com/adrg/xdg"
	"github.com/harper/longform/internal/charm"
	"github.com/harper/longform/internal/config"
	"github.com/harper/longform/internal/core"
	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/mcp"
	"github.com/harper/longform/internal/retrieval"
	"github.com/harper/longform/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.OpenAIKey == "" && cfg.AnthropicKey == "" {
		log.Println("Warning: no OPENAI_API_KEY or ANTHROPIC_API_KEY set - generation will not work")
	}

	charmClient, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		log.Fatalf("Failed to initialize session storage: %v", err)
	}
	defer charmClient.Close()
	store := storage.NewCharmStore(charmClient)

	libraryPath := cfg.LibraryPath
	if libraryPath == "" {
		libraryPath, err = xdg.DataFile("longform/library.db")
		if err != nil {
			log.Fatalf("Failed to resolve library path: %v", err)
		}
	}
	library, err := retrieval.OpenLibrary(libraryPath)
	if err != nil {
		log.Fatalf("Failed to open source library: %v", err)
	}
	defer library.Close()

	client, err := llm.NewClient(llm.Options{
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, cfg.OpenAIKey, cfg.AnthropicKey)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}
	if oc, ok := client.(*llm.OpenAIClient); ok {
		library.SetEmbedder(oc)
	}

	orchestrator := core.NewOrchestrator(cfg, store, library, client)

	server := mcpserver.NewMCPServer(
		"Longform Coherence Orchestrator",
		"0.1.0",
	)
	mcp.RegisterTools(server, store, orchestrator, library)

	log.Println("Longform MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
