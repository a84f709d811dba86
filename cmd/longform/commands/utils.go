// ABOUTME: Shared wiring and formatting helpers for CLI commands
// ABOUTME: Consolidates stack construction used by generate, resume, and serve
package commands

import (
	"fmt"
	"time"

	"github.com/adrg/xdg"
	"github.com/harper/longform/internal/charm"
	"github.com/harper/longform/internal/config"
	"github.com/harper/longform/internal/core"
	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/retrieval"
	"github.com/harper/longform/internal/storage"
	"github.com/joho/godotenv"
)

// stack bundles the wired collaborators a generation command needs
type stack struct {
	cfg          *config.Config
	store        storage.SessionStore
	library      *retrieval.Library
	orchestrator *core.Orchestrator

	charmClient *charm.Client
}

// close releases the stack's resources
func (s *stack) close() {
	if s.library != nil {
		s.library.Close()
	}
	if s.charmClient != nil {
		s.charmClient.Close()
	}
}

// openStore wires config and the charm-backed session store
func openStore() (*config.Config, *charm.Client, storage.SessionStore, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing session storage: %w", err)
	}
	return cfg, client, storage.NewCharmStore(client), nil
}

// libraryPath resolves the source library location, defaulting to the
// XDG data directory
func libraryPath(cfg *config.Config) (string, error) {
	if cfg.LibraryPath != "" {
		return cfg.LibraryPath, nil
	}
	return xdg.DataFile("longform/library.db")
}

// buildStack wires the full generation stack
func buildStack() (*stack, error) {
	cfg, charmClient, store, err := openStore()
	if err != nil {
		return nil, err
	}

	path, err := libraryPath(cfg)
	if err != nil {
		charmClient.Close()
		return nil, fmt.Errorf("resolving library path: %w", err)
	}
	library, err := retrieval.OpenLibrary(path)
	if err != nil {
		charmClient.Close()
		return nil, fmt.Errorf("opening source library: %w", err)
	}

	client, err := llm.NewClient(llm.Options{
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}, cfg.OpenAIKey, cfg.AnthropicKey)
	if err != nil {
		library.Close()
		charmClient.Close()
		return nil, fmt.Errorf("initializing generation client: %w", err)
	}
	if oc, ok := client.(*llm.OpenAIClient); ok {
		library.SetEmbedder(oc)
	}

	return &stack{
		cfg:          cfg,
		store:        store,
		library:      library,
		orchestrator: core.NewOrchestrator(cfg, store, library, client),
		charmClient:  charmClient,
	}, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
