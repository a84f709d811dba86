// ABOUTME: CLI command to ingest source documents into the library
// ABOUTME: One-shot file or directory ingest, or a folder watch loop
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/longform/internal/config"
	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/retrieval"
	"github.com/joho/godotenv"
)

var (
	ingestWatch    bool
	ingestInterval time.Duration
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file-or-directory]",
		Short: "Ingest source documents into the library",
		Long: `Ingest JSON source documents into the subject library. A document
carries a subject id, an author name, and a list of items (positions,
quotes, arguments, work excerpts).

With --watch the directory is monitored and new or changed documents
are ingested as they appear.

Examples:
  longform ingest sources/spinoza.json
  longform ingest sources/
  longform ingest sources/ --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestWatch, "watch", false, "Watch the directory and ingest continuously")
	cmd.Flags().DurationVar(&ingestInterval, "interval", 5*time.Minute, "Rescan interval while watching")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	path, err := libraryPath(cfg)
	if err != nil {
		return fmt.Errorf("resolving library path: %w", err)
	}
	library, err := retrieval.OpenLibrary(path)
	if err != nil {
		return fmt.Errorf("opening source library: %w", err)
	}
	defer library.Close()

	// Embeddings are optional at ingest; without a key the library
	// falls back to keyword relevance
	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClient(llm.Options{
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, cfg.OpenAIKey)
		if err == nil {
			library.SetEmbedder(client)
		}
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	if ingestWatch {
		if !info.IsDir() {
			return fmt.Errorf("--watch requires a directory, got %s", target)
		}
		watcher := retrieval.NewWatcher(library, target, ingestInterval)
		fmt.Fprintf(os.Stderr, "Watching %s for source documents (Ctrl-C to stop)\n", target)
		return watcher.Run(cmd.Context())
	}

	if !info.IsDir() {
		n, err := library.IngestFile(cmd.Context(), target)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d items from %s\n", n, target)
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(target, "*.json"))
	if err != nil {
		return err
	}
	total := 0
	for _, match := range matches {
		n, err := library.IngestFile(cmd.Context(), match)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", match, err)
			continue
		}
		total += n
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d items from %d documents\n", total, len(matches))
	return nil
}
