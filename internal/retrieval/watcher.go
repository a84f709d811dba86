// ABOUTME: Watcher ingests source documents dropped into a folder
// ABOUTME: fsnotify events plus periodic rescans, with a single-flight scan guard
package retrieval

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher scans a folder for .json source documents and ingests them.
// A new scan never starts while one is running: the guard is an atomic
// flag, not a bare boolean.
type Watcher struct {
	library  *Library
	dir      string
	interval time.Duration
	scanning atomic.Bool
}

// NewWatcher creates a watcher over dir feeding the given library
func NewWatcher(library *Library, dir string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{
		library:  library,
		dir:      dir,
		interval: interval,
	}
}

// Run watches until the context is cancelled. One initial scan runs
// immediately; further scans are triggered by file events and the
// periodic ticker.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	w.Scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && strings.HasSuffix(event.Name, ".json") {
				w.Scan(ctx)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Watcher] watch error: %v", err)
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan ingests every .json document in the folder. Returns false when a
// scan was already in flight and this call did nothing.
func (w *Watcher) Scan(ctx context.Context) bool {
	if !w.scanning.CompareAndSwap(false, true) {
		return false
	}
	defer w.scanning.Store(false)

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Printf("[Watcher] failed to read %s: %v", w.dir, err)
		return true
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		n, err := w.library.IngestFile(ctx, path)
		if err != nil {
			log.Printf("[Watcher] failed to ingest %s: %v", path, err)
			continue
		}
		if n > 0 {
			log.Printf("[Watcher] ingested %d items from %s", n, entry.Name())
		}
	}
	return true
}
