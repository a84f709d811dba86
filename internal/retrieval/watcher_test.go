// ABOUTME: Tests for the ingestion folder watcher
// ABOUTME: Verifies scanning ingests documents and the single-flight guard holds

package retrieval

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWatcher_ScanIngestsDocuments(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	writeSourceDoc(t, dir, spinozaDoc())

	w := NewWatcher(lib, dir, time.Minute)
	if !w.Scan(context.Background()) {
		t.Fatal("Scan() should run when no scan is in flight")
	}

	bundle, err := lib.FetchContent(context.Background(), "spinoza", "", 20)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if bundle.IsEmpty() {
		t.Error("scan should have ingested the dropped document")
	}
}

func TestWatcher_ScanIgnoresNonJSON(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()

	w := NewWatcher(lib, dir, time.Minute)
	if !w.Scan(context.Background()) {
		t.Fatal("Scan() should run on an empty folder")
	}

	bundle, err := lib.FetchContent(context.Background(), "anyone", "", 20)
	if err != nil {
		t.Fatal(err)
	}
	if !bundle.IsEmpty() {
		t.Error("nothing should be ingested from an empty folder")
	}
}

func TestWatcher_SingleFlight(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()

	// Many documents so a scan takes measurable time
	for i := 0; i < 20; i++ {
		doc := spinozaDoc()
		doc.SubjectID = doc.SubjectID + "_" + string(rune('a'+i))
		writeSourceDoc(t, dir, doc)
	}

	w := NewWatcher(lib, dir, time.Minute)

	// Hold the guard manually; concurrent Scan calls must bail out
	if !w.scanning.CompareAndSwap(false, true) {
		t.Fatal("guard should start clear")
	}

	var wg sync.WaitGroup
	refused := 0
	var mu sync.Mutex
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !w.Scan(context.Background()) {
				mu.Lock()
				refused++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if refused != 8 {
		t.Errorf("refused = %d, want all 8 while a scan is in flight", refused)
	}

	w.scanning.Store(false)
	if !w.Scan(context.Background()) {
		t.Error("Scan() should run again once the guard clears")
	}
}
