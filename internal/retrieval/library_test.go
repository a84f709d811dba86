// ABOUTME: Tests for the sqlite source library
// ABOUTME: Verifies ingestion idempotency, keyword search, and the fallback cascade

package retrieval

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/longform/internal/models"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := OpenLibrary(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("OpenLibrary() error = %v", err)
	}
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func writeSourceDoc(t *testing.T, dir string, doc SourceDocument) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, doc.SubjectID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func spinozaDoc() SourceDocument {
	doc := SourceDocument{SubjectID: "spinoza", AuthorName: "Spinoza"}
	doc.Items = []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}{
		{Kind: "position", Text: "Substance is that which is in itself and conceived through itself."},
		{Kind: "position", Text: "Freedom is acting from the necessity of one's own nature."},
		{Kind: "quote", Text: "All things excellent are as difficult as they are rare."},
		{Kind: "argument", Text: "There cannot be two substances with the same attribute."},
		{Kind: "work_excerpt", Text: "In the Ethics, the geometric method proceeds from definitions and axioms."},
		{Kind: "unknown_kind", Text: "should be skipped"},
	}
	return doc
}

func TestLibrary_IngestFile(t *testing.T) {
	lib := newTestLibrary(t)
	path := writeSourceDoc(t, t.TempDir(), spinozaDoc())

	n, err := lib.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	if n != 5 {
		t.Errorf("ingested %d items, want 5 (unknown kind skipped)", n)
	}

	// Re-ingesting the same file must not duplicate
	n2, err := lib.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("second IngestFile() error = %v", err)
	}
	if n2 != 5 {
		t.Errorf("re-ingest = %d items, want 5", n2)
	}

	bundle, err := lib.FetchContent(context.Background(), "spinoza", "", 20)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if len(bundle.Positions) != 2 {
		t.Errorf("positions = %d, want 2", len(bundle.Positions))
	}
	if len(bundle.Quotes) != 1 {
		t.Errorf("quotes = %d, want 1", len(bundle.Quotes))
	}
}

func TestLibrary_FetchContent_TopicSearch(t *testing.T) {
	lib := newTestLibrary(t)
	path := writeSourceDoc(t, t.TempDir(), spinozaDoc())
	if _, err := lib.IngestFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	bundle, err := lib.FetchContent(context.Background(), "spinoza", "freedom and necessity", 20)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}

	if len(bundle.Positions) == 0 {
		t.Fatal("topic search should match the freedom position")
	}
	// The matching position should rank first
	if got := bundle.Positions[0].Text; got != "Freedom is acting from the necessity of one's own nature." {
		t.Errorf("top position = %q, want the freedom position", got)
	}
	// Two keyword hits on the same item should raise its relevance above one
	if bundle.Positions[0].Relevance < 2.0 {
		t.Errorf("top relevance = %f, want >= 2 for a double keyword hit", bundle.Positions[0].Relevance)
	}
}

func TestLibrary_FetchContent_FallbackCascade(t *testing.T) {
	lib := newTestLibrary(t)
	path := writeSourceDoc(t, t.TempDir(), spinozaDoc())
	if _, err := lib.IngestFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	// A topic matching nothing still yields the subject's material
	bundle, err := lib.FetchContent(context.Background(), "spinoza", "zzz qqq xxx", 20)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if bundle.IsEmpty() {
		t.Error("fallback cascade should return author-wide material when the topic matches nothing")
	}
}

func TestLibrary_FetchContent_SubjectIsolation(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	if _, err := lib.IngestFile(context.Background(), writeSourceDoc(t, dir, spinozaDoc())); err != nil {
		t.Fatal(err)
	}

	bundle, err := lib.FetchContent(context.Background(), "kant", "substance", 20)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if !bundle.IsEmpty() {
		t.Error("fetching an unknown subject must not leak another subject's items")
	}
}

func TestLibrary_FetchContent_LimitPerKind(t *testing.T) {
	lib := newTestLibrary(t)
	doc := SourceDocument{SubjectID: "kant", AuthorName: "Kant"}
	for i := 0; i < 10; i++ {
		doc.Items = append(doc.Items, struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		}{Kind: "quote", Text: "A categorical quote about duty and reason."})
	}
	if _, err := lib.IngestFile(context.Background(), writeSourceDoc(t, t.TempDir(), doc)); err != nil {
		t.Fatal(err)
	}

	bundle, err := lib.FetchContent(context.Background(), "kant", "duty", 3)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if len(bundle.Quotes) != 3 {
		t.Errorf("quotes = %d, want limit 3", len(bundle.Quotes))
	}
}

func TestTopicKeywords(t *testing.T) {
	got := topicKeywords("On the Freedom of the Will!")
	want := map[string]bool{"the": true, "freedom": true, "will": true}
	if len(got) != 3 {
		t.Fatalf("topicKeywords() = %v, want 3 keywords", got)
	}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"mismatched length", []float64{1, 0}, []float64{1}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestContentBundle_TypesFromLibrary(t *testing.T) {
	lib := newTestLibrary(t)
	if _, err := lib.IngestFile(context.Background(), writeSourceDoc(t, t.TempDir(), spinozaDoc())); err != nil {
		t.Fatal(err)
	}

	bundle, err := lib.FetchContent(context.Background(), "spinoza", "", 20)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range bundle.Positions {
		if item.Kind != models.KindPosition {
			t.Errorf("position item has kind %v", item.Kind)
		}
		if item.AuthorName != "Spinoza" {
			t.Errorf("author = %q, want Spinoza", item.AuthorName)
		}
	}
}
