// ABOUTME: Shared test doubles for the core package
// ABOUTME: Scriptable generation client and content fetcher, no network
package core

import (
	"context"
	"errors"
	"strings"

	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/models"
)

// mockClient scripts Complete and Stream per test
type mockClient struct {
	completeFn    func(ctx context.Context, system, user string, maxTokens int) (string, error)
	streamFn      func(ctx context.Context, system, user string, maxTokens int, handler llm.FragmentHandler) error
	completeCalls int
	streamCalls   int
}

func (m *mockClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	m.completeCalls++
	if m.completeFn == nil {
		return "", errors.New("no completeFn scripted")
	}
	return m.completeFn(ctx, system, user, maxTokens)
}

func (m *mockClient) Stream(ctx context.Context, system, user string, maxTokens int, handler llm.FragmentHandler) error {
	m.streamCalls++
	if m.streamFn == nil {
		return errors.New("no streamFn scripted")
	}
	return m.streamFn(ctx, system, user, maxTokens, handler)
}

func (m *mockClient) ModelID() string { return "mock" }

// fakeFetcher returns a fixed bundle or error
type fakeFetcher struct {
	bundle *models.ContentBundle
	err    error
	calls  int
}

func (f *fakeFetcher) FetchContent(ctx context.Context, subjectID, topic string, limitPerKind int) (*models.ContentBundle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

// skeletonJSON is a well-formed extraction response used across tests
const skeletonJSON = `{
  "thesis": "Freedom is rational self-determination",
  "outline": ["Origins", "Development", "Implications"],
  "key_terms": {"freedom": "acting from the necessity of one's own nature"},
  "commitments": ["The author affirms free will"]
}`

// wordsText produces text with exactly n words
func wordsText(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// testBundle is a small attributed source bundle
func testBundle() *models.ContentBundle {
	return &models.ContentBundle{
		Positions: []models.ContentItem{
			{ID: "p1", Kind: models.KindPosition, AuthorName: "Spinoza", Text: "Freedom is acting from the necessity of one's own nature."},
		},
		Quotes: []models.ContentItem{
			{ID: "q1", Kind: models.KindQuote, AuthorName: "Spinoza", Text: "The mind's highest good is the knowledge of God."},
		},
	}
}
