// ABOUTME: Typed source material retrieved per subject for grounding generation
// ABOUTME: Bundles are bounded and rendered as citation-coded digest lines
package models

import "fmt"

// ContentKind distinguishes the source material categories the library stores
type ContentKind string

const (
	KindPosition    ContentKind = "position"
	KindQuote       ContentKind = "quote"
	KindArgument    ContentKind = "argument"
	KindWorkExcerpt ContentKind = "work_excerpt"
)

// MaxExcerptChars caps how much of a work excerpt survives bounding.
// Excerpts are long-form passages; only the opening stretch is worth
// prompt space.
const MaxExcerptChars = 500

// CitationCode returns the single-letter prefix used in digest citations
func (k ContentKind) CitationCode() string {
	switch k {
	case KindPosition:
		return "P"
	case KindQuote:
		return "Q"
	case KindArgument:
		return "A"
	case KindWorkExcerpt:
		return "W"
	default:
		return "?"
	}
}

// ContentItem is one attributed piece of source material. Relevance is
// assigned at the retrieval boundary and only orders results; it never
// reaches a prompt.
type ContentItem struct {
	ID         string      `json:"id"`
	Kind       ContentKind `json:"kind"`
	AuthorName string      `json:"author_name"`
	Text       string      `json:"text"`
	Relevance  float64     `json:"relevance,omitempty"`
}

// ContentBundle groups retrieved items by kind, most relevant first
type ContentBundle struct {
	Positions    []ContentItem `json:"positions"`
	Quotes       []ContentItem `json:"quotes"`
	Arguments    []ContentItem `json:"arguments"`
	WorkExcerpts []ContentItem `json:"work_excerpts"`
}

// IsEmpty reports whether the bundle carries no material at all
func (b *ContentBundle) IsEmpty() bool {
	return len(b.Positions) == 0 && len(b.Quotes) == 0 &&
		len(b.Arguments) == 0 && len(b.WorkExcerpts) == 0
}

// Bound returns a copy capped per kind, with excerpt text clipped to
// MaxExcerptChars. The receiver is never mutated.
func (b *ContentBundle) Bound(maxPositions, maxQuotes, maxArguments, maxExcerpts int) *ContentBundle {
	bounded := &ContentBundle{
		Positions:    capItems(b.Positions, maxPositions),
		Quotes:       capItems(b.Quotes, maxQuotes),
		Arguments:    capItems(b.Arguments, maxArguments),
		WorkExcerpts: capItems(b.WorkExcerpts, maxExcerpts),
	}
	for i, item := range bounded.WorkExcerpts {
		runes := []rune(item.Text)
		if len(runes) > MaxExcerptChars {
			bounded.WorkExcerpts[i].Text = string(runes[:MaxExcerptChars])
		}
	}
	return bounded
}

// Digest renders the bundle as citation-coded lines, one item per line,
// numbered per kind so codes stay stable across prompts:
//
//	[P1] Kant: duty grounds morality
func (b *ContentBundle) Digest() []string {
	var lines []string
	appendKind := func(items []ContentItem) {
		for i, item := range items {
			lines = append(lines, fmt.Sprintf("[%s%d] %s: %s", item.Kind.CitationCode(), i+1, item.AuthorName, item.Text))
		}
	}
	appendKind(b.Positions)
	appendKind(b.Quotes)
	appendKind(b.Arguments)
	appendKind(b.WorkExcerpts)
	return lines
}

// capItems copies at most max items so callers can mutate the result freely
func capItems(items []ContentItem, max int) []ContentItem {
	if max < 0 {
		max = 0
	}
	if len(items) < max {
		max = len(items)
	}
	out := make([]ContentItem, max)
	copy(out, items[:max])
	return out
}
