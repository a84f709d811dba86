// ABOUTME: SkeletonExtractor derives the structural contract for one job
// ABOUTME: One LLM call for a JSON summary; degrades to a default skeleton on failure
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/models"
)

// SourceBounds caps how much material per kind feeds the extraction prompt
type SourceBounds struct {
	MaxPositions int
	MaxQuotes    int
	MaxArguments int
	MaxExcerpts  int
}

// DefaultSourceBounds caps the material fed to the extraction prompt
var DefaultSourceBounds = SourceBounds{
	MaxPositions: 20,
	MaxQuotes:    20,
	MaxArguments: 10,
	MaxExcerpts:  5,
}

// SkeletonExtractor turns a request plus bounded source material into a Skeleton
type SkeletonExtractor struct {
	client llm.Client
	bounds SourceBounds
}

// NewSkeletonExtractor creates an extractor over an injected generation client
func NewSkeletonExtractor(client llm.Client, bounds SourceBounds) *SkeletonExtractor {
	if bounds.MaxPositions == 0 && bounds.MaxQuotes == 0 && bounds.MaxArguments == 0 && bounds.MaxExcerpts == 0 {
		bounds = DefaultSourceBounds
	}
	return &SkeletonExtractor{client: client, bounds: bounds}
}

const skeletonSystemPrompt = `You are a structural planner for long philosophical texts.
Given a writing request and source material, produce the structural contract the text must follow.

Return ONLY a JSON object with these fields:
1. thesis: the central claim of the text (string)
2. outline: ordered section labels covering the whole text (array of strings)
3. key_terms: technical terms mapped to their working definitions (object of string to string)
4. commitments: assertions the author must not contradict anywhere in the text (array of strings)

No additional text.`

// Extract derives the skeleton for one job. It never fails: on any
// transport or parse error it falls back to the default three-section
// skeleton, keeping the source digest intact. Losing structure is
// acceptable; losing source grounding is not.
func (e *SkeletonExtractor) Extract(ctx context.Context, userPrompt, subjectLabel string, bundle *models.ContentBundle) *models.Skeleton {
	bounded := bundle.Bound(e.bounds.MaxPositions, e.bounds.MaxQuotes, e.bounds.MaxArguments, e.bounds.MaxExcerpts)
	digest := bounded.Digest()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Request: %s\n", userPrompt)
	fmt.Fprintf(&sb, "Author to write as: %s\n\n", subjectLabel)
	if len(digest) > 0 {
		sb.WriteString("Source material:\n")
		for _, line := range digest {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	content, err := e.client.Complete(ctx, skeletonSystemPrompt, sb.String(), 2048)
	if err != nil {
		log.Printf("[SkeletonExtractor] extraction call failed, using default skeleton: %v", err)
		return models.DefaultSkeleton(userPrompt, digest)
	}

	parsed := struct {
		Thesis      string            `json:"thesis"`
		Outline     []string          `json:"outline"`
		KeyTerms    map[string]string `json:"key_terms"`
		Commitments []string          `json:"commitments"`
	}{}
	raw := firstJSONObject(content)
	if raw == "" || json.Unmarshal([]byte(raw), &parsed) != nil {
		log.Printf("[SkeletonExtractor] unparseable extraction output, using default skeleton")
		return models.DefaultSkeleton(userPrompt, digest)
	}
	if parsed.Thesis == "" || len(parsed.Outline) == 0 {
		log.Printf("[SkeletonExtractor] incomplete extraction output, using default skeleton")
		return models.DefaultSkeleton(userPrompt, digest)
	}

	if parsed.KeyTerms == nil {
		parsed.KeyTerms = map[string]string{}
	}
	if parsed.Commitments == nil {
		parsed.Commitments = []string{}
	}
	return &models.Skeleton{
		Thesis:       parsed.Thesis,
		Outline:      parsed.Outline,
		KeyTerms:     parsed.KeyTerms,
		Commitments:  parsed.Commitments,
		SourceDigest: digest,
	}
}

// firstJSONObject returns the first balanced {...} in s, or ""
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
