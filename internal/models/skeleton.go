// ABOUTME: Skeleton is the structural contract every chunk must honor
// ABOUTME: Extracted once per session; falls back to a default shape, never fails
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultOutline is the fallback structure used when extraction cannot
// produce a usable skeleton
var DefaultOutline = []string{"Introduction", "Main Analysis", "Conclusion"}

// Skeleton is the structural contract for one generation job. Thesis and
// commitments are restated verbatim in every chunk prompt; the source
// digest is the citation-coded material the text grounds itself in.
type Skeleton struct {
	Thesis       string            `json:"thesis"`
	Outline      []string          `json:"outline"`
	KeyTerms     map[string]string `json:"key_terms"`
	Commitments  []string          `json:"commitments"`
	SourceDigest []string          `json:"source_digest"`
}

// DefaultSkeleton builds the fallback skeleton: the user's prompt stands
// in for the thesis, the outline is the default three sections, and the
// source digest is carried through untouched. Structure degrades; source
// grounding does not.
func DefaultSkeleton(userPrompt string, sourceDigest []string) *Skeleton {
	outline := make([]string, len(DefaultOutline))
	copy(outline, DefaultOutline)
	return &Skeleton{
		Thesis:       userPrompt,
		Outline:      outline,
		KeyTerms:     map[string]string{},
		Commitments:  []string{},
		SourceDigest: sourceDigest,
	}
}

// SectionLabel returns the outline entry for a chunk index, synthesizing
// "Part N" when the plan outruns the outline
func (s *Skeleton) SectionLabel(index int) string {
	if index >= 0 && index < len(s.Outline) {
		return s.Outline[index]
	}
	return "Part " + strconv.Itoa(index+1)
}

// Summary renders a one-line description for progress events and logs
func (s *Skeleton) Summary() string {
	return fmt.Sprintf("thesis: %s | sections: %s | commitments: %d",
		s.Thesis, strings.Join(s.Outline, ", "), len(s.Commitments))
}
