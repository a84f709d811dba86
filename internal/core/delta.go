// ABOUTME: DeltaExtractor summarizes a chunk into claims, terms, and conflicts
// ABOUTME: Pure text heuristics only, no model calls, so extraction is deterministic
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harper/longform/internal/models"
)

const (
	maxClaims     = 5
	maxClaimChars = 160
)

// claimVerbs mark a sentence as asserting something worth carrying forward
var claimVerbs = []string{
	"argues", "claims", "asserts", "maintains", "contends",
	"holds", "affirms", "denies", "rejects", "demonstrates",
	"establishes", "follows that", "must be", "cannot be",
}

// negationPairs drive the conflict tripwire: swapping one side for the
// other inside a commitment yields the statement that contradicts it
var negationPairs = [][2]string{
	{"affirms", "denies"},
	{"affirm", "deny"},
	{"accepts", "rejects"},
	{"accept", "reject"},
	{"supports", "opposes"},
	{"support", "oppose"},
	{" is not ", " is "},
	{" are not ", " are "},
}

// DeltaExtractor derives a chunk's delta from its text alone
type DeltaExtractor struct{}

func NewDeltaExtractor() *DeltaExtractor {
	return &DeltaExtractor{}
}

// Extract computes the delta for one chunk. Identical inputs always
// produce identical deltas.
func (e *DeltaExtractor) Extract(skeleton *models.Skeleton, chunkText string) models.Delta {
	return models.Delta{
		ClaimsAdded:       extractClaims(chunkText),
		TermsUsed:         extractTerms(skeleton, chunkText),
		ConflictsDetected: detectConflicts(skeleton, chunkText),
	}
}

// extractClaims keeps the first few sentences containing a claim verb
func extractClaims(text string) []string {
	claims := []string{}
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, verb := range claimVerbs {
			if strings.Contains(lower, verb) {
				claims = append(claims, truncateClaim(sentence))
				break
			}
		}
		if len(claims) >= maxClaims {
			break
		}
	}
	return claims
}

// extractTerms reports which skeleton key terms the chunk actually uses
func extractTerms(skeleton *models.Skeleton, text string) []string {
	lower := strings.ToLower(text)
	terms := []string{}
	for name := range skeleton.KeyTerms {
		if strings.Contains(lower, strings.ToLower(name)) {
			terms = append(terms, name)
		}
	}
	// map iteration order is random; keep output stable
	sort.Strings(terms)
	return terms
}

// detectConflicts checks each commitment's verb-swapped negation against
// the chunk. Substring matching over normalized text, so this is a
// tripwire for blatant reversals, not an entailment check.
func detectConflicts(skeleton *models.Skeleton, text string) []string {
	lower := strings.ToLower(text)
	conflicts := []string{}
	for _, commitment := range skeleton.Commitments {
		for _, negated := range negateCommitment(commitment) {
			if strings.Contains(lower, negated) {
				conflicts = append(conflicts, fmt.Sprintf("chunk contradicts commitment %q", commitment))
				break
			}
		}
	}
	return conflicts
}

// negateCommitment produces candidate negations by swapping each verb
// pair in either direction
func negateCommitment(commitment string) []string {
	lower := strings.ToLower(commitment)
	var negations []string
	for _, pair := range negationPairs {
		if strings.Contains(lower, pair[0]) {
			negations = append(negations, strings.Replace(lower, pair[0], pair[1], 1))
		}
		if strings.Contains(lower, pair[1]) {
			negations = append(negations, strings.Replace(lower, pair[1], pair[0], 1))
		}
	}
	return negations
}

func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func truncateClaim(s string) string {
	runes := []rune(s)
	if len(runes) <= maxClaimChars {
		return s
	}
	return string(runes[:maxClaimChars]) + "..."
}
