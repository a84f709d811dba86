// ABOUTME: Tests for the heuristic delta extractor
// ABOUTME: Covers determinism, claim capture, term matching, and the conflict tripwire
package core

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/harper/longform/internal/models"
)

func deltaSkeleton() *models.Skeleton {
	return &models.Skeleton{
		Thesis: "Freedom is rational self-determination",
		KeyTerms: map[string]string{
			"freedom":   "acting from one's own nature",
			"necessity": "that which cannot be otherwise",
		},
		Commitments: []string{"The author affirms free will"},
	}
}

func TestDeltaExtractor_Deterministic(t *testing.T) {
	e := NewDeltaExtractor()
	text := "Spinoza argues that Freedom requires necessity. The author denies free will."

	first := e.Extract(deltaSkeleton(), text)
	second := e.Extract(deltaSkeleton(), text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestDeltaExtractor_Claims(t *testing.T) {
	e := NewDeltaExtractor()
	text := "The sun rose. Spinoza argues that substance is one. " +
		"Descartes claims the mind is distinct. A bird sang."

	delta := e.Extract(deltaSkeleton(), text)

	if len(delta.ClaimsAdded) != 2 {
		t.Fatalf("claims = %v, want 2", delta.ClaimsAdded)
	}
	if !strings.Contains(delta.ClaimsAdded[0], "substance is one") {
		t.Errorf("first claim = %q", delta.ClaimsAdded[0])
	}
}

func TestDeltaExtractor_ClaimsCappedAndTruncated(t *testing.T) {
	e := NewDeltaExtractor()
	long := "Spinoza argues that " + strings.Repeat("x", 300) + "."
	text := long + " " + strings.Repeat("He claims this. ", 10)

	delta := e.Extract(deltaSkeleton(), text)

	if len(delta.ClaimsAdded) != maxClaims {
		t.Errorf("claims = %d, want %d", len(delta.ClaimsAdded), maxClaims)
	}
	for _, claim := range delta.ClaimsAdded {
		if len(claim) > maxClaimChars+3 {
			t.Errorf("claim not truncated: %d chars", len(claim))
		}
	}
}

func TestDeltaExtractor_TruncationKeepsValidUTF8(t *testing.T) {
	e := NewDeltaExtractor()
	// A multi-byte rune straddles the truncation boundary; the claim
	// flows into later prompts and persisted JSON, so it must stay
	// valid UTF-8
	long := "Spinoza argues that " + strings.Repeat("ü", 300) + "."

	delta := e.Extract(deltaSkeleton(), long)

	if len(delta.ClaimsAdded) != 1 {
		t.Fatalf("claims = %v, want 1", delta.ClaimsAdded)
	}
	claim := delta.ClaimsAdded[0]
	if !utf8.ValidString(claim) {
		t.Errorf("truncated claim is not valid UTF-8: %q", claim)
	}
	if got := len([]rune(claim)); got != maxClaimChars+3 {
		t.Errorf("claim = %d runes, want %d plus ellipsis", got, maxClaimChars)
	}
}

func TestDeltaExtractor_TermsCaseInsensitive(t *testing.T) {
	e := NewDeltaExtractor()
	delta := e.Extract(deltaSkeleton(), "FREEDOM is the theme here, nothing else.")

	if !reflect.DeepEqual(delta.TermsUsed, []string{"freedom"}) {
		t.Errorf("terms = %v, want [freedom]", delta.TermsUsed)
	}
}

func TestDeltaExtractor_ConflictOnNegatedCommitment(t *testing.T) {
	e := NewDeltaExtractor()
	text := "In this section the author denies free will outright."

	delta := e.Extract(deltaSkeleton(), text)

	if len(delta.ConflictsDetected) != 1 {
		t.Fatalf("conflicts = %v, want 1", delta.ConflictsDetected)
	}
	if !strings.Contains(delta.ConflictsDetected[0], "The author affirms free will") {
		t.Errorf("conflict must name the commitment, got %q", delta.ConflictsDetected[0])
	}
}

func TestDeltaExtractor_NoConflictOnConsistentText(t *testing.T) {
	e := NewDeltaExtractor()
	text := "The author affirms free will and develops the point at length."

	delta := e.Extract(deltaSkeleton(), text)

	if len(delta.ConflictsDetected) != 0 {
		t.Errorf("conflicts = %v, want none", delta.ConflictsDetected)
	}
}

func TestDeltaExtractor_IsNotSwap(t *testing.T) {
	e := NewDeltaExtractor()
	sk := &models.Skeleton{Commitments: []string{"Substance is infinite"}}

	delta := e.Extract(sk, "Some hold that substance is not infinite, but they err.")

	if len(delta.ConflictsDetected) != 1 {
		t.Errorf("conflicts = %v, want 1", delta.ConflictsDetected)
	}
}
