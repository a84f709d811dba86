// ABOUTME: Tests for Skeleton fallback shape and section labeling
// ABOUTME: Verifies the default 3-part outline and synthesized Part N labels

package models

import "testing"

func TestDefaultSkeleton_Shape(t *testing.T) {
	digest := []string{"[P1] Kant: duty grounds morality"}
	sk := DefaultSkeleton("Write on the categorical imperative", digest)

	wantOutline := []string{"Introduction", "Main Analysis", "Conclusion"}
	if len(sk.Outline) != len(wantOutline) {
		t.Fatalf("outline = %v, want %v", sk.Outline, wantOutline)
	}
	for i, section := range wantOutline {
		if sk.Outline[i] != section {
			t.Errorf("outline[%d] = %q, want %q", i, sk.Outline[i], section)
		}
	}
	if len(sk.Commitments) != 0 {
		t.Errorf("commitments = %v, want empty", sk.Commitments)
	}
	if len(sk.SourceDigest) != 1 || sk.SourceDigest[0] != digest[0] {
		t.Error("default skeleton must carry the source digest intact")
	}
}

func TestDefaultSkeleton_OutlineIsCopy(t *testing.T) {
	sk := DefaultSkeleton("prompt", nil)
	sk.Outline[0] = "mutated"
	if DefaultOutline[0] != "Introduction" {
		t.Error("mutating a skeleton outline must not affect DefaultOutline")
	}
}

func TestSkeleton_SectionLabel(t *testing.T) {
	sk := &Skeleton{Outline: []string{"Origins", "Arguments"}}

	tests := []struct {
		index int
		want  string
	}{
		{0, "Origins"},
		{1, "Arguments"},
		{2, "Part 3"},
		{5, "Part 6"},
	}
	for _, tt := range tests {
		if got := sk.SectionLabel(tt.index); got != tt.want {
			t.Errorf("SectionLabel(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}
