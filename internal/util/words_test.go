// ABOUTME: Tests for word counting
// ABOUTME: Verifies whitespace tokenization edge cases

package util

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"single word", "thesis", 1},
		{"sentence", "The unexamined life is not worth living.", 7},
		{"multiline", "First line here.\n\nSecond line there.", 6},
		{"extra spacing", "  spaced   out   words  ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
