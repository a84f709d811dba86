// ABOUTME: Tests for StitchReport scoring
// ABOUTME: Verifies pass iff aggregate conflicts are empty

package models

import "testing"

func TestNewStitchReport_Score(t *testing.T) {
	tests := []struct {
		name      string
		conflicts []string
		want      CoherenceScore
	}{
		{"no conflicts", nil, ScorePass},
		{"empty slice", []string{}, ScorePass},
		{"one conflict", []string{"chunk 2 contradicts commitment 1"}, ScoreNeedsRepair},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStitchReport("session_x", 1850, tt.conflicts)
			if r.CoherenceScore != tt.want {
				t.Errorf("score = %v, want %v", r.CoherenceScore, tt.want)
			}
			if r.Conflicts == nil {
				t.Error("conflicts should never be nil in a report")
			}
			if r.TotalWords != 1850 {
				t.Errorf("total words = %d, want 1850", r.TotalWords)
			}
		})
	}
}
