// ABOUTME: StitchReport is the advisory summary produced at job completion
// ABOUTME: Aggregates word totals and detected conflicts across all chunks
package models

import "time"

// CoherenceScore is the advisory verdict of the stitching phase
type CoherenceScore string

const (
	ScorePass        CoherenceScore = "pass"
	ScoreNeedsRepair CoherenceScore = "needs_repair"
)

// StitchReport is produced once per session after all chunks complete.
// It is advisory: a needs_repair score does not fail the session.
type StitchReport struct {
	SessionID      string         `json:"session_id"`
	TotalWords     int            `json:"total_words"`
	Conflicts      []string       `json:"conflicts"`
	CoherenceScore CoherenceScore `json:"coherence_score"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewStitchReport builds a report; the score is pass iff no conflicts
// were detected in any chunk.
func NewStitchReport(sessionID string, totalWords int, conflicts []string) *StitchReport {
	score := ScorePass
	if len(conflicts) > 0 {
		score = ScoreNeedsRepair
	}
	if conflicts == nil {
		conflicts = []string{}
	}
	return &StitchReport{
		SessionID:      sessionID,
		TotalWords:     totalWords,
		Conflicts:      conflicts,
		CoherenceScore: score,
		CreatedAt:      time.Now().UTC(),
	}
}
