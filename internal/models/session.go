// ABOUTME: Session is the durable record of one end-to-end generation job
// ABOUTME: Mutated only by the orchestrator; the unit of resume and audit
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionKind distinguishes the generation formats the platform supports
type SessionKind string

const (
	KindChat      SessionKind = "chat"
	KindDebate    SessionKind = "debate"
	KindInterview SessionKind = "interview"
	KindDialogue  SessionKind = "dialogue"
	KindDocument  SessionKind = "document"
)

// SessionStatus tracks the orchestrator state machine.
// pending → skeleton → chunking → stitching → complete | failed
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusSkeleton  SessionStatus = "skeleton"
	StatusChunking  SessionStatus = "chunking"
	StatusStitching SessionStatus = "stitching"
	StatusComplete  SessionStatus = "complete"
	StatusFailed    SessionStatus = "failed"
)

// Session records one generation job from request to finished document
type Session struct {
	ID           string        `json:"id"`
	Kind         SessionKind   `json:"kind"`
	SubjectID    string        `json:"subject_id"`
	SubjectLabel string        `json:"subject_label"`
	UserPrompt   string        `json:"user_prompt"`
	Skeleton     *Skeleton     `json:"skeleton,omitempty"`
	TargetWords  int           `json:"target_words"`
	ActualWords  int           `json:"actual_words"`
	Chunks       []ChunkRecord `json:"chunks"`
	Status       SessionStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewSession creates a pending session with validation
func NewSession(kind SessionKind, subjectID, subjectLabel, userPrompt string, targetWords int) (*Session, error) {
	if userPrompt == "" {
		return nil, errors.New("user prompt cannot be empty")
	}
	if targetWords <= 0 {
		return nil, fmt.Errorf("target words must be positive, got %d", targetWords)
	}
	switch kind {
	case KindChat, KindDebate, KindInterview, KindDialogue, KindDocument:
	default:
		return nil, fmt.Errorf("invalid session kind: %q", kind)
	}
	now := time.Now().UTC()
	return &Session{
		ID:           generateSessionID(),
		Kind:         kind,
		SubjectID:    subjectID,
		SubjectLabel: subjectLabel,
		UserPrompt:   userPrompt,
		TargetWords:  targetWords,
		Status:       StatusPending,
		Chunks:       []ChunkRecord{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Terminal reports whether the session has reached a final state
func (s *Session) Terminal() bool {
	return s.Status == StatusComplete || s.Status == StatusFailed
}

// CompletedChunks counts chunks that finished generation
func (s *Session) CompletedChunks() int {
	n := 0
	for _, c := range s.Chunks {
		if c.Status == ChunkComplete {
			n++
		}
	}
	return n
}

// PriorDeltas collects deltas of completed chunks in order
func (s *Session) PriorDeltas() []Delta {
	deltas := make([]Delta, 0, len(s.Chunks))
	for _, c := range s.Chunks {
		if c.Status == ChunkComplete {
			deltas = append(deltas, c.Delta)
		}
	}
	return deltas
}

// PlanChunks splits targetWords into per-chunk targets of nominal size
// wordsPerChunk. The split loses and duplicates nothing: the returned
// targets always sum to targetWords, with the remainder on the last chunk.
// Targets smaller than one nominal chunk yield exactly one chunk.
func PlanChunks(targetWords, wordsPerChunk int) []int {
	if targetWords <= 0 || wordsPerChunk <= 0 {
		return nil
	}
	total := (targetWords + wordsPerChunk - 1) / wordsPerChunk
	plan := make([]int, total)
	remaining := targetWords
	for i := 0; i < total-1; i++ {
		plan[i] = wordsPerChunk
		remaining -= wordsPerChunk
	}
	plan[total-1] = remaining
	return plan
}

// generateSessionID generates a unique session identifier
func generateSessionID() string {
	return fmt.Sprintf("session_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
