// ABOUTME: ChunkRecord is one bounded unit of generated text plus its delta
// ABOUTME: Chunks are ordered, append-only, and never retried in place
package models

// ChunkStatus represents the lifecycle state of a single chunk
type ChunkStatus string

const (
	ChunkPending  ChunkStatus = "pending"
	ChunkComplete ChunkStatus = "complete"
	ChunkFailed   ChunkStatus = "failed"
)

// Delta is the compact derived summary of what a chunk claimed.
// It substitutes for replaying full chunk text into later prompts,
// keeping per-chunk context growth constant.
type Delta struct {
	ClaimsAdded       []string `json:"claims_added"`
	TermsUsed         []string `json:"terms_used"`
	ConflictsDetected []string `json:"conflicts_detected"`
}

// ChunkRecord is one generated unit of output
type ChunkRecord struct {
	Index       int         `json:"index"`
	TargetWords int         `json:"target_words"`
	Text        string      `json:"text"`
	WordCount   int         `json:"word_count"`
	Delta       Delta       `json:"delta"`
	Status      ChunkStatus `json:"status"`
}
