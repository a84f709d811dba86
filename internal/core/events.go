// ABOUTME: Progress events emitted by the orchestrator to its caller
// ABOUTME: Ordered textual events terminated by a done sentinel
package core

import "github.com/harper/longform/internal/models"

// EventType identifies the shape of a progress event. Consumers should
// ignore types they do not recognize rather than fail.
type EventType string

const (
	EventSkeleton      EventType = "skeleton"
	EventChunkStart    EventType = "chunk_start"
	EventFragment      EventType = "fragment"
	EventChunkComplete EventType = "chunk_complete"
	EventShortfall     EventType = "shortfall"
	EventReport        EventType = "report"
	EventFailure       EventType = "failure"
	EventDone          EventType = "done"
)

// Event is one entry in the ordered progress stream of a session
type Event struct {
	Type         EventType            `json:"type"`
	SessionID    string               `json:"session_id"`
	ChunkIndex   int                  `json:"chunk_index,omitempty"`
	Text         string               `json:"text,omitempty"`
	RunningWords int                  `json:"running_words,omitempty"`
	TargetWords  int                  `json:"target_words,omitempty"`
	Report       *models.StitchReport `json:"report,omitempty"`
}

// EventSink receives progress events in order. Returning an error tells
// the orchestrator the caller is gone: it stops issuing chunks but
// leaves completed work persisted.
type EventSink func(Event) error

// emit forwards an event to sink, tolerating a nil sink
func emit(sink EventSink, event Event) error {
	if sink == nil {
		return nil
	}
	return sink(event)
}
