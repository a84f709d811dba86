// ABOUTME: Orchestrator runs a session through its full generation lifecycle
// ABOUTME: Persists after every chunk so any interruption point is resumable
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harper/longform/internal/config"
	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/models"
	"github.com/harper/longform/internal/retrieval"
	"github.com/harper/longform/internal/storage"
	"github.com/harper/longform/internal/util"
)

// supplementalMinWords floors the supplemental chunk target so the
// backfill request is never degenerately small
const supplementalMinWords = 200

// minChunkDelay keeps pacing delays nonzero even under misconfiguration
const minChunkDelay = 100 * time.Millisecond

// errSinkClosed marks a stream aborted because the event consumer went away
var errSinkClosed = errors.New("event sink closed")

// Orchestrator drives sessions through
// pending → skeleton → chunking → stitching → complete | failed.
// All collaborators are injected; the orchestrator owns only the state
// machine and its persistence discipline.
type Orchestrator struct {
	cfg      *config.Config
	store    storage.SessionStore
	fetcher  retrieval.ContentFetcher
	skeleton *SkeletonExtractor
	writer   *ChunkWriter
	deltas   *DeltaExtractor
}

// NewOrchestrator wires an orchestrator from its collaborators
func NewOrchestrator(cfg *config.Config, store storage.SessionStore, fetcher retrieval.ContentFetcher, client llm.Client) *Orchestrator {
	bounds := SourceBounds{
		MaxPositions: cfg.MaxPositions,
		MaxQuotes:    cfg.MaxQuotes,
		MaxArguments: cfg.MaxArguments,
		MaxExcerpts:  cfg.MaxExcerpts,
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		fetcher:  fetcher,
		skeleton: NewSkeletonExtractor(client, bounds),
		writer:   NewChunkWriter(client),
		deltas:   NewDeltaExtractor(),
	}
}

// Start creates and persists a pending session. Generation does not
// begin until Run is called with the returned session's id.
func (o *Orchestrator) Start(kind models.SessionKind, subjectID, subjectLabel, userPrompt string, targetWords int) (*models.Session, error) {
	session, err := models.NewSession(kind, subjectID, subjectLabel, userPrompt, targetWords)
	if err != nil {
		return nil, err
	}
	if err := o.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return session, nil
}

// Run executes a session to completion, emitting progress events to sink.
// Calling Run on a session with persisted chunks resumes after the last
// completed chunk; the skeleton is never re-extracted once persisted.
// Cancellation and sink loss stop work without failing the session, so a
// later Run picks up where this one stopped.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, sink EventSink) error {
	sess, err := o.store.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess.Terminal() {
		return fmt.Errorf("session %s is already %s", sessionID, sess.Status)
	}

	if sess.Skeleton == nil {
		if err := o.extractSkeleton(ctx, sess); err != nil {
			return err
		}
	}
	if err := emit(sink, Event{Type: EventSkeleton, SessionID: sess.ID, Text: sess.Skeleton.Summary(), TargetWords: sess.TargetWords}); err != nil {
		return nil
	}

	plan := models.PlanChunks(sess.TargetWords, o.cfg.WordsPerChunk)
	totalChunks := len(plan)

	if err := o.transition(sess, models.StatusChunking); err != nil {
		return err
	}

	for index := len(sess.Chunks); index < totalChunks; index++ {
		// reload so the loop always works from persisted state
		sess, err = o.store.GetSession(sess.ID)
		if err != nil {
			return fmt.Errorf("failed to reload session %s: %w", sessionID, err)
		}
		if err := o.runChunk(ctx, sess, index, totalChunks, plan[index], sink); err != nil {
			return o.classifyChunkErr(sess, err, sink)
		}
		if index < totalChunks-1 {
			if err := o.pace(ctx); err != nil {
				return err
			}
		}
	}

	if err := o.transition(sess, models.StatusStitching); err != nil {
		return err
	}

	// One backfill chunk at most; its own shortfall is accepted as-is.
	// A resumed run whose supplemental chunk already persisted must not
	// add a second one, so the branch also requires that only the
	// planned chunks exist.
	if len(sess.Chunks) == totalChunks && sess.ActualWords < int(o.cfg.ShortfallRatio*float64(sess.TargetWords)) {
		deficit := sess.TargetWords - sess.ActualWords
		if deficit < supplementalMinWords {
			deficit = supplementalMinWords
		}
		if err := emit(sink, Event{Type: EventShortfall, SessionID: sess.ID, RunningWords: sess.ActualWords, TargetWords: sess.TargetWords}); err != nil {
			return nil
		}
		if err := o.runChunk(ctx, sess, totalChunks, totalChunks+1, deficit, sink); err != nil {
			return o.classifyChunkErr(sess, err, sink)
		}
		sess, err = o.store.GetSession(sess.ID)
		if err != nil {
			return fmt.Errorf("failed to reload session %s: %w", sessionID, err)
		}
	}

	report := models.NewStitchReport(sess.ID, sess.ActualWords, o.aggregateConflicts(sess))
	if err := o.store.SaveReport(report); err != nil {
		return o.fail(sess, fmt.Errorf("failed to persist stitch report: %w", err), sink)
	}
	if err := o.transition(sess, models.StatusComplete); err != nil {
		return err
	}

	if err := emit(sink, Event{Type: EventReport, SessionID: sess.ID, Report: report, RunningWords: sess.ActualWords, TargetWords: sess.TargetWords}); err != nil {
		return nil
	}
	emit(sink, Event{Type: EventDone, SessionID: sess.ID})
	return nil
}

// extractSkeleton runs the skeleton phase: retrieve source material,
// derive the structural contract, persist it. Retrieval failure degrades
// to generation without sources rather than failing the session.
func (o *Orchestrator) extractSkeleton(ctx context.Context, sess *models.Session) error {
	if err := o.transition(sess, models.StatusSkeleton); err != nil {
		return err
	}

	bundle := &models.ContentBundle{}
	if o.fetcher != nil {
		fetched, err := o.fetcher.FetchContent(ctx, sess.SubjectID, sess.UserPrompt, o.cfg.MaxPositions)
		if err != nil {
			log.Printf("[Orchestrator] Warning: retrieval failed for session %s, continuing without sources: %v", sess.ID, err)
		} else {
			bundle = fetched
		}
	}

	sess.Skeleton = o.skeleton.Extract(ctx, sess.UserPrompt, sess.SubjectLabel, bundle)
	sess.UpdatedAt = time.Now().UTC()
	if err := o.store.SaveSession(sess); err != nil {
		return fmt.Errorf("failed to persist skeleton: %w", err)
	}
	return nil
}

// runChunk generates one chunk, extracts its delta, and persists the
// session before returning. Fragments stream to the sink as they arrive.
func (o *Orchestrator) runChunk(ctx context.Context, sess *models.Session, index, totalChunks, targetWords int, sink EventSink) error {
	if err := emit(sink, Event{Type: EventChunkStart, SessionID: sess.ID, ChunkIndex: index, TargetWords: targetWords}); err != nil {
		return errSinkClosed
	}

	req := ChunkRequest{
		Skeleton:     sess.Skeleton,
		Kind:         sess.Kind,
		SubjectLabel: sess.SubjectLabel,
		ChunkIndex:   index,
		TotalChunks:  totalChunks,
		TargetWords:  targetWords,
		PriorDeltas:  sess.PriorDeltas(),
	}

	var text string
	err := o.writer.Write(ctx, req, func(fragment string) error {
		text += fragment
		if err := emit(sink, Event{Type: EventFragment, SessionID: sess.ID, ChunkIndex: index, Text: fragment}); err != nil {
			return errSinkClosed
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errSinkClosed) {
			return errSinkClosed
		}
		return fmt.Errorf("chunk %d generation failed: %w", index, err)
	}

	delta := o.deltas.Extract(sess.Skeleton, text)
	wordCount := util.CountWords(text)
	sess.Chunks = append(sess.Chunks, models.ChunkRecord{
		Index:       index,
		TargetWords: targetWords,
		Text:        text,
		WordCount:   wordCount,
		Delta:       delta,
		Status:      models.ChunkComplete,
	})
	sess.ActualWords += wordCount
	sess.UpdatedAt = time.Now().UTC()
	if err := o.store.SaveSession(sess); err != nil {
		return fmt.Errorf("failed to persist chunk %d: %w", index, err)
	}

	if err := emit(sink, Event{Type: EventChunkComplete, SessionID: sess.ID, ChunkIndex: index, RunningWords: sess.ActualWords, TargetWords: sess.TargetWords}); err != nil {
		return errSinkClosed
	}
	return nil
}

// classifyChunkErr turns a chunk failure into the right session outcome.
// Cancellation and sink loss leave the session resumable; everything
// else marks it failed.
func (o *Orchestrator) classifyChunkErr(sess *models.Session, err error, sink EventSink) error {
	if errors.Is(err, errSinkClosed) {
		log.Printf("[Orchestrator] Event sink closed for session %s, stopping; progress persisted", sess.ID)
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Printf("[Orchestrator] Session %s interrupted; progress persisted", sess.ID)
		return err
	}
	return o.fail(sess, err, sink)
}

// fail marks the session failed, records the cause, and emits one
// failure event
func (o *Orchestrator) fail(sess *models.Session, cause error, sink EventSink) error {
	sess.Status = models.StatusFailed
	sess.ErrorMessage = cause.Error()
	sess.UpdatedAt = time.Now().UTC()
	if err := o.store.SaveSession(sess); err != nil {
		log.Printf("[Orchestrator] Warning: could not persist failure for session %s: %v", sess.ID, err)
	}
	emit(sink, Event{Type: EventFailure, SessionID: sess.ID, Text: cause.Error()})
	return cause
}

// transition advances the session status and persists it
func (o *Orchestrator) transition(sess *models.Session, status models.SessionStatus) error {
	sess.Status = status
	sess.UpdatedAt = time.Now().UTC()
	if err := o.store.SaveSession(sess); err != nil {
		return fmt.Errorf("failed to persist %s transition: %w", status, err)
	}
	return nil
}

// pace waits the configured inter-chunk delay. The delay is floored so
// back-to-back chunk requests never hit the backend with zero gap.
func (o *Orchestrator) pace(ctx context.Context) error {
	delay := o.cfg.ChunkDelay
	if delay < minChunkDelay {
		delay = minChunkDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// aggregateConflicts collects every conflict detected across all chunks,
// in chunk order
func (o *Orchestrator) aggregateConflicts(sess *models.Session) []string {
	var conflicts []string
	for _, chunk := range sess.Chunks {
		conflicts = append(conflicts, chunk.Delta.ConflictsDetected...)
	}
	return conflicts
}
