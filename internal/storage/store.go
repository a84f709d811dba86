// ABOUTME: SessionStore is the persistence contract for generation jobs
// ABOUTME: Read-your-writes per session id; exact engine is pluggable
package storage

import (
	"errors"

	"github.com/harper/longform/internal/models"
)

// ErrNotFound is returned when a session or report does not exist
var ErrNotFound = errors.New("not found")

// SessionStore persists sessions and stitch reports keyed by session id.
// Implementations must make a completed write visible to the very next
// read performed by the same caller; sessions with different ids must not
// interfere with each other.
type SessionStore interface {
	// SaveSession writes the full session record
	SaveSession(session *models.Session) error

	// GetSession loads a session by id, ErrNotFound if absent
	GetSession(sessionID string) (*models.Session, error)

	// ListSessions returns all stored sessions, newest first
	ListSessions() ([]*models.Session, error)

	// SaveReport writes the stitch report for a session
	SaveReport(report *models.StitchReport) error

	// GetReport loads the stitch report for a session, ErrNotFound if absent
	GetReport(sessionID string) (*models.StitchReport, error)
}
