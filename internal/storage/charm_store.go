// ABOUTME: CharmStore implements SessionStore over cloud-synced Charm KV
// ABOUTME: Sessions and reports stored as JSON under prefixed keys
package storage

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harper/longform/internal/charm"
	"github.com/harper/longform/internal/models"
)

// CharmStore persists sessions in Charm KV
type CharmStore struct {
	client *charm.Client
}

// NewCharmStore creates a SessionStore over an injected charm client
func NewCharmStore(client *charm.Client) *CharmStore {
	return &CharmStore{client: client}
}

// SaveSession writes the full session record
func (s *CharmStore) SaveSession(session *models.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if err := s.client.SetJSON(charm.SessionKey(session.ID), session); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// GetSession loads a session by id
func (s *CharmStore) GetSession(sessionID string) (*models.Session, error) {
	data, err := s.client.Get(charm.SessionKey(sessionID))
	if err != nil || len(data) == 0 {
		return nil, ErrNotFound
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

// ListSessions returns all stored sessions, newest first
func (s *CharmStore) ListSessions() ([]*models.Session, error) {
	keys, err := s.client.ListKeys(charm.SessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list session keys: %w", err)
	}

	sessions := make([]*models.Session, 0, len(keys))
	for _, key := range keys {
		var session models.Session
		if err := s.client.GetJSON(key, &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// SaveReport writes the stitch report for a session
func (s *CharmStore) SaveReport(report *models.StitchReport) error {
	if report.SessionID == "" {
		return fmt.Errorf("report session id cannot be empty")
	}
	if err := s.client.SetJSON(charm.ReportKey(report.SessionID), report); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.SessionID, err)
	}
	return nil
}

// GetReport loads the stitch report for a session
func (s *CharmStore) GetReport(sessionID string) (*models.StitchReport, error) {
	data, err := s.client.Get(charm.ReportKey(sessionID))
	if err != nil || len(data) == 0 {
		return nil, ErrNotFound
	}
	var report models.StitchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report for %s: %w", sessionID, err)
	}
	return &report, nil
}
