// ABOUTME: MemStore is an in-memory SessionStore for tests and ephemeral runs
// ABOUTME: Deep-copies through JSON so callers never share mutable state
package storage

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/harper/longform/internal/models"
)

// MemStore keeps sessions and reports in process memory
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	reports  map[string][]byte
}

// NewMemStore creates an empty in-memory session store
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string][]byte),
		reports:  make(map[string][]byte),
	}
}

// SaveSession writes the full session record
func (m *MemStore) SaveSession(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = data
	return nil
}

// GetSession loads a session by id
func (m *MemStore) GetSession(sessionID string) (*models.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all stored sessions, newest first
func (m *MemStore) ListSessions() ([]*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*models.Session, 0, len(m.sessions))
	for _, data := range m.sessions {
		var session models.Session
		if err := json.Unmarshal(data, &session); err != nil {
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
func (m *MemStore) SaveReport(report *models.StitchReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.SessionID] = data
	return nil
}

// GetReport loads the stitch report for a session
func (m *MemStore) GetReport(sessionID string) (*models.StitchReport, error) {
	m.mu.RLock()
	data, ok := m.reports[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var report models.StitchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
