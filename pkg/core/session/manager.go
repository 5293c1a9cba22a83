// Package session holds per-user dashboard state. Each session
// exclusively owns its dataset; derived results are recomputed on demand
// and only the last simulation and insight are cached for display.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/simulate"
)

// Session is the full per-user state. Reset replaces the whole object
// rather than clearing fields piecemeal.
type Session struct {
	ID             string
	Username       string
	Dataset        *dataset.Dataset
	SourceFilename string
	LastSimulation *simulate.ProfitComparison
	LastInsight    *insight.Result
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Manager is a singleton tracking all live sessions.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager returns the singleton instance.
func GetManager() *Manager {
	once.Do(func() {
		instance = &Manager{sessions: make(map[string]*Session)}
		go instance.cleanup()
	})
	return instance
}

// Create opens a new session and returns it.
func (m *Manager) Create(username string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions[s.ID] = s
	return s
}

// Get retrieves a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// AttachDataset replaces the session's state with a fresh object holding
// the new dataset. Cached simulation and insight results belong to the
// previous upload and are discarded with it.
func (m *Manager) AttachDataset(id string, ds *dataset.Dataset, filename string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s := &Session{
		ID:             old.ID,
		Username:       old.Username,
		Dataset:        ds,
		SourceFilename: filename,
		CreatedAt:      old.CreatedAt,
		UpdatedAt:      time.Now(),
	}
	m.sessions[id] = s
	return s, true
}

// RecordSimulation caches the latest what-if outcome for display.
func (m *Manager) RecordSimulation(id string, cmp simulate.ProfitComparison) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.LastSimulation = &cmp
	s.UpdatedAt = time.Now()
	return true
}

// RecordInsight caches the latest insight result for display.
func (m *Manager) RecordInsight(id string, res insight.Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.LastInsight = &res
	s.UpdatedAt = time.Now()
	return true
}

// Reset replaces the session with an empty one under the same ID.
func (m *Manager) Reset(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.sessions[id]
	if !ok {
		return false
	}
	m.sessions[id] = &Session{
		ID:        old.ID,
		Username:  old.Username,
		CreatedAt: old.CreatedAt,
		UpdatedAt: time.Now(),
	}
	return true
}

// Drop removes a session entirely.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// cleanup evicts sessions idle for more than 24 hours.
func (m *Manager) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		m.mu.Lock()
		for id, s := range m.sessions {
			if time.Since(s.UpdatedAt) > 24*time.Hour {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
