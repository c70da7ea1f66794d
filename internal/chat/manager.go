package chat

import (
	"context"
	"sync"
	"time"

	"sheetchat/domain/core"
	"sheetchat/internal"
)

// Factory builds a fresh session for an id
type Factory func(id core.ID) *Session

// Manager tracks live sessions. A session is created on first use and
// discarded on reset or after sitting idle for longer than the TTL.
type Manager struct {
	factory Factory
	idleTTL time.Duration
	logger  *internal.Logger

	mu       sync.RWMutex
	sessions map[core.ID]*Session
}

// NewManager creates a session manager
func NewManager(factory Factory, idleTTL time.Duration) *Manager {
	return &Manager{
		factory:  factory,
		idleTTL:  idleTTL,
		logger:   internal.DefaultLogger.With("SessionManager"),
		sessions: make(map[core.ID]*Session),
	}
}

// Get returns a live session
func (m *Manager) Get(id core.ID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating it (under a new id when id
// is empty) if needed. The bool reports whether a session was created.
func (m *Manager) GetOrCreate(id core.ID) (*Session, bool) {
	if !id.IsEmpty() {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	} else {
		id = core.NewID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, false
	}
	s := m.factory(id)
	m.sessions[s.ID()] = s
	m.logger.Debug("created session %s (%d live)", s.ID(), len(m.sessions))
	return s, true
}

// Discard drops a session and everything it holds
func (m *Manager) Discard(id core.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.logger.Debug("discarded session %s", id)
	return true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep discards sessions idle since before now-idleTTL and returns how many went
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired %d idle sessions (%d live)", removed, len(m.sessions))
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
