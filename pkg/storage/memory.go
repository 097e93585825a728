package storage

import (
	"sync"
	"time"

	"github.com/lukau2357/ecc-go/pkg/crypto/dualec"
)

// defaultTTL is how long an idle session survives before cleanup.
const defaultTTL = 30 * time.Minute

// MemoryStore implements the Store interface using in-memory storage.
// This is suitable for development and demonstrations, not for
// multi-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*DRBGSession
	ttl      time.Duration
	done     chan struct{}
}

// NewMemoryStore creates a new in-memory store and starts its cleanup
// goroutine.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*DRBGSession),
		ttl:      defaultTTL,
		done:     make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

// cleanupLoop runs periodic cleanup of idle sessions until Close.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CleanupExpiredSessions(s.ttl)
		case <-s.done:
			return
		}
	}
}

// CreateSession stores a new session
func (s *MemoryStore) CreateSession(session *DRBGSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return ErrSessionExists
	}

	now := time.Now()
	session.CreatedAt = now
	session.LastUsed = now
	s.sessions[session.ID] = session

	return nil
}

// GetSession retrieves a session snapshot by ID. The snapshot shares
// the block slice for reading but carries no live generator; use
// WithSession to generate.
func (s *MemoryStore) GetSession(sessionID string) (*DRBGSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if time.Since(session.LastUsed) > s.ttl {
		return nil, ErrSessionExpired
	}

	snap := *session
	snap.Generator = nil
	snap.Backdoor = nil
	snap.Blocks = append([]*dualec.Block(nil), session.Blocks...)
	return &snap, nil
}

// WithSession runs fn with exclusive access to the live session. The
// store lock is held for the duration, which is what makes the
// non-concurrent generator safe to drive from HTTP handlers.
func (s *MemoryStore) WithSession(sessionID string, fn func(*DRBGSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return ErrSessionNotFound
	}
	if time.Since(session.LastUsed) > s.ttl {
		return ErrSessionExpired
	}

	session.LastUsed = time.Now()
	return fn(session)
}

// DeleteSession removes a session
func (s *MemoryStore) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// ListSessions returns all session IDs
func (s *MemoryStore) ListSessions() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// CleanupExpiredSessions removes sessions idle longer than maxAge
func (s *MemoryStore) CleanupExpiredSessions(maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)

	for id, session := range s.sessions {
		if session.LastUsed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}

	return nil
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	close(s.done)
	return nil
}

// Ping checks if the store is healthy (always true for memory store)
func (s *MemoryStore) Ping() error {
	return nil
}

// Stats returns storage statistics for monitoring
func (s *MemoryStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := 0
	for _, session := range s.sessions {
		blocks += len(session.Blocks)
	}

	return map[string]int{
		"sessions": len(s.sessions),
		"blocks":   blocks,
	}
}
