package interview

import (
	"context"
	"sync"
)

// SessionStore is durable keyed storage for interview sessions. Put is a
// compare-and-swap: it succeeds only when the stored revision equals the
// session's Revision (zero for a session that was never persisted), then
// bumps session.Revision. This is what lets the state machine guarantee
// that concurrent submissions cannot both commit.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*InterviewSession, error)
	Put(ctx context.Context, session *InterviewSession) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process SessionStore for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*InterviewSession
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*InterviewSession)}
}

var _ SessionStore = (*MemoryStore)(nil)

// Get returns a deep copy of the stored session.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return stored.Clone(), nil
}

// Put stores the session if its revision matches the stored one.
func (s *MemoryStore) Put(_ context.Context, session *InterviewSession) error {
	if session == nil || session.SessionID == "" {
		return ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.sessions[session.SessionID]
	if !exists {
		if session.Revision != 0 {
			return ErrRevisionConflict
		}
	} else if stored.Revision != session.Revision {
		return ErrRevisionConflict
	}

	session.Revision++
	s.sessions[session.SessionID] = session.Clone()
	return nil
}

// Delete removes the session; deleting an absent session is not an error.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of stored sessions (test helper).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
