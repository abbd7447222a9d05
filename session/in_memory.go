// Package session provides SessionStore implementations for interview
// state. The in-memory store here suits tests and single-process demos;
// the sqlite subpackage persists sessions across restarts.
package session

import (
	"context"
	"sync"

	"github.com/hupe1980/careermesh/core"
)

// InMemoryStore keeps interview sessions in a mutex-guarded map. Both Load
// and Save work on deep copies, so callers never share state with the
// store or with each other.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.InterviewSession
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.InterviewSession),
	}
}

// Load returns a copy of the stored session or core.ErrSessionNotFound.
func (s *InMemoryStore) Load(ctx context.Context, id string) (*core.InterviewSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Save stores a copy of the session, overwriting any previous state for
// the same id.
func (s *InMemoryStore) Save(ctx context.Context, session *core.InterviewSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
