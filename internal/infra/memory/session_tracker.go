package memory

import (
	"context"
	"sync"

	"online-judge/internal/domain"
)

// SessionTracker is an in-memory implementation of app.SessionTracker.
type SessionTracker struct {
	mu       sync.RWMutex
	sessions map[string]domain.User
}

func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		sessions: make(map[string]domain.User),
	}
}

func (s *SessionTracker) Start(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[user.ID] = user
	return nil
}

// Touch is a no-op; in-memory markers do not expire.
func (s *SessionTracker) Touch(_ context.Context, _ string) error {
	return nil
}

func (s *SessionTracker) End(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionTracker) Active(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// IsActive reports whether userID is logged in.
func (s *SessionTracker) IsActive(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}
