package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/here-event-os/internal/models"
)

// SessionStore keeps live sessions in process memory. Nothing survives a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.Session), now: time.Now}
}

// Open registers a new session for the credential and resolves its role.
func (s *SessionStore) Open(cred *models.Credential) *models.Session {
	session := &models.Session{
		ID:          uuid.NewString(),
		Username:    cred.Username,
		DisplayName: cred.DisplayName,
		Email:       cred.Email,
		Role:        models.ResolveRole(cred.Username, cred.Role),
		CreatedAt:   s.now().UTC(),
		Cart:        models.NewQuoteCart(),
	}
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get returns the live session with the given ID.
func (s *SessionStore) Get(id string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Close discards the session and its cart. Closing an unknown ID is a no-op.
func (s *SessionStore) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Expire drops sessions created before the cutoff and returns how many were removed.
func (s *SessionStore) Expire(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
