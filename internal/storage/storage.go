package storage

import (
	"sync"
	"time"
)

// SessionStore holds issued login session tokens in memory. Sessions do not
// survive a restart; conversation state lives on the client, so nothing of
// value is lost when they expire.
type SessionStore struct {
	sessions map[string]time.Time
	ttl      time.Duration
	mu       sync.RWMutex
}

// New returns a SessionStore whose tokens expire after ttl.
func New(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
	}
}

// Add records a freshly issued token.
func (s *SessionStore) Add(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = time.Now().Add(s.ttl)
}

// Valid reports whether the token was issued and has not expired. Expired
// tokens are pruned on sight.
func (s *SessionStore) Valid(token string) bool {
	s.mu.RLock()
	expiry, exists := s.sessions[token]
	s.mu.RUnlock()
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		s.Delete(token)
		return false
	}
	return true
}

// Delete revokes a token.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
