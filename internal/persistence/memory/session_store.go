// Package memory holds process-local state that deliberately never reaches
// disk. The on-disk surface of the application is fixed to the JSON
// documents owned by the jsonfile package.
package memory

import (
	"sync"
	"time"

	"github.com/example/event-desk/internal/application"
)

// SessionStore keeps issued sessions in a token keyed map for the lifetime
// of the process. Safe for concurrent use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]application.Session
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]application.Session)}
}

// Create records a freshly issued session under its token.
func (s *SessionStore) Create(session application.Session) (application.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return session, nil
}

// Get returns the session stored under token.
func (s *SessionStore) Get(token string) (application.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return application.Session{}, application.ErrNotFound
	}
	return session, nil
}

// Update re-keys the session by its current token, replacing the stored
// record. Rotated tokens leave no entry under the previous token.
func (s *SessionStore) Update(session application.Session) (application.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, existing := range s.sessions {
		if existing.ID == session.ID {
			delete(s.sessions, token)
			break
		}
	}
	s.sessions[session.Token] = session
	return session, nil
}

// Revoke stamps the session stored under token as revoked.
func (s *SessionStore) Revoke(token string, revokedAt time.Time) (application.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return application.Session{}, application.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return session, nil
}

// DeleteExpired drops sessions whose validity window has passed. Revoked
// sessions are kept until they expire so their tokens keep reporting the
// revocation distinctly.
func (s *SessionStore) DeleteExpired(reference time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if !session.ExpiresAt.IsZero() && !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}
