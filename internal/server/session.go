package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated state behind a cookie token
type Session struct {
	Token     string
	UserID    int64
	Username  string
	Email     string
	ExpiresAt time.Time
}

// SessionStore keeps sessions in memory. Tokens are random UUIDs and expire after ttl.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store. A nil now uses time.Now.
func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      now,
	}
}

// Create starts a session for the user and returns it
func (s *SessionStore) Create(userID int64, username, email string) Session {
	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Username:  username,
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return session
}

// Get returns a live session. Expired sessions are dropped on lookup.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Rename updates the username on every session of the user
func (s *SessionStore) Rename(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if session.UserID == userID {
			session.Username = username
			s.sessions[token] = session
		}
	}
}

// Delete ends a session; unknown tokens are ignored
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep removes expired sessions and reports how many went
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included until swept
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
