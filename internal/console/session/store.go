// Package session holds the console's authenticated state. The store
// is process-wide: written only by the login, two-factor and logout
// paths, read by everything else as a snapshot.
package session

import "sync"

// Identity is the signed-in user as reported by the auth API.
type Identity struct {
	ID            uint
	Email         string
	Name          string
	Role          string
	Staff         bool
	EmailVerified bool
	MFAEnabled    bool
}

// Session is an immutable snapshot of the authenticated state. A
// session either carries both tokens or is the zero value; the
// intermediate "second factor pending" state lives in the auth flow,
// never here.
type Session struct {
	User         Identity
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the snapshot carries a token grant.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// Store is a single-writer state container. Readers always get a copy.
type Store struct {
	mu      sync.RWMutex
	current Session
}

func NewStore() *Store {
	return &Store{}
}

// Set installs a fully authenticated session. Callers must not install
// partial sessions; a challenge in progress is not a session.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}

// Clear wipes the session on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether a token grant is present.
func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// IsStaff reports whether the signed-in user may use the admin console.
func (s *Store) IsStaff() bool {
	sess := s.Current()
	return sess.Authenticated() && sess.User.Staff
}

// AccessToken returns the current bearer token, or "".
func (s *Store) AccessToken() string {
	return s.Current().AccessToken
}
