package client

import "sync"

// Session is the single owner of the caller's bearer token. It replaces any
// ambient token storage: whatever issues requests is handed the Session and
// asks it for the token, and logout or a rejected token clears it.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession() *Session {
	return &Session{}
}

// Token returns the current token and whether one is set
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

func (s *Session) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear forgets the token
func (s *Session) Clear() {
	s.set("")
}
