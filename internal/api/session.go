package api

import (
	"strings"
	"sync"
)

// Session holds the gateway address and credentials behind a lock. The
// client reads it on every call, so a login or a config reload takes
// effect on the next request without rebuilding the client.
type Session struct {
	mu       sync.RWMutex
	baseURL  string
	identity string
	token    string
}

func NewSession(baseURL, identity, token string) *Session {
	return &Session{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		identity: strings.TrimSpace(identity),
		token:    strings.TrimSpace(token),
	}
}

func (s *Session) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

func (s *Session) SetCredentials(identity, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = strings.TrimSpace(identity)
	s.token = strings.TrimSpace(token)
}

func (s *Session) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *Session) snapshot() (baseURL, identity, token string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL, s.identity, s.token
}
