package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token and admin identity between calls.
// Implementations must be safe for concurrent use.
type Session interface {
	Token() string
	SetToken(token string)
	User() *Admin
	SetUser(admin *Admin)
	Clear()
}

// MemorySession keeps the session in memory. It is the default session
// for a new Client.
type MemorySession struct {
	mu    sync.RWMutex
	token string
	user  *Admin
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemorySession) User() *Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MemorySession) SetUser(admin *Admin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = admin
}

func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// Valid reports whether a session holds a token that has not expired.
// The token is inspected without signature verification; the server is
// still the authority and will reject a forged token. An expired or
// unparseable token clears the session.
func Valid(s Session) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	if err != nil {
		s.Clear()
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil || !exp.After(time.Now()) {
		s.Clear()
		return false
	}
	return true
}
