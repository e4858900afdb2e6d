// Package session holds per-user-session state: the AI credential and the
// pending preview record awaiting confirmation. State is session-scoped by
// design; there are no process-wide singletons.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dokushodb/booklog/internal/metadata"
)

// Session is one user's resolution session.
type Session struct {
	ID           string    `json:"id"`
	GeminiAPIKey string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	// Pending is the metadata record previewed in a registration form but
	// not yet written to the catalog.
	Pending *metadata.Record `json:"pending,omitempty"`
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Create(geminiAPIKey string) *Session {
	session := &Session{
		ID:           uuid.NewString(),
		GeminiAPIKey: geminiAPIKey,
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *Store) Set(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
