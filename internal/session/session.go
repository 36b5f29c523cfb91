// Package session implements server-side sessions keyed by an opaque ID.
// A session maps the ID held by the client cookie to an authenticated user
// identity and nothing else. Two backends are provided: an in-memory store
// for tests and single-process runs, and a Redis store for durable sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned by Resolve when the session ID is unknown,
// expired, or already destroyed.
var ErrNoSession = errors.New("no such session")

// Store creates, resolves and destroys sessions.
type Store interface {
	// Create issues a new session for the given user and returns its opaque ID.
	Create(ctx context.Context, userID string) (string, error)

	// Resolve returns the user ID bound to the session, or ErrNoSession.
	Resolve(ctx context.Context, sessionID string) (string, error)

	// Destroy removes the session. Destroying an absent session is not an error.
	Destroy(ctx context.Context, sessionID string) error
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation with lazy expiry.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an empty in-memory session store.
// Sessions expire ttl after creation.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: map[string]memorySession{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.New().String()
	s.sessions[sessionID] = memorySession{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}

	return sessionID, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, found := s.sessions[sessionID]
	if !found {
		return "", ErrNoSession
	}

	if s.now().After(stored.expiresAt) {
		delete(s.sessions, sessionID)
		return "", ErrNoSession
	}

	return stored.userID, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)

	return nil
}
