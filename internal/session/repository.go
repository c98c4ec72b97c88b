package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Repository persists sessions: loaded on access, saved on every mutation.
// This replaces ambient browser storage with an explicit load/save cycle,
// which keeps the state machine testable without a storage stub.
type Repository interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryRepository is an in-memory Repository for development and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*Session)}
}

func (m *MemoryRepository) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryRepository) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryRepository) Close() error { return nil }

// NewRepository creates a session repository backend for the given kind.
// Supported kinds: "memory", "redis".
func NewRepository(ctx context.Context, kind, redisAddr string, ttl time.Duration) (Repository, error) {
	switch kind {
	case "memory":
		return NewMemoryRepository(), nil
	case "redis":
		return NewRedisRepository(ctx, redisAddr, ttl)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", kind)
	}
}
