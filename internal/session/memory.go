package session

import (
	"context"
	"sync"

	"github.com/capitalcare/care-console/internal/core/domain"
)

// MemoryRepository is an in-process ports.SessionRepository. Used by tests
// and by local development runs without Redis.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]domain.Session)}
}

func (m *MemoryRepository) Save(_ context.Context, sess *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = *sess
	return nil
}

func (m *MemoryRepository) Find(_ context.Context, sid string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sid]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (m *MemoryRepository) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sid]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.sessions, sid)
	return nil
}
