package cartstore

import (
	"context"
	"sync"

	"falcon-storefront/internal/domain"
)

// MemoryStore keeps carts in process memory. It serves alone when Redis is
// not configured; carts then live only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartLine)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, ok := s.carts[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, ownerID string, lines []domain.CartLine) error {
	stored := make([]domain.CartLine, len(lines))
	copy(stored, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[ownerID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, ownerID)
	return nil
}
