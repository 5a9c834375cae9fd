package dataset

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository for tests
// and local development.
type MemoryRepository struct {
	mu     sync.RWMutex
	latest *Bundle
}

// NewMemoryRepository creates a new in-memory dataset repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// SaveBundle stores a bundle as the latest dataset.
func (r *MemoryRepository) SaveBundle(_ context.Context, b *Bundle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = b
	return nil
}

// LatestBundle retrieves the most recently stored bundle.
func (r *MemoryRepository) LatestBundle(_ context.Context) (*Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return nil, ErrNoSnapshot
	}
	return r.latest, nil
}

// Ensure MemoryRepository implements Repository interface.
var _ Repository = (*MemoryRepository)(nil)
