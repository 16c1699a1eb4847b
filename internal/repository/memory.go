package repository

import (
	"context"
	"sync"

	"github.com/lehmann314159/kabyedict/internal/models"
)

// MemoryStore implements EntryStore with a process-lifetime container
type MemoryStore struct {
	mu   sync.RWMutex
	coll *models.Collection
}

// NewMemoryStore creates a memory store holding the seed collection
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWith(models.SeedCollection())
}

// NewMemoryStoreWith creates a memory store holding a copy of coll
func NewMemoryStoreWith(coll *models.Collection) *MemoryStore {
	return &MemoryStore{coll: coll.Clone()}
}

// Load returns a copy of the current collection
func (s *MemoryStore) Load(_ context.Context) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll.Clone(), nil
}

// Save replaces the container with a copy of coll
func (s *MemoryStore) Save(_ context.Context, coll *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll = coll.Clone()
	return nil
}
