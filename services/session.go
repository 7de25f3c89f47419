package services

import (
	"context"
	"sync"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
)

// SessionStore holds at most one draft per customer.
type SessionStore interface {
	// Get returns nil, nil when the customer has no draft.
	Get(ctx context.Context, customerID string) (*models.Draft, error)
	Put(ctx context.Context, d *models.Draft) error
	Delete(ctx context.Context, customerID string) error
}

// MemoryStore keeps drafts in process memory. Drafts are copied in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*models.Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*models.Draft)}
}

func (s *MemoryStore) Get(_ context.Context, customerID string) (*models.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[customerID].Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, d *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.CustomerID] = d.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, customerID)
	return nil
}

// Len is the number of active drafts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
