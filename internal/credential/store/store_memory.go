package store

import (
	"context"
	"sync"

	"credhub/internal/credential/models"
	"credhub/pkg/domain"
)

// InMemoryStore is safe for concurrent access but does not persist across
// process restarts.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[models.CredentialID]models.CredentialRecord
	order   []models.CredentialID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[models.CredentialID]models.CredentialRecord)}
}

func (s *InMemoryStore) Save(_ context.Context, record models.CredentialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return ErrConflict
	}
	s.records[record.ID] = record.Clone()
	s.order = append(s.order, record.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id models.CredentialID) (models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.records[id]; ok {
		return r.Clone(), nil
	}
	return models.CredentialRecord{}, ErrNotFound
}

func (s *InMemoryStore) ListByOwner(_ context.Context, owner domain.Principal) ([]models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CredentialRecord, 0)
	for _, id := range s.order {
		if r := s.records[id]; r.StudentID == owner {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}
