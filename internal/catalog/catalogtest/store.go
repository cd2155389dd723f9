// Package catalogtest provides an in-memory ProductStore for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync"

	"catalog-service/internal/catalog"
	"catalog-service/internal/models"
)

// MemStore is an in-memory catalog.ProductStore
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Product
}

var _ catalog.ProductStore = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[int64]models.Product)}
}

// ScanActive implements catalog.ProductStore
func (s *MemStore) ScanActive(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, p := range s.rows {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByID implements catalog.ProductStore
func (s *MemStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	return &p, nil
}

// Create implements catalog.ProductStore
func (s *MemStore) Create(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	product.ID = s.nextID
	s.rows[product.ID] = *product
	return nil
}

// Update implements catalog.ProductStore
func (s *MemStore) Update(ctx context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[product.ID]; !ok {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, product.ID)
	}
	s.rows[product.ID] = *product
	return nil
}

// Deactivate implements catalog.ProductStore
func (s *MemStore) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	p.IsActive = false
	s.rows[id] = p
	return nil
}

// Delete implements catalog.ProductStore
func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	delete(s.rows, id)
	return nil
}

// FindByExternalPair implements catalog.ProductStore
func (s *MemStore) FindByExternalPair(ctx context.Context, source, externalID string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.ExternalSource != nil && *p.ExternalSource == source &&
			p.ExternalID != nil && *p.ExternalID == externalID {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", catalog.ErrNotFound, source, externalID)
}

// Count returns the number of stored rows, active or not
func (s *MemStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
