// Package memory provides an ephemeral in-memory vector store, used by tests
// and runs that do not need persistence.
package memory

import (
	"context"
	"sync"

	"librarian/internal/domain"
	"librarian/internal/vectorstore"
)

// Store is a brute-force in-memory vector store.
type Store struct {
	mu      sync.RWMutex
	records []domain.Record
}

// NewStore returns an empty in-memory store.
func NewStore() *Store { return &Store{} }

// Rebuild replaces all stored records with the given ones.
func (s *Store) Rebuild(ctx context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.Record(nil), records...)
	return nil
}

// Query returns up to k nearest records by cosine distance, nearest-first.
func (s *Store) Query(ctx context.Context, vector []float64, k int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	neighbors := make([]domain.Neighbor, 0, len(s.records))
	for _, r := range s.records {
		neighbors = append(neighbors, domain.Neighbor{
			ID:       r.ID,
			Title:    r.Title,
			Document: r.Document,
			Distance: vectorstore.CosineDistance(vector, r.Embedding),
		})
	}
	return vectorstore.NearestFirst(neighbors, k), nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
