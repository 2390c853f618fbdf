// Package memory holds the process-local review collection.
package memory

import (
	"sync"

	"review_analyzer/internal/domain"
)

// Store is an append-only, insertion-ordered review list. Reads hand out
// copies so callers can filter and sort without holding the lock.
type Store struct {
	mu      sync.RWMutex
	reviews []domain.Review
}

var _ domain.ReviewStore = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) Append(r domain.Review) {
	r.Sentiment = nil // derived, never stored
	s.mu.Lock()
	s.reviews = append(s.reviews, r)
	s.mu.Unlock()
}

func (s *Store) Snapshot() []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
