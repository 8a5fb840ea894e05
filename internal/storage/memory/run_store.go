package memory

import (
	"context"
	"sort"
	"sync"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/storage"
)

// ValuationRunStore is an in-memory implementation of storage.ValuationRunStore.
type ValuationRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ValuationRun // keyed by run_id
}

// NewValuationRunStore creates a new in-memory run store.
func NewValuationRunStore() *ValuationRunStore {
	return &ValuationRunStore{
		data: make(map[string]*domain.ValuationRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *ValuationRunStore) Insert(_ context.Context, r *domain.ValuationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ValuationRunStore) GetByID(_ context.Context, runID string) (*domain.ValuationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetRecent retrieves up to limit runs ordered by created_at DESC.
func (s *ValuationRunStore) GetRecent(_ context.Context, limit int) ([]*domain.ValuationRun, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ValuationRun, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtMs != result[j].CreatedAtMs {
			return result[i].CreatedAtMs > result[j].CreatedAtMs
		}
		return result[i].RunID < result[j].RunID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetByVerdict retrieves all runs with the given verdict, ordered by
// created_at DESC.
func (s *ValuationRunStore) GetByVerdict(_ context.Context, verdict string) ([]*domain.ValuationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ValuationRun
	for _, r := range s.data {
		if r.Verdict != nil && *r.Verdict == verdict {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtMs != result[j].CreatedAtMs {
			return result[i].CreatedAtMs > result[j].CreatedAtMs
		}
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}

var _ storage.ValuationRunStore = (*ValuationRunStore)(nil)
