package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/storage"
)

// PeriodSeriesStore is an in-memory implementation of storage.PeriodSeriesStore.
type PeriodSeriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SeriesPoint // keyed by run_id|period_index
}

// NewPeriodSeriesStore creates a new in-memory series store.
func NewPeriodSeriesStore() *PeriodSeriesStore {
	return &PeriodSeriesStore{
		data: make(map[string]*domain.SeriesPoint),
	}
}

func seriesKey(runID string, periodIndex int) string {
	return fmt.Sprintf("%s|%d", runID, periodIndex)
}

// InsertBulk adds all points of a run. Fails entire batch on any duplicate.
func (s *PeriodSeriesStore) InsertBulk(_ context.Context, points []*domain.SeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(points))

	for _, p := range points {
		if p == nil || p.RunID == "" || p.PeriodIndex < 1 {
			return storage.ErrInvalidInput
		}

		key := seriesKey(p.RunID, p.PeriodIndex)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[seriesKey(p.RunID, p.PeriodIndex)] = &copy
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by period_index ASC.
func (s *PeriodSeriesStore) GetByRunID(_ context.Context, runID string) ([]*domain.SeriesPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SeriesPoint
	for _, p := range s.data {
		if p.RunID == runID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PeriodIndex < result[j].PeriodIndex
	})

	return result, nil
}

var _ storage.PeriodSeriesStore = (*PeriodSeriesStore)(nil)
