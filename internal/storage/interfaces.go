package storage

import (
	"context"

	"token-dcf-lab/internal/domain"
)

// ValuationRunStore provides access to valuation_runs storage.
type ValuationRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.ValuationRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.ValuationRun, error)

	// GetRecent retrieves up to limit runs ordered by created_at DESC.
	GetRecent(ctx context.Context, limit int) ([]*domain.ValuationRun, error)

	// GetByVerdict retrieves all runs with the given verdict, ordered by
	// created_at DESC.
	GetByVerdict(ctx context.Context, verdict string) ([]*domain.ValuationRun, error)
}

// PeriodSeriesStore provides access to period_series storage.
type PeriodSeriesStore interface {
	// InsertBulk adds all points of a run. Fails entire batch on duplicate
	// (run_id, period_index).
	InsertBulk(ctx context.Context, points []*domain.SeriesPoint) error

	// GetByRunID retrieves all points for a run, ordered by period_index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.SeriesPoint, error)
}
