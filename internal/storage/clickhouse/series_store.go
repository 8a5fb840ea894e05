package clickhouse

import (
	"context"
	"fmt"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/storage"
)

// PeriodSeriesStore implements storage.PeriodSeriesStore using ClickHouse.
type PeriodSeriesStore struct {
	conn *Conn
}

// NewPeriodSeriesStore creates a new PeriodSeriesStore.
func NewPeriodSeriesStore(conn *Conn) *PeriodSeriesStore {
	return &PeriodSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PeriodSeriesStore = (*PeriodSeriesStore)(nil)

// InsertBulk adds all points of a run. Fails entire batch on duplicate
// (run_id, period_index). MergeTree does not enforce uniqueness, so
// duplicates are checked explicitly before the batch is sent.
func (s *PeriodSeriesStore) InsertBulk(ctx context.Context, points []*domain.SeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		runID       string
		periodIndex int
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.RunID == "" || p.PeriodIndex < 1 {
			return storage.ErrInvalidInput
		}
		k := key{p.RunID, p.PeriodIndex}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.RunID, p.PeriodIndex)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO period_series (
			run_id, period_index, year_end, transactions, cashflow, discounted
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RunID, uint32(p.PeriodIndex), p.YearEnd,
			p.Transactions, p.Cashflow, p.Discounted,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all points for a run, ordered by period_index ASC.
func (s *PeriodSeriesStore) GetByRunID(ctx context.Context, runID string) ([]*domain.SeriesPoint, error) {
	query := `
		SELECT run_id, period_index, year_end, transactions, cashflow, discounted
		FROM period_series
		WHERE run_id = ?
		ORDER BY period_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query period series: %w", err)
	}
	defer rows.Close()

	var result []*domain.SeriesPoint
	for rows.Next() {
		var (
			p           domain.SeriesPoint
			periodIndex uint32
		)
		if err := rows.Scan(&p.RunID, &periodIndex, &p.YearEnd, &p.Transactions, &p.Cashflow, &p.Discounted); err != nil {
			return nil, fmt.Errorf("scan period series point: %w", err)
		}
		p.PeriodIndex = int(periodIndex)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate period series: %w", err)
	}

	return result, nil
}

// exists checks whether a (run_id, period_index) row is already stored.
func (s *PeriodSeriesStore) exists(ctx context.Context, runID string, periodIndex int) (bool, error) {
	query := `
		SELECT count() FROM period_series
		WHERE run_id = ? AND period_index = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, uint32(periodIndex)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
