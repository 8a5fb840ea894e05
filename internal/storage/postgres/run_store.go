package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/storage"
)

// ValuationRunStore implements storage.ValuationRunStore using PostgreSQL.
type ValuationRunStore struct {
	pool *Pool
}

// NewValuationRunStore creates a new ValuationRunStore.
func NewValuationRunStore(pool *Pool) *ValuationRunStore {
	return &ValuationRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ValuationRunStore = (*ValuationRunStore)(nil)

const runColumns = `
	run_id,
	time_horizon_years, periods_per_year, annual_discount_rate, staker_fee_share,
	curve_mid, curve_slope, curve_limit, avg_transaction_value,
	effective_rate, pre_horizon, post_horizon, total,
	market_cap, verdict, created_at_ms
`

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *ValuationRunStore) Insert(ctx context.Context, r *domain.ValuationRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO valuation_runs (` + runColumns + `) VALUES (
			$1,
			$2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.TimeHorizonYears, r.PeriodsPerYear, r.AnnualDiscountRate, r.StakerFeeShare,
		r.CurveMid, r.CurveSlope, r.CurveLimit, r.AvgTransactionValue,
		r.EffectiveRate, r.PreHorizon, r.PostHorizon, r.Total,
		r.MarketCap, r.Verdict, r.CreatedAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert valuation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ValuationRunStore) GetByID(ctx context.Context, runID string) (*domain.ValuationRun, error) {
	query := `SELECT ` + runColumns + ` FROM valuation_runs WHERE run_id = $1`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get valuation run by id: %w", err)
	}
	return r, nil
}

// GetRecent retrieves up to limit runs ordered by created_at DESC.
func (s *ValuationRunStore) GetRecent(ctx context.Context, limit int) ([]*domain.ValuationRun, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + runColumns + `
		FROM valuation_runs
		ORDER BY created_at_ms DESC, run_id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent valuation runs: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// GetByVerdict retrieves all runs with the given verdict, ordered by
// created_at DESC.
func (s *ValuationRunStore) GetByVerdict(ctx context.Context, verdict string) ([]*domain.ValuationRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM valuation_runs
		WHERE verdict = $1
		ORDER BY created_at_ms DESC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, verdict)
	if err != nil {
		return nil, fmt.Errorf("get valuation runs by verdict: %w", err)
	}
	defer rows.Close()

	return collectRuns(rows)
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.ValuationRun, error) {
	var r domain.ValuationRun
	err := row.Scan(
		&r.RunID,
		&r.TimeHorizonYears, &r.PeriodsPerYear, &r.AnnualDiscountRate, &r.StakerFeeShare,
		&r.CurveMid, &r.CurveSlope, &r.CurveLimit, &r.AvgTransactionValue,
		&r.EffectiveRate, &r.PreHorizon, &r.PostHorizon, &r.Total,
		&r.MarketCap, &r.Verdict, &r.CreatedAtMs,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRuns(rows pgx.Rows) ([]*domain.ValuationRun, error) {
	var result []*domain.ValuationRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan valuation run: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate valuation runs: %w", err)
	}
	return result, nil
}
