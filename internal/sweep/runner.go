// Package sweep runs valuation grids over discount rate and fee share.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/observability"
	"token-dcf-lab/internal/storage"
	"token-dcf-lab/internal/valuation"
)

// Grid defines a parameter sweep. Base supplies every scalar; non-empty
// DiscountRates and FeeShares replace the corresponding base value, one run
// per combination. Empty axes fall back to the base value, so the zero grid
// is a single run.
type Grid struct {
	Base          domain.Parameters
	DiscountRates []float64 // annual %, each > 0
	FeeShares     []float64 // percent, each in (0, 100)
}

// Combinations returns the number of runs the grid will produce.
func (g Grid) Combinations() int {
	rates := len(g.DiscountRates)
	if rates == 0 {
		rates = 1
	}
	fees := len(g.FeeShares)
	if fees == 0 {
		fees = 1
	}
	return rates * fees
}

// Runner executes sweeps, optionally persisting each run and its series.
type Runner struct {
	engine      *valuation.Engine
	runStore    storage.ValuationRunStore
	seriesStore storage.PeriodSeriesStore
	metrics     *observability.Metrics
	now         func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
// Stores and Metrics are optional; a nil store skips that persistence step,
// a nil Metrics skips instrumentation.
type RunnerOptions struct {
	Engine      *valuation.Engine
	RunStore    storage.ValuationRunStore
	SeriesStore storage.PeriodSeriesStore
	Metrics     *observability.Metrics

	// Now overrides the clock, for deterministic tests.
	Now func() time.Time
}

// NewRunner creates a sweep runner.
func NewRunner(opts RunnerOptions) *Runner {
	engine := opts.Engine
	if engine == nil {
		engine = valuation.NewEngine()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		engine:      engine,
		runStore:    opts.RunStore,
		seriesStore: opts.SeriesStore,
		metrics:     opts.Metrics,
		now:         now,
	}
}

// Run evaluates every grid combination and returns the run records in grid
// order (discount rate outer, fee share inner). The whole sweep fails on the
// first engine error; duplicate-key persistence errors are tolerated since
// identical parameters map to the same run_id.
func (r *Runner) Run(ctx context.Context, grid Grid) ([]*domain.ValuationRun, error) {
	rates := grid.DiscountRates
	if len(rates) == 0 {
		rates = []float64{grid.Base.AnnualDiscountRate}
	}
	fees := grid.FeeShares
	if len(fees) == 0 {
		fees = []float64{grid.Base.StakerFeeShare}
	}

	runs := make([]*domain.ValuationRun, 0, len(rates)*len(fees))

	for _, rate := range rates {
		for _, fee := range fees {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			params := grid.Base
			params.AnnualDiscountRate = rate
			params.StakerFeeShare = fee

			res, err := r.engine.Run(params)
			if err != nil {
				if r.metrics != nil {
					r.metrics.ValuationErrors.WithLabelValues("engine").Inc()
				}
				return nil, fmt.Errorf("sweep point rate=%g fee=%g: %w", rate, fee, err)
			}
			if r.metrics != nil {
				r.metrics.SweepRunsTotal.Inc()
			}

			run := valuation.RunRecord(res, r.now().UnixMilli())
			if err := r.persist(ctx, run, res); err != nil {
				return nil, err
			}

			runs = append(runs, run)
		}
	}

	return runs, nil
}

func (r *Runner) persist(ctx context.Context, run *domain.ValuationRun, res *domain.ValuationResult) error {
	if r.runStore != nil {
		err := r.runStore.Insert(ctx, run)
		switch {
		case err == nil:
			if r.metrics != nil {
				r.metrics.RunsPersisted.Inc()
			}
		case errors.Is(err, storage.ErrDuplicateKey):
			// Same parameters, same run_id: already stored.
		default:
			if r.metrics != nil {
				r.metrics.PersistenceErrors.WithLabelValues("runs").Inc()
			}
			return fmt.Errorf("persist run %s: %w", run.RunID, err)
		}
	}
	if r.seriesStore != nil {
		err := r.seriesStore.InsertBulk(ctx, valuation.SeriesPoints(res))
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			if r.metrics != nil {
				r.metrics.PersistenceErrors.WithLabelValues("series").Inc()
			}
			return fmt.Errorf("persist series %s: %w", run.RunID, err)
		}
	}
	return nil
}
