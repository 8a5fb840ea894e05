// Package valuation implements the discounted-cash-flow engine for a
// fee-share token. Future transaction volume follows a logistic adoption
// curve; each staking period's fee revenue is integrated, scaled by the
// staker share, discounted to present value, and summed with a closed-form
// perpetuity for everything past the time horizon.
package valuation

import (
	"fmt"
	"math"

	"token-dcf-lab/internal/curve"
	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/quad"
)

// Engine computes valuations. Safe for concurrent use: a run has no state
// beyond its own result.
type Engine struct {
	integrator *quad.Integrator
}

// NewEngine creates an Engine with the default quadrature tolerance.
func NewEngine() *Engine {
	return NewEngineWithTolerance(quad.DefaultTolerance)
}

// NewEngineWithTolerance creates an Engine with an explicit quadrature
// tolerance.
func NewEngineWithTolerance(tol float64) *Engine {
	return &Engine{integrator: quad.New(tol)}
}

// Run values the token for the given parameters using the logistic adoption
// curve and a constant average transaction value.
//
// The per-period cash flow is the transaction integral times the constant
// value times the fee share, so scaling AvgTransactionValue or
// StakerFeeShare scales every cash flow and aggregate exactly.
func (e *Engine) Run(params domain.Parameters) (*domain.ValuationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	scale := params.AvgTransactionValue * params.StakerFeeShare / 100
	return e.run(params, curve.Logistic(params.Curve), func(_, _ float64, tx float64) (float64, error) {
		return tx * scale, nil
	})
}

// RunCurve values the token with a time-varying average transaction value.
// Per-period revenue is then the integral of rate(t)*value(t) rather than a
// constant multiple of the transaction count. The discounting pipeline is
// unchanged.
func (e *Engine) RunCurve(params domain.Parameters, rate curve.RateFunc, value curve.ValueFunc) (*domain.ValuationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	feeShare := params.StakerFeeShare / 100
	revenue := func(t float64) float64 { return rate(t) * value(t) }

	return e.run(params, rate, func(a, b float64, _ float64) (float64, error) {
		rev, err := e.integrator.Integrate(revenue, a, b)
		if err != nil {
			return 0, err
		}
		return rev * feeShare, nil
	})
}

// run executes the discounting pipeline. periodCashflow maps one period's
// interval and transaction integral to its staker cash flow.
func (e *Engine) run(params domain.Parameters, rate curve.RateFunc, periodCashflow func(a, b, tx float64) (float64, error)) (*domain.ValuationResult, error) {
	p := float64(params.PeriodsPerYear)
	effective := effectiveRate(params)

	n := params.PeriodCount()
	periods := make([]domain.PeriodPoint, 0, n)

	preHorizon := 0.0
	lastDiscounted := 0.0

	for i := 1; i <= n; i++ {
		a := float64(i-1) / p
		b := float64(i) / p

		tx, err := e.integrator.Integrate(rate, a, b)
		if err != nil {
			return nil, fmt.Errorf("%w: period %d transactions: %v", domain.ErrIntegrationFailed, i, err)
		}

		cashflow, err := periodCashflow(a, b, tx)
		if err != nil {
			return nil, fmt.Errorf("%w: period %d revenue: %v", domain.ErrIntegrationFailed, i, err)
		}

		// Period 1 already carries one full period of discounting.
		discounted := cashflow / math.Pow(effective, float64(i))

		periods = append(periods, domain.PeriodPoint{
			Index:        i,
			YearStart:    a,
			YearEnd:      b,
			Transactions: tx,
			Cashflow:     cashflow,
			Discounted:   discounted,
		})

		preHorizon += discounted
		lastDiscounted = discounted
	}

	postHorizon := perpetuityTail(lastDiscounted, effective)

	return &domain.ValuationResult{
		Params:        params,
		EffectiveRate: effective,
		Periods:       periods,
		PreHorizon:    preHorizon,
		PostHorizon:   postHorizon,
		Total:         preHorizon + postHorizon,
	}, nil
}

// effectiveRate is the per-period discount factor base: the
// periodsPerYear-th root of the annual factor, so compounding over a year
// meets the annual target for any period granularity. Computed once per run
// and reused for every exponent and for the tail.
func effectiveRate(params domain.Parameters) float64 {
	return math.Pow(1+params.AnnualDiscountRate/100, 1/float64(params.PeriodsPerYear))
}

// perpetuityTail values all post-horizon periods assuming the final period's
// nominal cash flow CF repeats forever.
//
// With D = CF/d^hp the last discounted flow, the repeating flow is valued as
// a standard perpetuity CF/(d-1) anchored at the first tail period hp+1 and
// discounted through hp+1 period boundaries:
//
//	CF/(d-1) / d^(hp+1) = D / (d*(d-1))
//
// Two divisor variants circulated historically, (d-1) and d*(d-1); they
// differ by exactly one period of discounting. This implementation keeps the
// conservative d*(d-1) form, which matches the geometric-series derivation
// above. See DESIGN.md.
func perpetuityTail(lastDiscounted, effective float64) float64 {
	return lastDiscounted / (effective * (effective - 1))
}
