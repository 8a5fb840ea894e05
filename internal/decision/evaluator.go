// Package decision compares a valuation against the market's current pricing.
package decision

import (
	"fmt"

	"token-dcf-lab/internal/domain"
)

// DefaultFairBandPct is the half-width of the fair-value band: valuations
// within ±10% of market cap are not called either way.
const DefaultFairBandPct = 10.0

// Evaluator classifies valuations against market cap.
type Evaluator struct {
	fairBandPct float64
}

// NewEvaluator creates an Evaluator with the default fair-value band.
func NewEvaluator() *Evaluator {
	return &Evaluator{fairBandPct: DefaultFairBandPct}
}

// NewEvaluatorWithBand creates an Evaluator with an explicit band half-width
// in percent.
func NewEvaluatorWithBand(bandPct float64) *Evaluator {
	return &Evaluator{fairBandPct: bandPct}
}

// Result is the outcome of comparing a valuation to a market cap.
type Result struct {
	Verdict   string  // UNDERVALUED | OVERVALUED | FAIR_VALUE
	MarketCap float64 // USD
	FairValue float64 // engine total, USD
	UpsidePct float64 // (fair - market) / market * 100
}

// Evaluate classifies the valuation total against marketCap.
func (e *Evaluator) Evaluate(res *domain.ValuationResult, marketCap float64) (*Result, error) {
	if marketCap <= 0 {
		return nil, fmt.Errorf("%w: market cap must be > 0, got %g", domain.ErrInvalidParameter, marketCap)
	}

	upside := (res.Total - marketCap) / marketCap * 100

	verdict := domain.VerdictFairValue
	switch {
	case upside > e.fairBandPct:
		verdict = domain.VerdictUndervalued
	case upside < -e.fairBandPct:
		verdict = domain.VerdictOvervalued
	}

	return &Result{
		Verdict:   verdict,
		MarketCap: marketCap,
		FairValue: res.Total,
		UpsidePct: upside,
	}, nil
}
