package reporting

import (
	"sort"
	"time"

	"token-dcf-lab/internal/domain"
)

// Generator produces reports from valuation runs.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report over the given runs, sorted by discount rate then
// fee share so sweep output reads as a grid.
func (g *Generator) Generate(runs []*domain.ValuationRun) *Report {
	rows := make([]RunRow, 0, len(runs))
	rateSet := make(map[float64]struct{})
	feeSet := make(map[float64]struct{})

	for _, r := range runs {
		verdict := ""
		if r.Verdict != nil {
			verdict = *r.Verdict
		}
		rows = append(rows, RunRow{
			RunID:               r.RunID,
			TimeHorizonYears:    r.TimeHorizonYears,
			PeriodsPerYear:      r.PeriodsPerYear,
			AnnualDiscountRate:  r.AnnualDiscountRate,
			StakerFeeShare:      r.StakerFeeShare,
			CurveMid:            r.CurveMid,
			CurveSlope:          r.CurveSlope,
			CurveLimit:          r.CurveLimit,
			AvgTransactionValue: r.AvgTransactionValue,
			PreHorizon:          r.PreHorizon,
			PostHorizon:         r.PostHorizon,
			Total:               r.Total,
			Verdict:             verdict,
		})
		rateSet[r.AnnualDiscountRate] = struct{}{}
		feeSet[r.StakerFeeShare] = struct{}{}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AnnualDiscountRate != rows[j].AnnualDiscountRate {
			return rows[i].AnnualDiscountRate < rows[j].AnnualDiscountRate
		}
		return rows[i].StakerFeeShare < rows[j].StakerFeeShare
	})

	return &Report{
		GeneratedAt:   g.now(),
		RunCount:      len(rows),
		DiscountRates: sortedKeys(rateSet),
		FeeShares:     sortedKeys(feeSet),
		Runs:          rows,
	}
}

func sortedKeys(set map[float64]struct{}) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
