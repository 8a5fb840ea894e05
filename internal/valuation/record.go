package valuation

import (
	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/idhash"
)

// RunRecord flattens a result into its persistable run record.
func RunRecord(res *domain.ValuationResult, createdAtMs int64) *domain.ValuationRun {
	p := res.Params
	return &domain.ValuationRun{
		RunID: idhash.ComputeRunID(p),

		TimeHorizonYears:    p.TimeHorizonYears,
		PeriodsPerYear:      p.PeriodsPerYear,
		AnnualDiscountRate:  p.AnnualDiscountRate,
		StakerFeeShare:      p.StakerFeeShare,
		CurveMid:            p.Curve.Mid,
		CurveSlope:          p.Curve.Slope,
		CurveLimit:          p.Curve.Limit,
		AvgTransactionValue: p.AvgTransactionValue,

		EffectiveRate: res.EffectiveRate,
		PreHorizon:    res.PreHorizon,
		PostHorizon:   res.PostHorizon,
		Total:         res.Total,

		CreatedAtMs: createdAtMs,
	}
}

// SeriesPoints flattens the per-period series for bulk persistence.
func SeriesPoints(res *domain.ValuationResult) []*domain.SeriesPoint {
	runID := idhash.ComputeRunID(res.Params)
	points := make([]*domain.SeriesPoint, 0, len(res.Periods))
	for _, pp := range res.Periods {
		points = append(points, &domain.SeriesPoint{
			RunID:        runID,
			PeriodIndex:  pp.Index,
			YearEnd:      pp.YearEnd,
			Transactions: pp.Transactions,
			Cashflow:     pp.Cashflow,
			Discounted:   pp.Discounted,
		})
	}
	return points
}
