package reporting

import "time"

// Report is the rendered view of a set of valuation runs.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunCount    int

	// Sweep axes observed across the runs
	DiscountRates []float64
	FeeShares     []float64

	// Runs (sorted by discount rate, then fee share)
	Runs []RunRow
}

// RunRow is one valuation run in the report tables.
type RunRow struct {
	RunID string // abbreviated in rendering

	TimeHorizonYears    int
	PeriodsPerYear      int
	AnnualDiscountRate  float64
	StakerFeeShare      float64
	CurveMid            float64
	CurveSlope          float64
	CurveLimit          float64
	AvgTransactionValue float64

	PreHorizon  float64
	PostHorizon float64
	Total       float64

	Verdict string // empty when no market cap was supplied
}
