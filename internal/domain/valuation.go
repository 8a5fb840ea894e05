package domain

// PeriodPoint is one staking period of the derived series.
type PeriodPoint struct {
	Index        int     // 1-based period index
	YearStart    float64 // period start on the time axis, years
	YearEnd      float64 // period end on the time axis, years
	Transactions float64 // integral of the adoption curve over the period
	Cashflow     float64 // staker cash flow for the period, USD
	Discounted   float64 // cash flow discounted to present value, USD
}

// ValuationResult is the full output of one valuation run: the per-period
// series plus the three aggregate scalars. Callers render or persist it
// without re-deriving any values.
type ValuationResult struct {
	Params        Parameters
	EffectiveRate float64 // per-period discount factor base

	Periods []PeriodPoint

	PreHorizon  float64 // sum of discounted pre-horizon cash flows, USD
	PostHorizon float64 // perpetuity tail estimate, USD
	Total       float64 // PreHorizon + PostHorizon, USD
}

// Verdict classifications for a valuation compared against market cap.
const (
	VerdictUndervalued = "UNDERVALUED"
	VerdictOvervalued  = "OVERVALUED"
	VerdictFairValue   = "FAIR_VALUE"
)

// ValuationRun is the persisted record of a completed valuation.
// RunID is the deterministic SHA-256 of the canonical parameter encoding,
// so re-running identical parameters yields the same key.
type ValuationRun struct {
	RunID string

	// Inputs
	TimeHorizonYears    int
	PeriodsPerYear      int
	AnnualDiscountRate  float64
	StakerFeeShare      float64
	CurveMid            float64
	CurveSlope          float64
	CurveLimit          float64
	AvgTransactionValue float64

	// Aggregates
	EffectiveRate float64
	PreHorizon    float64
	PostHorizon   float64
	Total         float64

	// Verdict (optional, set when a market cap was supplied)
	MarketCap *float64
	Verdict   *string

	CreatedAtMs int64
}

// SeriesPoint is one persisted row of a run's per-period series.
type SeriesPoint struct {
	RunID        string
	PeriodIndex  int
	YearEnd      float64
	Transactions float64
	Cashflow     float64
	Discounted   float64
}
