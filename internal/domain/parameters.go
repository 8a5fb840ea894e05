package domain

import "fmt"

// CurveParams defines the logistic adoption curve
// limit / (1 + exp(-slope*(t-mid))), with t measured in years.
type CurveParams struct {
	Mid   float64 // inflection point, years
	Slope float64 // steepness, 1/years
	Limit float64 // saturation transaction rate, transactions/year
}

// Parameters holds the eight scalar inputs of a valuation run.
type Parameters struct {
	TimeHorizonYears    int     // years simulated before the perpetuity tail
	PeriodsPerYear      int     // staking periods per year (1, 4, 12, 52 by convention)
	AnnualDiscountRate  float64 // percent, > 0
	StakerFeeShare      float64 // percent of fee revenue to stakers, in (0, 100)
	Curve               CurveParams
	AvgTransactionValue float64 // USD per transaction, > 0
}

// Validate checks parameter domain validity. Invalid parameters fail fast
// here instead of producing NaN or negative valuations downstream.
func (p Parameters) Validate() error {
	if p.TimeHorizonYears < 1 {
		return fmt.Errorf("%w: time horizon must be >= 1 year, got %d", ErrInvalidParameter, p.TimeHorizonYears)
	}
	if p.PeriodsPerYear < 1 {
		return fmt.Errorf("%w: periods per year must be >= 1, got %d", ErrInvalidParameter, p.PeriodsPerYear)
	}
	if p.AnnualDiscountRate <= 0 {
		// The perpetuity tail needs an effective rate > 1.
		return fmt.Errorf("%w: annual discount rate must be > 0%%, got %g", ErrInvalidParameter, p.AnnualDiscountRate)
	}
	if p.StakerFeeShare <= 0 || p.StakerFeeShare >= 100 {
		return fmt.Errorf("%w: staker fee share must be in (0, 100), got %g", ErrInvalidParameter, p.StakerFeeShare)
	}
	if p.Curve.Limit <= 0 {
		return fmt.Errorf("%w: curve limit must be > 0, got %g", ErrInvalidParameter, p.Curve.Limit)
	}
	if p.AvgTransactionValue <= 0 {
		return fmt.Errorf("%w: average transaction value must be > 0, got %g", ErrInvalidParameter, p.AvgTransactionValue)
	}
	return nil
}

// PeriodCount returns the number of explicitly simulated staking periods.
func (p Parameters) PeriodCount() int {
	return p.TimeHorizonYears * p.PeriodsPerYear
}
