// Package curve models transaction adoption over time.
package curve

import (
	"math"

	"token-dcf-lab/internal/domain"
)

// RateFunc is a transaction rate (transactions/year) as a function of time
// in years.
type RateFunc func(t float64) float64

// ValueFunc is the average transaction value (USD) as a function of time in
// years. The constant case is the only one used by the predefined scenarios,
// but the engine accepts any ValueFunc so value can vary with adoption.
type ValueFunc func(t float64) float64

// Logistic returns the S-shaped adoption rate function
// limit / (1 + exp(-slope*(t-mid))).
//
// The function is total over all real t: slope=0 degenerates to a constant
// limit/2, and extreme exponents saturate cleanly because exp overflows to
// +Inf (giving 0) or underflows to 0 (giving limit).
func Logistic(p domain.CurveParams) RateFunc {
	return func(t float64) float64 {
		return p.Limit / (1 + math.Exp(-p.Slope*(t-p.Mid)))
	}
}

// ConstantValue adapts a fixed average transaction value to a ValueFunc.
func ConstantValue(v float64) ValueFunc {
	return func(float64) float64 { return v }
}
