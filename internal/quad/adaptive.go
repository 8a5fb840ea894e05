// Package quad provides adaptive numerical quadrature for smooth integrands.
package quad

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence is returned when the recursion depth budget is exhausted
// before the error estimate drops below tolerance.
var ErrNoConvergence = errors.New("quadrature did not converge")

const (
	// DefaultTolerance is the default error tolerance, applied relative to
	// the magnitude of the integral, with the same absolute floor for
	// integrals below 1. The valuation integrands are smooth and bounded,
	// so adaptive Simpson reaches well past six significant digits at this
	// setting.
	DefaultTolerance = 1e-9

	// defaultMaxDepth bounds the interval bisection recursion.
	defaultMaxDepth = 48

	// residualNoiseUlps is the rounding floor of the Richardson residual,
	// in ulps of the whole-interval estimate. Residuals below it are
	// float64 noise that further bisection cannot reduce.
	residualNoiseUlps = 4
)

// Integrator evaluates definite integrals with adaptive Simpson quadrature.
// The zero value is not usable; construct with New.
type Integrator struct {
	tol      float64
	maxDepth int
}

// New returns an Integrator with the given tolerance. The tolerance is
// relative to the magnitude of the integral, with an absolute floor of the
// same value for integrals below 1, so large-scale integrands do not demand
// sub-ulp accuracy. A non-positive tolerance falls back to DefaultTolerance.
func New(tol float64) *Integrator {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &Integrator{tol: tol, maxDepth: defaultMaxDepth}
}

// Integrate returns the definite integral of f over [a, b). Deterministic
// for fixed inputs. Returns ErrNoConvergence (wrapped) if the adaptive
// refinement cannot meet tolerance, and an error on non-finite values.
func (q *Integrator) Integrate(f func(float64) float64, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return 0, fmt.Errorf("quad: non-finite interval [%g, %g)", a, b)
	}

	whole := simpson(f, a, b)
	tol := q.tol * math.Max(1, math.Abs(whole))
	v, err := q.refine(f, a, b, whole, tol, q.maxDepth)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("quad: non-finite integral over [%g, %g)", a, b)
	}
	return v, nil
}

// simpson is the three-point Simpson estimate over [a, b].
func simpson(f func(float64) float64, a, b float64) float64 {
	c := (a + b) / 2
	return (b - a) / 6 * (f(a) + 4*f(c) + f(b))
}

// refine recursively bisects until the Richardson error estimate for the
// interval is within tol. The tolerance is halved per side so the per-leaf
// errors sum to at most the original budget; residuals already at the
// rounding floor of the estimate are accepted regardless, since bisection
// cannot shrink them.
func (q *Integrator) refine(f func(float64) float64, a, b, whole, tol float64, depth int) (float64, error) {
	c := (a + b) / 2
	left := simpson(f, a, c)
	right := simpson(f, c, b)
	diff := left + right - whole

	noise := residualNoiseUlps * math.Abs(whole) * 0x1p-52
	if math.Abs(diff) <= 15*tol || math.Abs(diff) <= noise {
		return left + right + diff/15, nil
	}
	if depth <= 0 {
		return 0, fmt.Errorf("%w: interval [%g, %g), residual %g", ErrNoConvergence, a, b, math.Abs(diff))
	}

	lv, err := q.refine(f, a, c, left, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	rv, err := q.refine(f, c, b, right, tol/2, depth-1)
	if err != nil {
		return 0, err
	}
	return lv + rv, nil
}
