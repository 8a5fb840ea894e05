package domain

import "errors"

// Domain errors surfaced by parameter validation and the valuation engine.
var (
	// ErrInvalidParameter is returned when an input scalar is outside its
	// valid range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrIntegrationFailed is returned when the period integrator does not
	// converge within its tolerance budget.
	ErrIntegrationFailed = errors.New("integration failed")
)
