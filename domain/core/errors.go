package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrShapeMismatch   = errors.New("active and lost series differ in length")
	ErrEmptySeries     = errors.New("observation series is empty")
	ErrNegativeCount   = errors.New("observation counts must be non-negative")
	ErrInvalidArgument = errors.New("invalid argument")

	// Model domain errors
	ErrNonPositiveShape = fmt.Errorf("%w: alpha and beta must be positive", ErrInvalidArgument)
	ErrInvalidPeriod    = fmt.Errorf("%w: period must be >= 1", ErrInvalidArgument)
	ErrInvalidDiscount  = fmt.Errorf("%w: discount rate must lie in [0, 1)", ErrInvalidArgument)
	ErrInvalidRenewals  = fmt.Errorf("%w: renewal count must be >= 2", ErrInvalidArgument)
	ErrInvalidHorizon   = fmt.Errorf("%w: horizon must be >= 1", ErrInvalidArgument)

	// Estimation errors
	ErrNonConvergence = errors.New("optimizer exhausted its budget without converging")
)

// Error constructors with context
func NewShapeMismatchError(activeLen, lostLen int) error {
	return fmt.Errorf("%w: active has %d periods, lost has %d", ErrShapeMismatch, activeLen, lostLen)
}

func NewNegativeCountError(series string, period int, value float64) error {
	return fmt.Errorf("%w: %s[%d] = %v", ErrNegativeCount, series, period, value)
}

func NewNonConvergenceError(status string, iterations, evaluations int) error {
	return fmt.Errorf("%w: status %s after %d iterations, %d evaluations",
		ErrNonConvergence, status, iterations, evaluations)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrEmptySeries) ||
		errors.Is(err, ErrNegativeCount) ||
		errors.Is(err, ErrInvalidArgument)
}

func IsNonConvergenceError(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}
