package shared

import "errors"

var (
	// ErrUnknownUnit indicates a unit id outside the registry.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrInsufficientData indicates a unit/period with no usable records.
	ErrInsufficientData = errors.New("insufficient data for period")
	// ErrDivisionByZero indicates a ratio whose denominator resolved to zero.
	ErrDivisionByZero = errors.New("division by zero")
)
