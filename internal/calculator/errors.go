package calculator

import "errors"

var (
	// ErrEmptySeries is returned by operations that need at least one point.
	ErrEmptySeries = errors.New("price series is empty")
	// ErrInsufficientData is returned when a window is longer than the input.
	ErrInsufficientData = errors.New("not enough data for indicator window")
)
