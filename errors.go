package seqcomp

import "errors"

// Common errors used throughout the seqcomp package
var (
	// ErrEmptyInput is returned when the translation input contains no
	// tokens at all.
	ErrEmptyInput = errors.New("empty comprehension input")
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
)
