package ahocorasick

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is wrapped by InvalidPatternError.
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrOverlappingUnsupported is wrapped by ConfigurationError.
	ErrOverlappingUnsupported = errors.New("overlapping matches require standard match kind")

	// ErrReplacementCount is returned by Replacer.ReplaceAll when the number of
	// replacements differs from the number of patterns.
	ErrReplacementCount = errors.New("replacement count does not match pattern count")
)

// InvalidPatternError is returned when building an automaton from a pattern
// set that contains an empty pattern.
type InvalidPatternError struct {
	Index int
}

// Error implements the error interface
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern at index %d: you passed in an empty pattern", e.Index)
}

// Unwrap returns ErrEmptyPattern
func (e *InvalidPatternError) Unwrap() error {
	return ErrEmptyPattern
}

// ConfigurationError is returned when a search asks for overlapping matches
// from an automaton built with a leftmost match kind.
type ConfigurationError struct {
	MatchKind MatchKind
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("overlapping search with %s match kind: %v", e.MatchKind, ErrOverlappingUnsupported)
}

// Unwrap returns ErrOverlappingUnsupported
func (e *ConfigurationError) Unwrap() error {
	return ErrOverlappingUnsupported
}
