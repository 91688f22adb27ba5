/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  The taxonomy matters: input errors are the caller's fault and should be
  shown to the end user; configuration errors mean a statutory table is
  broken and an operator must be alerted instead.

ERROR CATEGORIES:
  1. Input errors - Invalid dates, non-positive amounts, bad formulas
  2. Configuration errors - Malformed bracket/rate tables

USAGE:
  Calculators wrap these sentinels with structured context:

    if errors.Is(err, engine.ErrInvalidInput) {
        // 400 - blame the request
    }
    if errors.Is(err, engine.ErrInvalidBracketTable) {
        // 500 - page an operator
    }

SEE ALSO:
  - formula/errors.go: Parse/evaluation errors (also input errors)
  - tax, contribution: Table validation wraps ErrInvalidBracketTable
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a caller-supplied fact is invalid:
	// non-positive salary, termination before hire, negative income or base.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidBracketTable is returned when a bracket or rate table is
	// malformed: gaps, overlaps, descending limits, or a missing open-ended
	// terminal bracket. This signals a configuration defect, never a user
	// error.
	ErrInvalidBracketTable = errors.New("invalid bracket table")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports which input failed validation and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// InvalidBracketTableError reports where a table violates well-formedness.
type InvalidBracketTableError struct {
	Table  string
	Row    int
	Reason string
}

func (e *InvalidBracketTableError) Error() string {
	return fmt.Sprintf("invalid bracket table %q row %d: %s", e.Table, e.Row, e.Reason)
}

func (e *InvalidBracketTableError) Unwrap() error { return ErrInvalidBracketTable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInputError returns true if the error is due to invalid caller input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConfigError returns true if the error indicates broken configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidBracketTable)
}
