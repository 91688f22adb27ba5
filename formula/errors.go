/*
errors.go - Typed errors for formula parsing and evaluation

PURPOSE:
  Formula failures must be distinguishable and precise: a malformed
  expression carries the exact byte offset of the offending token, an
  unknown variable names EVERY missing identifier (not just the first),
  and division by zero points at the division that failed. The engine
  never substitutes a default value for a failed evaluation.

All formula errors are input errors: they unwrap to engine.ErrInvalidInput
so callers can classify them without knowing the concrete types.
*/
package formula

import (
	"fmt"
	"strings"

	"github.com/warp/payroll-engine/engine"
)

// ParseError reports malformed formula syntax.
// Pos is the byte offset of the offending token within the formula text.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return engine.ErrInvalidInput }

// UnknownVariableError reports every identifier referenced by the formula
// that is absent from the evaluation context, sorted alphabetically.
type UnknownVariableError struct {
	Names []string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable(s): %s", strings.Join(e.Names, ", "))
}

func (e *UnknownVariableError) Unwrap() error { return engine.ErrInvalidInput }

// DivisionByZeroError reports a division whose divisor evaluated to zero.
// Pos is the byte offset of the '/' operator.
type DivisionByZeroError struct {
	Pos int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero at position %d", e.Pos)
}

func (e *DivisionByZeroError) Unwrap() error { return engine.ErrInvalidInput }
