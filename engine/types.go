/*
Package engine provides the shared data model for the payroll calculation
engine.

PURPOSE:
  This package contains the value types every calculator produces and
  consumes: monetary amounts, itemized settlement lines, periodicities,
  and the typed errors that distinguish caller mistakes from broken
  configuration. Whether computing a severance settlement, an income tax
  withholding, or a configurable payroll concept, the same shapes flow out.

KEY CONCEPTS IN THIS FILE (types.go):
  - LineItem: One auditable monetary line with its derivation trace
  - Breakdown/SettlementResult: Itemized, immutable calculation output
  - Periodicity: Payroll period granularity for bracket tables

DESIGN PRINCIPLES:
  1. Immutability: Results are value objects, never mutated after return
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Auditability: Every line item carries a human-readable Trace
  4. Purity: Nothing here holds state; calculators are pure functions

SEE ALSO:
  - errors.go: Centralized error taxonomy
  - dates.go: Date and seniority arithmetic
  - severance, tax, contribution, formula: The calculators themselves
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LINE ITEMS - Itemized, auditable monetary output
// =============================================================================

// LineKind classifies a line item as money paid to or withheld from the
// employee.
type LineKind string

const (
	KindEarning   LineKind = "earning"
	KindDeduction LineKind = "deduction"
)

// LineItem is a single monetary line in a calculation result.
// Amount is always non-negative; Kind determines its sign in totals.
type LineItem struct {
	Concept     string          `json:"concept"`
	Description string          `json:"description"`
	Trace       string          `json:"calculation_trace"` // human-readable derivation, e.g. "300.00 × 15 × (120/365)"
	Amount      decimal.Decimal `json:"amount"`
	Kind        LineKind        `json:"kind"`
}

// Breakdown aggregates line items by kind.
type Breakdown struct {
	SubtotalEarnings   decimal.Decimal `json:"subtotal_earnings"`
	SubtotalDeductions decimal.Decimal `json:"subtotal_deductions"`
}

// Summarize computes the breakdown of a set of line items.
func Summarize(items []LineItem) Breakdown {
	var b Breakdown
	for _, it := range items {
		switch it.Kind {
		case KindDeduction:
			b.SubtotalDeductions = b.SubtotalDeductions.Add(it.Amount)
		default:
			b.SubtotalEarnings = b.SubtotalEarnings.Add(it.Amount)
		}
	}
	return b
}

// Total returns earnings minus deductions.
func (b Breakdown) Total() decimal.Decimal {
	return b.SubtotalEarnings.Sub(b.SubtotalDeductions)
}

// =============================================================================
// PERIODICITY - Payroll period granularity
// =============================================================================

// Periodicity identifies which bracket table applies to a payment run.
type Periodicity string

const (
	PeriodDaily    Periodicity = "daily"
	PeriodWeekly   Periodicity = "weekly"
	PeriodTenDay   Periodicity = "ten_day" // decenal
	PeriodBiweekly Periodicity = "biweekly"
	PeriodMonthly  Periodicity = "monthly"
)

// Valid reports whether p is one of the known periodicities.
func (p Periodicity) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodTenDay, PeriodBiweekly, PeriodMonthly:
		return true
	}
	return false
}

// DaysInPeriod returns the conventional day count for a periodicity,
// used to scale daily amounts onto a period base.
func (p Periodicity) DaysInPeriod() decimal.Decimal {
	switch p {
	case PeriodDaily:
		return decimal.NewFromInt(1)
	case PeriodWeekly:
		return decimal.NewFromInt(7)
	case PeriodTenDay:
		return decimal.NewFromInt(10)
	case PeriodBiweekly:
		return decimal.NewFromInt(15)
	default:
		return decimal.NewFromFloat(30.4)
	}
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Cents rounds a monetary amount to two decimal places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustDecimal parses a decimal literal, panicking on malformed input.
// Intended for constants and test fixtures only.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("engine: bad decimal literal " + s)
	}
	return d
}

// MaxZero clamps a negative amount to zero.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of two decimals.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
