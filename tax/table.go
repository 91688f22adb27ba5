/*
Package tax implements the progressive income-tax bracket engine (ISR)
with the employment-subsidy offset (subsidio al empleo).

PURPOSE:
  Given a taxable income and the statutory bracket tables for a payroll
  periodicity, compute the withholding:

    tax     = quota + (income - lowerLimit) * marginalRate / 100
    subsidy = flat amount from the subsidy bracket containing the income
    netTax  = max(0, tax - subsidy)

  Tables are externally supplied configuration. This package validates
  their shape up front and treats any lookup miss on a validated table as
  a configuration defect, never a user error.

TABLE SHAPE:
  Brackets are ordered, ascending, non-overlapping, and gap-free; only
  the last bracket may (and must) be open-ended (nil upper limit). The
  marginal formula makes tax continuous at bracket boundaries and
  monotonically non-decreasing in income.

SEE ALSO:
  - compute.go: ComputeTax
  - contribution: Same bracket-resolution shape over contribution bases
  - factory: JSON definitions and statutory presets for these tables
*/
package tax

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// BRACKET TABLES
// =============================================================================

// Bracket is one row of a progressive tax table.
type Bracket struct {
	LowerLimit  decimal.Decimal
	UpperLimit  *decimal.Decimal // nil = open-ended, last row only
	FixedQuota  decimal.Decimal
	RatePercent decimal.Decimal // marginal rate applied over LowerLimit
}

// Table is the ISR bracket table for one payroll periodicity.
type Table struct {
	Name        string
	Periodicity engine.Periodicity
	Brackets    []Bracket
}

// SubsidyBracket is one row of an employment-subsidy table. The subsidy
// is a flat amount per bracket, non-increasing as income rises, reaching
// zero in the top bracket.
type SubsidyBracket struct {
	LowerLimit decimal.Decimal
	UpperLimit *decimal.Decimal
	Subsidy    decimal.Decimal
}

// SubsidyTable is the subsidy bracket table for one payroll periodicity.
type SubsidyTable struct {
	Name        string
	Periodicity engine.Periodicity
	Brackets    []SubsidyBracket
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the table's well-formedness: at least one bracket,
// ascending contiguous limits, non-negative quotas and rates, and a
// single open-ended terminal bracket.
func (t *Table) Validate() error {
	rows := make([]rowShape, len(t.Brackets))
	for i, b := range t.Brackets {
		rows[i] = rowShape{lower: b.LowerLimit, upper: b.UpperLimit}
		if b.FixedQuota.IsNegative() {
			return &engine.InvalidBracketTableError{Table: t.Name, Row: i, Reason: "negative fixed quota"}
		}
		if b.RatePercent.IsNegative() {
			return &engine.InvalidBracketTableError{Table: t.Name, Row: i, Reason: "negative marginal rate"}
		}
	}
	return validateShape(t.Name, rows)
}

// Validate checks the same shape invariants as Table.Validate, plus that
// subsidy amounts are non-negative.
func (t *SubsidyTable) Validate() error {
	rows := make([]rowShape, len(t.Brackets))
	for i, b := range t.Brackets {
		rows[i] = rowShape{lower: b.LowerLimit, upper: b.UpperLimit}
		if b.Subsidy.IsNegative() {
			return &engine.InvalidBracketTableError{Table: t.Name, Row: i, Reason: "negative subsidy"}
		}
	}
	return validateShape(t.Name, rows)
}

type rowShape struct {
	lower decimal.Decimal
	upper *decimal.Decimal
}

// maxGap is the largest allowed step between one bracket's upper limit
// and the next bracket's lower limit. Statutory tables step by one cent.
var maxGap = decimal.NewFromFloat(0.01)

func validateShape(name string, rows []rowShape) error {
	if len(rows) == 0 {
		return &engine.InvalidBracketTableError{Table: name, Row: 0, Reason: "table has no brackets"}
	}
	if rows[0].lower.Sign() > 0 {
		return &engine.InvalidBracketTableError{Table: name, Row: 0, Reason: "first bracket must start at zero"}
	}
	for i, row := range rows {
		terminal := i == len(rows)-1
		if terminal {
			if row.upper != nil {
				return &engine.InvalidBracketTableError{Table: name, Row: i, Reason: "last bracket must be open-ended"}
			}
			continue
		}
		if row.upper == nil {
			return &engine.InvalidBracketTableError{Table: name, Row: i, Reason: "open-ended bracket before last row"}
		}
		if row.upper.LessThan(row.lower) {
			return &engine.InvalidBracketTableError{Table: name, Row: i, Reason: "upper limit below lower limit"}
		}
		next := rows[i+1]
		if next.lower.LessThanOrEqual(*row.upper) {
			return &engine.InvalidBracketTableError{Table: name, Row: i + 1, Reason: "overlaps previous bracket"}
		}
		if next.lower.Sub(*row.upper).GreaterThan(maxGap) {
			return &engine.InvalidBracketTableError{Table: name, Row: i + 1, Reason: "gap after previous bracket"}
		}
	}
	return nil
}

// =============================================================================
// BRACKET RESOLUTION
// =============================================================================

// findBracket returns the index of the bracket containing the amount, or
// -1 when no bracket matches (possible only on a malformed table).
// On a validated table rows ascend and the first lower limit is zero, so
// the first row whose upper bound covers the amount is the unique match;
// this also keeps sub-cent amounts inside the one-cent steps between
// statutory rows from falling through.
func findBracket(rows []rowShape, amount decimal.Decimal) int {
	if amount.IsNegative() {
		return -1
	}
	for i, row := range rows {
		if row.upper == nil || amount.LessThanOrEqual(*row.upper) {
			return i
		}
	}
	return -1
}
