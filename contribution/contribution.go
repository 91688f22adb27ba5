/*
Package contribution implements the social-security contribution engine.

PURPOSE:
  Computes employer and employee contribution amounts over a contribution
  base (SBC). Most concepts are flat percentages of the base; some, like
  the CEAV retirement branch, escalate by bracket of the base expressed
  in multiples of a reference unit (UMA). Bracket resolution follows the
  same shape as the tax engine: ordered, gap-free, single open-ended
  terminal row.

CONTRACT:
  ComputeContributions(base, table) -> one Line per configured concept

  The table is never mutated; same failure taxonomy as the tax engine
  (InvalidInputError for a negative base, InvalidBracketTableError for a
  malformed table).

SEE ALSO:
  - tax: Bracket lookup this package mirrors
  - factory: JSON definitions and the IMSS preset table
*/
package contribution

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// RATE TABLES
// =============================================================================

// RateBracket escalates a rate by the base expressed in reference-unit
// multiples: applies when lowerMultiple <= base/referenceUnit <= upperMultiple.
type RateBracket struct {
	LowerMultiple   decimal.Decimal
	UpperMultiple   *decimal.Decimal // nil = open-ended, last row only
	EmployerPercent decimal.Decimal
	EmployeePercent decimal.Decimal
}

// Rate configures one contribution concept. Flat concepts leave Brackets
// empty and use the top-level percentages; bracketed concepts resolve the
// applicable row first.
type Rate struct {
	Concept         string
	EmployerPercent decimal.Decimal
	EmployeePercent decimal.Decimal
	Brackets        []RateBracket
}

// Table is a full contribution rate table. ReferenceUnit (e.g. the UMA
// daily value) anchors bracketed rates; it must be positive when any
// concept is bracketed.
type Table struct {
	Name          string
	ReferenceUnit decimal.Decimal
	Rates         []Rate
}

// Line is the computed contribution for one concept.
type Line struct {
	Concept        string          `json:"concept"`
	EmployerAmount decimal.Decimal `json:"employer_amount"`
	EmployeeAmount decimal.Decimal `json:"employee_amount"`
	Trace          string          `json:"calculation_trace"`
}

// =============================================================================
// VALIDATION
// =============================================================================

// maxMultipleGap is the largest allowed step between one bracket's upper
// multiple and the next bracket's lower multiple. Statutory CEAV bands
// step by one hundredth of a reference-unit multiple.
var maxMultipleGap = decimal.NewFromFloat(0.01)

// Validate checks rate signs and bracket shape for every concept.
func (t *Table) Validate() error {
	for i, r := range t.Rates {
		name := fmt.Sprintf("%s/%s", t.Name, r.Concept)
		if r.EmployerPercent.IsNegative() || r.EmployeePercent.IsNegative() {
			return &engine.InvalidBracketTableError{Table: name, Row: i, Reason: "negative rate"}
		}
		if len(r.Brackets) == 0 {
			continue
		}
		if !t.ReferenceUnit.IsPositive() {
			return &engine.InvalidBracketTableError{Table: t.Name, Row: i, Reason: "bracketed concept requires positive reference unit"}
		}
		if r.Brackets[0].LowerMultiple.Sign() > 0 {
			return &engine.InvalidBracketTableError{Table: name, Row: 0, Reason: "first bracket must start at zero"}
		}
		for j, b := range r.Brackets {
			terminal := j == len(r.Brackets)-1
			if b.EmployerPercent.IsNegative() || b.EmployeePercent.IsNegative() {
				return &engine.InvalidBracketTableError{Table: name, Row: j, Reason: "negative rate"}
			}
			if terminal {
				if b.UpperMultiple != nil {
					return &engine.InvalidBracketTableError{Table: name, Row: j, Reason: "last bracket must be open-ended"}
				}
				continue
			}
			if b.UpperMultiple == nil {
				return &engine.InvalidBracketTableError{Table: name, Row: j, Reason: "open-ended bracket before last row"}
			}
			if b.UpperMultiple.LessThan(b.LowerMultiple) {
				return &engine.InvalidBracketTableError{Table: name, Row: j, Reason: "upper multiple below lower multiple"}
			}
			if r.Brackets[j+1].LowerMultiple.LessThanOrEqual(*b.UpperMultiple) {
				return &engine.InvalidBracketTableError{Table: name, Row: j + 1, Reason: "overlaps previous bracket"}
			}
			if r.Brackets[j+1].LowerMultiple.Sub(*b.UpperMultiple).GreaterThan(maxMultipleGap) {
				return &engine.InvalidBracketTableError{Table: name, Row: j + 1, Reason: "gap after previous bracket"}
			}
		}
	}
	return nil
}

// =============================================================================
// COMPUTATION
// =============================================================================

var hundred = decimal.NewFromInt(100)

// ComputeContributions returns one line per configured concept. The input
// base must be non-negative; the table is treated as immutable.
func ComputeContributions(base decimal.Decimal, table *Table) ([]Line, error) {
	if base.IsNegative() {
		return nil, engine.NewInvalidInput("base", "must be non-negative")
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(table.Rates))
	for _, r := range table.Rates {
		employerPct, employeePct := r.EmployerPercent, r.EmployeePercent
		trace := fmt.Sprintf("%s × %s%% / %s%%", base.StringFixed(2), employerPct.String(), employeePct.String())

		if len(r.Brackets) > 0 {
			multiple := base.Div(table.ReferenceUnit)
			idx := findRateBracket(r.Brackets, multiple)
			if idx < 0 {
				return nil, &engine.InvalidBracketTableError{
					Table:  table.Name + "/" + r.Concept,
					Row:    -1,
					Reason: "no bracket matches base multiple " + multiple.StringFixed(4),
				}
			}
			b := r.Brackets[idx]
			employerPct, employeePct = b.EmployerPercent, b.EmployeePercent
			trace = fmt.Sprintf("base %s = %s × reference unit ⇒ bracket %d: %s%% / %s%%",
				base.StringFixed(2), multiple.StringFixed(4), idx, employerPct.String(), employeePct.String())
		}

		lines = append(lines, Line{
			Concept:        r.Concept,
			EmployerAmount: engine.Cents(base.Mul(employerPct).Div(hundred)),
			EmployeeAmount: engine.Cents(base.Mul(employeePct).Div(hundred)),
			Trace:          trace,
		})
	}
	return lines, nil
}

// findRateBracket matches the first bracket whose upper multiple covers
// the value; on a validated ascending table this is the unique match and
// values inside the one-hundredth steps between rows cannot fall through.
func findRateBracket(brackets []RateBracket, multiple decimal.Decimal) int {
	if multiple.IsNegative() {
		return -1
	}
	for i, b := range brackets {
		if b.UpperMultiple == nil || multiple.LessThanOrEqual(*b.UpperMultiple) {
			return i
		}
	}
	return -1
}
