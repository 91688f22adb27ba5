package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TAX COMPUTATION
// =============================================================================

// Result is the outcome of one withholding calculation.
// NetTax is the amount actually withheld: max(0, Tax - Subsidy).
type Result struct {
	Tax     decimal.Decimal `json:"tax"`
	Subsidy decimal.Decimal `json:"subsidy"`
	NetTax  decimal.Decimal `json:"net_tax"`
	Trace   string          `json:"calculation_trace"`
}

// ComputeTax resolves the income's bracket in both tables and applies the
// marginal formula. Negative income is an input error; failure to match a
// bracket is a configuration error (tables are pre-validated to guarantee
// exactly one match for any non-negative income).
func ComputeTax(income decimal.Decimal, p engine.Periodicity, table *Table, subsidyTable *SubsidyTable) (Result, error) {
	if income.IsNegative() {
		return Result{}, engine.NewInvalidInput("taxableIncome", "must be non-negative")
	}
	if !p.Valid() {
		return Result{}, engine.NewInvalidInput("periodicity", "unknown value "+string(p))
	}
	if err := table.Validate(); err != nil {
		return Result{}, err
	}
	if err := subsidyTable.Validate(); err != nil {
		return Result{}, err
	}
	if table.Periodicity != p {
		return Result{}, engine.NewInvalidInput("taxTable", "periodicity mismatch")
	}
	if subsidyTable.Periodicity != p {
		return Result{}, engine.NewInvalidInput("subsidyTable", "periodicity mismatch")
	}

	rows := make([]rowShape, len(table.Brackets))
	for i, b := range table.Brackets {
		rows[i] = rowShape{lower: b.LowerLimit, upper: b.UpperLimit}
	}
	idx := findBracket(rows, income)
	if idx < 0 {
		return Result{}, &engine.InvalidBracketTableError{Table: table.Name, Row: -1, Reason: "no bracket matches income " + income.String()}
	}
	b := table.Brackets[idx]

	excess := income.Sub(b.LowerLimit)
	marginal := excess.Mul(b.RatePercent).Div(decimal.NewFromInt(100))
	tax := engine.Cents(b.FixedQuota.Add(marginal))

	subsidy, err := lookupSubsidy(subsidyTable, income)
	if err != nil {
		return Result{}, err
	}

	net := engine.MaxZero(tax.Sub(subsidy))

	return Result{
		Tax:     tax,
		Subsidy: subsidy,
		NetTax:  net,
		Trace: fmt.Sprintf("%s + (%s − %s) × %s%% = %s; subsidy %s; net %s",
			b.FixedQuota.StringFixed(2), income.StringFixed(2), b.LowerLimit.StringFixed(2),
			b.RatePercent.String(), tax.StringFixed(2), subsidy.StringFixed(2), net.StringFixed(2)),
	}, nil
}

func lookupSubsidy(t *SubsidyTable, income decimal.Decimal) (decimal.Decimal, error) {
	rows := make([]rowShape, len(t.Brackets))
	for i, b := range t.Brackets {
		rows[i] = rowShape{lower: b.LowerLimit, upper: b.UpperLimit}
	}
	idx := findBracket(rows, income)
	if idx < 0 {
		return decimal.Zero, &engine.InvalidBracketTableError{Table: t.Name, Row: -1, Reason: "no bracket matches income " + income.String()}
	}
	return t.Brackets[idx].Subsidy, nil
}
