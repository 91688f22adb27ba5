/*
run.go - Composed payroll run over a full concept catalog

PURPOSE:
  The glue the surrounding application uses for an ordinary payroll
  period: resolve every configured concept, aggregate the taxable and
  contribution bases from the non-exempt portions, run the tax and
  contribution engines over those bases, and emit one itemized result
  with net pay. Data flows strictly downward - this layer calls the
  calculators; no calculator calls back up.
*/
package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/contribution"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/tax"
)

// RunInput bundles the configuration a payroll run needs. All tables are
// caller-supplied and never mutated.
type RunInput struct {
	Catalog       *Catalog
	Context       map[string]decimal.Decimal
	Periodicity   engine.Periodicity
	TaxTable      *tax.Table
	SubsidyTable  *tax.SubsidyTable
	Contributions *contribution.Table
}

// RunResult is the itemized outcome of one payroll run.
type RunResult struct {
	Items             []engine.LineItem
	Resolved          []Resolved
	TaxableBase       decimal.Decimal
	ContributionBase  decimal.Decimal
	Tax               tax.Result
	ContributionLines []contribution.Line
	Breakdown         engine.Breakdown
	NetPay            decimal.Decimal
}

// RunPayroll resolves every concept and composes tax and contributions on
// top. Earning concepts feed the bases through their non-exempt portions;
// the computed income tax and the employee share of each contribution
// enter the result as deduction line items.
//
// The run injects DIAS_PERIODO, the periodicity's conventional day count,
// into the formula context so concepts can scale daily amounts onto the
// period. A caller-supplied DIAS_PERIODO wins.
func RunPayroll(in RunInput) (*RunResult, error) {
	out := &RunResult{}

	ctx := in.Context
	if _, ok := ctx["DIAS_PERIODO"]; !ok && in.Periodicity.Valid() {
		merged := make(map[string]decimal.Decimal, len(ctx)+1)
		for k, v := range ctx {
			merged[k] = v
		}
		merged["DIAS_PERIODO"] = in.Periodicity.DaysInPeriod()
		ctx = merged
	}

	for _, concept := range in.Catalog.Concepts() {
		resolved, err := Resolve(concept, ctx)
		if err != nil {
			return nil, err
		}
		out.Resolved = append(out.Resolved, resolved)
		out.Items = append(out.Items, resolved.LineItem())

		if concept.Kind != Earning {
			continue
		}
		if concept.Taxable {
			out.TaxableBase = out.TaxableBase.Add(resolved.NonExempt)
		}
		if concept.ContributesToBase {
			out.ContributionBase = out.ContributionBase.Add(resolved.NonExempt)
		}
	}

	taxResult, err := tax.ComputeTax(out.TaxableBase, in.Periodicity, in.TaxTable, in.SubsidyTable)
	if err != nil {
		return nil, err
	}
	out.Tax = taxResult
	if taxResult.NetTax.IsPositive() {
		out.Items = append(out.Items, engine.LineItem{
			Concept:     "isr",
			Description: "Income tax withholding",
			Trace:       taxResult.Trace,
			Amount:      taxResult.NetTax,
			Kind:        engine.KindDeduction,
		})
	}

	lines, err := contribution.ComputeContributions(out.ContributionBase, in.Contributions)
	if err != nil {
		return nil, err
	}
	out.ContributionLines = lines
	for _, line := range lines {
		if !line.EmployeeAmount.IsPositive() {
			continue
		}
		out.Items = append(out.Items, engine.LineItem{
			Concept:     line.Concept,
			Description: "Employee contribution",
			Trace:       line.Trace,
			Amount:      line.EmployeeAmount,
			Kind:        engine.KindDeduction,
		})
	}

	out.Breakdown = engine.Summarize(out.Items)
	out.NetPay = out.Breakdown.Total()
	return out, nil
}
