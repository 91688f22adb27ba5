package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

func money(s string) decimal.Decimal { return engine.MustDecimal(s) }

// =============================================================================
// BREAKDOWN TESTS
// =============================================================================

func TestSummarize_SplitsByKind(t *testing.T) {
	items := []engine.LineItem{
		{Concept: "sueldo", Amount: money("5000.00"), Kind: engine.KindEarning},
		{Concept: "vales", Amount: money("800.00"), Kind: engine.KindEarning},
		{Concept: "isr", Amount: money("350.50"), Kind: engine.KindDeduction},
	}

	b := engine.Summarize(items)

	if !b.SubtotalEarnings.Equal(money("5800.00")) {
		t.Errorf("SubtotalEarnings = %s, want 5800.00", b.SubtotalEarnings)
	}
	if !b.SubtotalDeductions.Equal(money("350.50")) {
		t.Errorf("SubtotalDeductions = %s, want 350.50", b.SubtotalDeductions)
	}
	if !b.Total().Equal(money("5449.50")) {
		t.Errorf("Total = %s, want 5449.50", b.Total())
	}
}

func TestSummarize_Empty(t *testing.T) {
	b := engine.Summarize(nil)
	if !b.Total().IsZero() {
		t.Errorf("Total of empty breakdown = %s, want 0", b.Total())
	}
}

// =============================================================================
// PERIODICITY TESTS
// =============================================================================

func TestPeriodicity_Valid(t *testing.T) {
	for _, p := range []engine.Periodicity{
		engine.PeriodDaily, engine.PeriodWeekly, engine.PeriodTenDay,
		engine.PeriodBiweekly, engine.PeriodMonthly,
	} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if engine.Periodicity("quarterly").Valid() {
		t.Error("quarterly should not be valid")
	}
	if engine.Periodicity("").Valid() {
		t.Error("empty periodicity should not be valid")
	}
}

func TestPeriodicity_DaysInPeriod(t *testing.T) {
	if got := engine.PeriodBiweekly.DaysInPeriod(); !got.Equal(money("15")) {
		t.Errorf("biweekly days = %s, want 15", got)
	}
	if got := engine.PeriodMonthly.DaysInPeriod(); !got.Equal(money("30.4")) {
		t.Errorf("monthly days = %s, want 30.4", got)
	}
}

// =============================================================================
// MONEY HELPER TESTS
// =============================================================================

func TestCents(t *testing.T) {
	if got := engine.Cents(money("10.005")); !got.Equal(money("10.01")) {
		t.Errorf("Cents(10.005) = %s, want 10.01", got)
	}
	if got := engine.Cents(money("10.004")); !got.Equal(money("10.00")) {
		t.Errorf("Cents(10.004) = %s, want 10.00", got)
	}
}

func TestMaxZero(t *testing.T) {
	if got := engine.MaxZero(money("-5")); !got.IsZero() {
		t.Errorf("MaxZero(-5) = %s, want 0", got)
	}
	if got := engine.MaxZero(money("5")); !got.Equal(money("5")) {
		t.Errorf("MaxZero(5) = %s, want 5", got)
	}
}

// =============================================================================
// ERROR TAXONOMY TESTS
// =============================================================================

func TestErrorTaxonomy(t *testing.T) {
	input := engine.NewInvalidInput("salary", "must be positive")
	config := &engine.InvalidBracketTableError{Table: "isr", Row: 3, Reason: "gap after previous bracket"}

	if !engine.IsInputError(input) {
		t.Error("InvalidInputError should classify as input error")
	}
	if engine.IsConfigError(input) {
		t.Error("InvalidInputError should not classify as config error")
	}
	if !engine.IsConfigError(config) {
		t.Error("InvalidBracketTableError should classify as config error")
	}
	if engine.IsInputError(config) {
		t.Error("InvalidBracketTableError should not classify as input error")
	}
}
