package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/catalog"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
)

// =============================================================================
// PAYROLL RUN TESTS
// =============================================================================

func monthlyCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.Concept{
			Name: "sueldo", Kind: catalog.Earning, Category: "percepcion",
			Formula: "SALARIO_DIARIO * 30", Taxable: true, ContributesToBase: true,
		},
		catalog.Concept{
			Name: "vales_despensa", Kind: catalog.Earning, Category: "percepcion",
			Formula:            "SALARIO_DIARIO * 30 * 10%",
			ExemptLimitFormula: "UMA * 30 * 40%",
			Taxable:            true,
		},
		catalog.Concept{
			Name: "prestamo", Kind: catalog.Deduction, Category: "deduccion",
			Formula: "PRESTAMO_MENSUAL",
		},
	)
	require.NoError(t, err)
	return c
}

func monthlyRunInput(t *testing.T) catalog.RunInput {
	t.Helper()
	return catalog.RunInput{
		Catalog: monthlyCatalog(t),
		Context: ctx(
			"SALARIO_DIARIO", "500",
			"UMA", "108.57",
			"PRESTAMO_MENSUAL", "1000",
		),
		Periodicity:   engine.PeriodMonthly,
		TaxTable:      factory.MonthlyTaxTable2024(),
		SubsidyTable:  factory.MonthlySubsidyTable2024(),
		Contributions: factory.IMSSRateTable2024(),
	}
}

func TestRunPayroll_ComposesTaxAndContributions(t *testing.T) {
	// GIVEN: A monthly catalog over a 500/day salary with a partially
	//        exempt voucher concept and a loan deduction
	// WHEN: Running payroll with the statutory 2024 tables
	// THEN: Bases aggregate only non-exempt earning portions, and the
	//       withholding lines land as deductions

	result, err := catalog.RunPayroll(monthlyRunInput(t))
	require.NoError(t, err)

	// sueldo 15000 fully non-exempt; vales 1500 with limit
	// 108.57 × 30 × 40% = 1302.84, so 197.16 spills into the taxable base.
	assert.True(t, result.TaxableBase.Equal(d("15197.16")), "taxable base %s", result.TaxableBase)
	// vales does not contribute to the social security base.
	assert.True(t, result.ContributionBase.Equal(d("15000.00")), "contribution base %s", result.ContributionBase)

	// 1182.88 + (15197.16 − 12935.83) × 17.92%, zero subsidy at this level.
	assert.True(t, result.Tax.NetTax.Equal(d("1588.11")), "net tax %s", result.Tax.NetTax)

	// 3 concepts + ISR + the 4 contribution concepts with an employee share.
	assert.Len(t, result.Items, 8)

	var isr engine.LineItem
	for _, it := range result.Items {
		if it.Concept == "isr" {
			isr = it
		}
	}
	assert.Equal(t, engine.KindDeduction, isr.Kind)
	assert.True(t, isr.Amount.Equal(d("1588.11")))

	// Employee shares on 15000: 37.50 + 56.25 + 93.75 + 168.75 = 356.25.
	assert.True(t, result.Breakdown.SubtotalEarnings.Equal(d("16500.00")))
	assert.True(t, result.Breakdown.SubtotalDeductions.Equal(d("2944.36")))
	assert.True(t, result.NetPay.Equal(d("13555.64")), "net pay %s", result.NetPay)
}

func TestRunPayroll_EmployerSharesStayOutOfNetPay(t *testing.T) {
	result, err := catalog.RunPayroll(monthlyRunInput(t))
	require.NoError(t, err)

	// Employer amounts are reported on the contribution lines but never
	// deducted from the employee.
	require.Len(t, result.ContributionLines, 6)
	for _, line := range result.ContributionLines {
		if line.Concept == "retiro" {
			assert.True(t, line.EmployerAmount.Equal(d("300.00")), "retiro employer %s", line.EmployerAmount)
		}
	}
	for _, it := range result.Items {
		if it.Concept == "retiro" || it.Concept == "guarderias" {
			t.Errorf("employer-only concept %s must not appear as a deduction item", it.Concept)
		}
	}
}

func TestRunPayroll_InjectsPeriodDays(t *testing.T) {
	// GIVEN: A concept scaling the daily salary by DIAS_PERIODO, which
	//        the caller does not supply
	// WHEN: Running monthly
	// THEN: The run injects the monthly convention (30.4 days)

	c, err := catalog.New(catalog.Concept{
		Name: "sueldo", Kind: catalog.Earning,
		Formula: "SALARIO_DIARIO * DIAS_PERIODO", Taxable: true, ContributesToBase: true,
	})
	require.NoError(t, err)

	in := monthlyRunInput(t)
	in.Catalog = c
	result, err := catalog.RunPayroll(in)
	require.NoError(t, err)
	assert.True(t, result.TaxableBase.Equal(d("15200")), "taxable base %s", result.TaxableBase)
}

func TestRunPayroll_CallerPeriodDaysWin(t *testing.T) {
	c, err := catalog.New(catalog.Concept{
		Name: "sueldo", Kind: catalog.Earning,
		Formula: "SALARIO_DIARIO * DIAS_PERIODO", Taxable: true, ContributesToBase: true,
	})
	require.NoError(t, err)

	in := monthlyRunInput(t)
	in.Catalog = c
	in.Context["DIAS_PERIODO"] = d("30")
	result, err := catalog.RunPayroll(in)
	require.NoError(t, err)
	assert.True(t, result.TaxableBase.Equal(d("15000")), "taxable base %s", result.TaxableBase)
}

func TestRunPayroll_EmptyCatalog_ZeroEverything(t *testing.T) {
	empty, err := catalog.New()
	require.NoError(t, err)

	in := monthlyRunInput(t)
	in.Catalog = empty
	result, err := catalog.RunPayroll(in)
	require.NoError(t, err)

	assert.True(t, result.TaxableBase.IsZero())
	assert.True(t, result.NetPay.IsZero())
	// Neither an ISR line nor employee contribution lines on a zero base.
	for _, it := range result.Items {
		t.Errorf("unexpected item %s on empty catalog", it.Concept)
	}
}

func TestRunPayroll_MissingVariable_Fails(t *testing.T) {
	in := monthlyRunInput(t)
	delete(in.Context, "PRESTAMO_MENSUAL")

	_, err := catalog.RunPayroll(in)
	require.Error(t, err)
	assert.True(t, engine.IsInputError(err))
}

func TestRunPayroll_Deterministic(t *testing.T) {
	first, err := catalog.RunPayroll(monthlyRunInput(t))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := catalog.RunPayroll(monthlyRunInput(t))
		require.NoError(t, err)
		assert.True(t, first.NetPay.Equal(again.NetPay))
		require.Len(t, again.Items, len(first.Items))
		for j := range first.Items {
			assert.Equal(t, first.Items[j].Concept, again.Items[j].Concept)
			assert.True(t, first.Items[j].Amount.Equal(again.Items[j].Amount))
		}
	}
}
