/*
presets.go - Canned 2024 statutory tables

PURPOSE:
  Demo and test fixtures built from the 2024 published tables: the
  monthly ISR withholding table (Anexo 8), the classic employment
  subsidy decree table, and an IMSS worker/employer rate table with the
  escalating CEAV employer bracket. These are fixtures for the demo
  server and tests - production deployments load the current tables as
  JSON configuration instead.
*/
package factory

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/contribution"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/severance"
	"github.com/warp/payroll-engine/tax"
)

func dec(s string) decimal.Decimal { return engine.MustDecimal(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// MonthlyTaxTable2024 returns the 2024 monthly ISR withholding table.
func MonthlyTaxTable2024() *tax.Table {
	return &tax.Table{
		Name:        "isr-monthly-2024",
		Periodicity: engine.PeriodMonthly,
		Brackets: []tax.Bracket{
			{LowerLimit: dec("0.00"), UpperLimit: decPtr("746.04"), FixedQuota: dec("0.00"), RatePercent: dec("1.92")},
			{LowerLimit: dec("746.05"), UpperLimit: decPtr("6332.05"), FixedQuota: dec("14.32"), RatePercent: dec("6.40")},
			{LowerLimit: dec("6332.06"), UpperLimit: decPtr("11128.01"), FixedQuota: dec("371.83"), RatePercent: dec("10.88")},
			{LowerLimit: dec("11128.02"), UpperLimit: decPtr("12935.82"), FixedQuota: dec("893.63"), RatePercent: dec("16.00")},
			{LowerLimit: dec("12935.83"), UpperLimit: decPtr("15487.71"), FixedQuota: dec("1182.88"), RatePercent: dec("17.92")},
			{LowerLimit: dec("15487.72"), UpperLimit: decPtr("31236.49"), FixedQuota: dec("1640.18"), RatePercent: dec("21.36")},
			{LowerLimit: dec("31236.50"), UpperLimit: decPtr("49233.00"), FixedQuota: dec("5004.12"), RatePercent: dec("23.52")},
			{LowerLimit: dec("49233.01"), UpperLimit: decPtr("93993.90"), FixedQuota: dec("9236.89"), RatePercent: dec("30.00")},
			{LowerLimit: dec("93993.91"), UpperLimit: decPtr("125325.20"), FixedQuota: dec("22665.17"), RatePercent: dec("32.00")},
			{LowerLimit: dec("125325.21"), UpperLimit: decPtr("375975.61"), FixedQuota: dec("32691.18"), RatePercent: dec("34.00")},
			{LowerLimit: dec("375975.62"), FixedQuota: dec("117912.32"), RatePercent: dec("35.00")},
		},
	}
}

// MonthlySubsidyTable2024 returns the monthly employment-subsidy bracket
// table (flat amount per bracket, reaching zero in the top bracket).
func MonthlySubsidyTable2024() *tax.SubsidyTable {
	return &tax.SubsidyTable{
		Name:        "subsidio-monthly-2024",
		Periodicity: engine.PeriodMonthly,
		Brackets: []tax.SubsidyBracket{
			{LowerLimit: dec("0.00"), UpperLimit: decPtr("1768.96"), Subsidy: dec("407.02")},
			{LowerLimit: dec("1768.97"), UpperLimit: decPtr("2653.38"), Subsidy: dec("406.83")},
			{LowerLimit: dec("2653.39"), UpperLimit: decPtr("3472.84"), Subsidy: dec("406.62")},
			{LowerLimit: dec("3472.85"), UpperLimit: decPtr("3537.87"), Subsidy: dec("392.77")},
			{LowerLimit: dec("3537.88"), UpperLimit: decPtr("4446.15"), Subsidy: dec("382.46")},
			{LowerLimit: dec("4446.16"), UpperLimit: decPtr("4717.18"), Subsidy: dec("354.23")},
			{LowerLimit: dec("4717.19"), UpperLimit: decPtr("5335.42"), Subsidy: dec("324.87")},
			{LowerLimit: dec("5335.43"), UpperLimit: decPtr("6224.67"), Subsidy: dec("294.63")},
			{LowerLimit: dec("6224.68"), UpperLimit: decPtr("7113.90"), Subsidy: dec("253.54")},
			{LowerLimit: dec("7113.91"), UpperLimit: decPtr("7382.33"), Subsidy: dec("217.61")},
			{LowerLimit: dec("7382.34"), Subsidy: dec("0.00")},
		},
	}
}

// IMSSRateTable2024 returns a worker/employer contribution rate table
// for 2024, including the escalating CEAV employer bracket (multiples of
// the UMA over the contribution base).
func IMSSRateTable2024() *contribution.Table {
	return &contribution.Table{
		Name:          "imss-2024",
		ReferenceUnit: dec("108.57"), // UMA daily value 2024
		Rates: []contribution.Rate{
			{Concept: "enfermedad_maternidad", EmployerPercent: dec("0.70"), EmployeePercent: dec("0.25")},
			{Concept: "gastos_medicos_pensionados", EmployerPercent: dec("1.05"), EmployeePercent: dec("0.375")},
			{Concept: "invalidez_vida", EmployerPercent: dec("1.75"), EmployeePercent: dec("0.625")},
			{Concept: "retiro", EmployerPercent: dec("2.00"), EmployeePercent: dec("0.00")},
			{Concept: "guarderias", EmployerPercent: dec("1.00"), EmployeePercent: dec("0.00")},
			{
				Concept: "cesantia_vejez",
				Brackets: []contribution.RateBracket{
					{LowerMultiple: dec("0.00"), UpperMultiple: decPtr("1.00"), EmployerPercent: dec("3.150"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("1.01"), UpperMultiple: decPtr("1.50"), EmployerPercent: dec("3.281"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("1.51"), UpperMultiple: decPtr("2.00"), EmployerPercent: dec("3.575"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("2.01"), UpperMultiple: decPtr("2.50"), EmployerPercent: dec("3.751"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("2.51"), UpperMultiple: decPtr("3.00"), EmployerPercent: dec("3.869"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("3.01"), UpperMultiple: decPtr("3.50"), EmployerPercent: dec("3.953"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("3.51"), UpperMultiple: decPtr("4.00"), EmployerPercent: dec("4.016"), EmployeePercent: dec("1.125")},
					{LowerMultiple: dec("4.01"), EmployerPercent: dec("4.241"), EmployeePercent: dec("1.125")},
				},
			},
		},
	}
}

// Statutory2024 returns the 2024 general-zone statutory parameters for
// severance calculations.
func Statutory2024() severance.Statutory {
	return severance.Statutory{
		MinimumWage:            dec("248.93"),
		AguinaldoDays:          15,
		VacationPremiumPercent: dec("25"),
	}
}
