/*
calculator.go - The settlement algorithm

PURPOSE:
  Single-shot, pure computation of a termination settlement. Either a
  complete SettlementResult comes back or a typed error; there is no
  partial result and nothing to retry.

ALGORITHM:
  1. Validate facts (positive salary, termination after start, known cause)
  2. Seniority: fractional years for proportions, completed anniversaries
     for step-function lookups
  3. Aguinaldo proporcional, floored at zero after days already paid
  4. Pending vacation days from the statutory ladder, minus days already
     taken, floored at zero
  5. Prima vacacional over the pending days
  6. Indemnización constitucional (90 days + 20 per completed year) for
     employer-liable causes only
  7. Prima de antigüedad capped at twice the minimum wage per day
  8. Caller-injected deductions, breakdown, total

  Every line item carries a reproducible calculation trace.

SEE ALSO:
  - types.go: Input/output shapes and the termination enumeration
  - vacation.go: The statutory ladder
*/
package severance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// Compute calculates the settlement for a terminated employment
// relationship. The function is pure: same inputs, same result.
func Compute(period EmploymentPeriod, tt TerminationType, opts Options) (*SettlementResult, error) {
	if !period.DailySalary.IsPositive() {
		return nil, engine.NewInvalidInput("dailySalary", "must be positive")
	}
	if !period.TerminationDate.After(period.StartDate) {
		return nil, engine.NewInvalidInput("terminationDate", "must be after startDate")
	}
	if !tt.Valid() {
		return nil, engine.NewInvalidInput("terminationType", "unknown value "+string(tt))
	}
	if opts.AlreadyPaidBonusDays < 0 {
		return nil, engine.NewInvalidInput("alreadyPaidBonusDays", "must be non-negative")
	}
	if opts.AlreadyPaidVacationDays < 0 {
		return nil, engine.NewInvalidInput("alreadyPaidVacationDays", "must be non-negative")
	}
	statutory := opts.Statutory.withDefaults()

	salary := period.DailySalary
	years := engine.YearsOfService(period.StartDate, period.TerminationDate)
	completed := engine.CompletedYears(period.StartDate, period.TerminationDate)
	serviceYear := engine.CurrentServiceYear(period.StartDate, period.TerminationDate)

	var items []engine.LineItem

	items = append(items, proportionalBonus(period, statutory, opts.AlreadyPaidBonusDays))

	pendingDays := VacationDaysForYear(serviceYear) - opts.AlreadyPaidVacationDays
	if pendingDays < 0 {
		pendingDays = 0
	}
	items = append(items, pendingVacation(salary, serviceYear, pendingDays, opts.AlreadyPaidVacationDays))
	items = append(items, vacationPremium(salary, pendingDays, statutory.VacationPremiumPercent))

	if tt.IndemnificationEligible() {
		items = append(items, constitutionalIndemnification(salary, completed))
	}
	if tt.SeniorityPremiumEligible(completed) {
		items = append(items, seniorityPremium(salary, completed, statutory.MinimumWage))
	}

	for _, d := range opts.Deductions {
		if d.Amount.IsNegative() {
			return nil, engine.NewInvalidInput("deductions", "amounts must be non-negative")
		}
		d.Kind = engine.KindDeduction
		items = append(items, d)
	}

	breakdown := engine.Summarize(items)
	return &SettlementResult{
		LaborInfo: LaborInfo{
			DailySalary:     salary,
			YearsOfService:  years.Round(4),
			CompletedYears:  completed,
			StartDate:       period.StartDate,
			TerminationDate: period.TerminationDate,
		},
		Type:      tt,
		Items:     items,
		Breakdown: breakdown,
		Total:     breakdown.Total(),
	}, nil
}

// =============================================================================
// LINE ITEM CALCULATIONS
// =============================================================================

// proportionalBonus computes the aguinaldo owed for the bonus year. The
// bonus year is the calendar year of the termination date; a termination
// exactly on January 1 settles the previous, complete year instead, since
// no day of the new year was worked.
func proportionalBonus(period EmploymentPeriod, statutory Statutory, paidDays int) engine.LineItem {
	daysWorked, daysInYear := DaysWorkedInYear(period.StartDate, period.TerminationDate)

	salary := period.DailySalary
	entitled := salary.
		Mul(decimal.NewFromInt(int64(statutory.AguinaldoDays))).
		Mul(decimal.NewFromInt(int64(daysWorked))).
		Div(decimal.NewFromInt(int64(daysInYear)))
	paid := salary.Mul(decimal.NewFromInt(int64(paidDays)))
	amount := engine.Cents(engine.MaxZero(entitled.Sub(paid)))

	return engine.LineItem{
		Concept:     "aguinaldo_proporcional",
		Description: "Proportional annual bonus",
		Trace: fmt.Sprintf("dailySalary(%s) × %d × (%d/%d) − %d×%s = %s",
			salary.StringFixed(2), statutory.AguinaldoDays, daysWorked, daysInYear,
			paidDays, salary.StringFixed(2), amount.StringFixed(2)),
		Amount: amount,
		Kind:   engine.KindEarning,
	}
}

func pendingVacation(salary decimal.Decimal, serviceYear, pendingDays, paidDays int) engine.LineItem {
	amount := engine.Cents(salary.Mul(decimal.NewFromInt(int64(pendingDays))))
	return engine.LineItem{
		Concept:     "vacaciones_pendientes",
		Description: "Pending vacation days",
		Trace: fmt.Sprintf("entitledDays(year %d)=%d − paid %d ⇒ %d × dailySalary(%s) = %s",
			serviceYear, VacationDaysForYear(serviceYear), paidDays, pendingDays,
			salary.StringFixed(2), amount.StringFixed(2)),
		Amount: amount,
		Kind:   engine.KindEarning,
	}
}

func vacationPremium(salary decimal.Decimal, pendingDays int, premiumPercent decimal.Decimal) engine.LineItem {
	rate := premiumPercent.Div(decimal.NewFromInt(100))
	amount := engine.Cents(salary.Mul(decimal.NewFromInt(int64(pendingDays))).Mul(rate))
	return engine.LineItem{
		Concept:     "prima_vacacional",
		Description: "Vacation premium",
		Trace: fmt.Sprintf("%d × dailySalary(%s) × %s%% = %s",
			pendingDays, salary.StringFixed(2), premiumPercent.String(), amount.StringFixed(2)),
		Amount: amount,
		Kind:   engine.KindEarning,
	}
}

// constitutionalIndemnification is the three-months-plus-twenty-days
// indemnification owed for employer-liable terminations.
func constitutionalIndemnification(salary decimal.Decimal, completedYears int) engine.LineItem {
	ninety := salary.Mul(decimal.NewFromInt(90))
	twentyPerYear := salary.Mul(decimal.NewFromInt(20)).Mul(decimal.NewFromInt(int64(completedYears)))
	amount := engine.Cents(ninety.Add(twentyPerYear))
	return engine.LineItem{
		Concept:     "indemnizacion_constitucional",
		Description: "Constitutional indemnification",
		Trace: fmt.Sprintf("90 × %s + 20 × %d × %s = %s",
			salary.StringFixed(2), completedYears, salary.StringFixed(2), amount.StringFixed(2)),
		Amount: amount,
		Kind:   engine.KindEarning,
	}
}

// seniorityPremium pays twelve days per completed year, with the daily
// base capped at twice the applicable minimum wage (LFT art. 162/486).
func seniorityPremium(salary decimal.Decimal, completedYears int, minimumWage decimal.Decimal) engine.LineItem {
	base := salary
	if minimumWage.IsPositive() {
		base = engine.Min(salary, minimumWage.Mul(decimal.NewFromInt(2)))
	}
	amount := engine.Cents(base.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromInt(int64(completedYears))))
	return engine.LineItem{
		Concept:     "prima_antiguedad",
		Description: "Seniority premium",
		Trace: fmt.Sprintf("min(dailySalary %s, 2×minWage %s)=%s × 12 × %d = %s",
			salary.StringFixed(2), minimumWage.StringFixed(2), base.StringFixed(2),
			completedYears, amount.StringFixed(2)),
		Amount: amount,
		Kind:   engine.KindEarning,
	}
}

// DaysWorkedInYear returns the aguinaldo proration inputs: the days
// worked in the bonus year and that year's length. The bonus year is the
// termination's calendar year; a termination exactly on January 1 settles
// the previous, complete year instead.
func DaysWorkedInYear(start, termination time.Time) (worked, total int) {
	year := termination.Year()
	if termination.Equal(engine.StartOfYear(year)) {
		year--
	}
	from := engine.StartOfYear(year)
	if start.After(from) {
		from = start
	}
	return engine.DaysBetween(from, termination), engine.DaysInYear(year)
}
