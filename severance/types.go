/*
Package severance computes end-of-employment settlements
(finiquito/liquidación).

PURPOSE:
  Turns the temporal and monetary facts of an employment relationship
  into itemized, legally-derived settlement line items: proportional
  annual bonus (aguinaldo), pending vacation and vacation premium, and -
  for employer-liable termination causes - constitutional indemnification
  and the seniority premium (prima de antigüedad).

KEY CONCEPTS IN THIS FILE (types.go):
  - TerminationType: Closed enumeration of termination causes; every
    entitlement branch switches over it exhaustively so a new cause can
    never silently fall through to a default
  - EmploymentPeriod: The immutable input facts
  - Options/Statutory: Days already paid and the statutory parameters
  - SettlementResult: The itemized, immutable output

SEE ALSO:
  - calculator.go: The settlement algorithm
  - vacation.go: Statutory vacation ladder (LFT art. 76)
*/
package severance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// TERMINATION TYPES - Closed enumeration
// =============================================================================

// TerminationType is the cause that ended the employment relationship.
// It determines which entitlement branches activate.
type TerminationType string

const (
	VoluntaryResignation      TerminationType = "renuncia_voluntaria"
	UnjustifiedDismissal      TerminationType = "despido_injustificado"
	JustifiedDismissal        TerminationType = "despido_justificado"
	EmployerFaultRescission   TerminationType = "rescision_patron"
	EmployeeFaultRescission   TerminationType = "rescision_trabajador"
	MutualAgreement           TerminationType = "mutuo_acuerdo"
	Abandonment               TerminationType = "abandono"
	FixedTermContractEnd      TerminationType = "fin_contrato"
	Death                     TerminationType = "muerte"
	PermanentDisability       TerminationType = "incapacidad_permanente"
	Retirement                TerminationType = "jubilacion"
	AdministrativeTermination TerminationType = "terminacion_administrativa"
)

// AllTerminationTypes lists every known cause, in declaration order.
func AllTerminationTypes() []TerminationType {
	return []TerminationType{
		VoluntaryResignation, UnjustifiedDismissal, JustifiedDismissal,
		EmployerFaultRescission, EmployeeFaultRescission, MutualAgreement,
		Abandonment, FixedTermContractEnd, Death, PermanentDisability,
		Retirement, AdministrativeTermination,
	}
}

// Valid reports whether t is a known termination type.
func (t TerminationType) Valid() bool {
	switch t {
	case VoluntaryResignation, UnjustifiedDismissal, JustifiedDismissal,
		EmployerFaultRescission, EmployeeFaultRescission, MutualAgreement,
		Abandonment, FixedTermContractEnd, Death, PermanentDisability,
		Retirement, AdministrativeTermination:
		return true
	}
	return false
}

// IndemnificationEligible reports whether the constitutional
// indemnification (90 days + 20 per year) applies. Only the
// involuntary, employer-liable causes qualify.
func (t TerminationType) IndemnificationEligible() bool {
	switch t {
	case UnjustifiedDismissal, EmployerFaultRescission:
		return true
	case VoluntaryResignation, JustifiedDismissal, EmployeeFaultRescission,
		MutualAgreement, Abandonment, FixedTermContractEnd, Death,
		PermanentDisability, Retirement, AdministrativeTermination:
		return false
	}
	return false
}

// SeniorityPremiumEligible reports whether the prima de antigüedad is
// payable for this cause at the given completed years of service
// (LFT art. 162): voluntary resignation requires fifteen years; the
// employer-liable causes, plus death, permanent disability and
// retirement, pay it from the first completed year.
func (t TerminationType) SeniorityPremiumEligible(completedYears int) bool {
	switch t {
	case VoluntaryResignation:
		return completedYears >= 15
	case UnjustifiedDismissal, EmployerFaultRescission, JustifiedDismissal,
		Death, PermanentDisability, Retirement, FixedTermContractEnd:
		return completedYears >= 1
	case EmployeeFaultRescission, MutualAgreement, Abandonment,
		AdministrativeTermination:
		return false
	}
	return false
}

// =============================================================================
// INPUT FACTS
// =============================================================================

// EmploymentPeriod holds the immutable facts of the relationship being
// settled.
type EmploymentPeriod struct {
	DailySalary     decimal.Decimal // integrated daily salary, > 0
	StartDate       time.Time
	TerminationDate time.Time // must be after StartDate
}

// Statutory holds the law-derived parameters of the calculation. Zero
// values fall back to the current statutory defaults via withDefaults.
type Statutory struct {
	MinimumWage            decimal.Decimal // daily minimum wage, caps the seniority premium base
	AguinaldoDays          int             // annual bonus days (LFT minimum: 15)
	VacationPremiumPercent decimal.Decimal // prima vacacional (LFT minimum: 25)
}

func (s Statutory) withDefaults() Statutory {
	if s.AguinaldoDays == 0 {
		s.AguinaldoDays = 15
	}
	if s.VacationPremiumPercent.IsZero() {
		s.VacationPremiumPercent = decimal.NewFromInt(25)
	}
	return s
}

// Options carries what has already been paid in the year being settled,
// plus caller-injected deductions (outstanding debts, advances).
type Options struct {
	AlreadyPaidBonusDays    int
	AlreadyPaidVacationDays int
	Statutory               Statutory
	Deductions              []engine.LineItem
}

// =============================================================================
// OUTPUT
// =============================================================================

// LaborInfo summarizes the facts the settlement was derived from.
type LaborInfo struct {
	DailySalary     decimal.Decimal `json:"daily_salary"`
	YearsOfService  decimal.Decimal `json:"years_of_service"` // fractional
	CompletedYears  int             `json:"completed_years"`
	StartDate       time.Time       `json:"start_date"`
	TerminationDate time.Time       `json:"termination_date"`
}

// SettlementResult is the complete, immutable outcome of one settlement
// calculation. Total is always SubtotalEarnings - SubtotalDeductions.
type SettlementResult struct {
	LaborInfo LaborInfo         `json:"labor_info"`
	Type      TerminationType   `json:"termination_type"`
	Items     []engine.LineItem `json:"items"`
	Breakdown engine.Breakdown  `json:"breakdown"`
	Total     decimal.Decimal   `json:"total"`
}
