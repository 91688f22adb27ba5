/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract. Monetary
  amounts travel as decimal strings, never floats, so nothing is lost
  between the engine and the client.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/severance"
)

// =============================================================================
// SETTLEMENTS
// =============================================================================

// DeductionDTO is a caller-injected deduction (outstanding debt, advance).
type DeductionDTO struct {
	Concept     string `json:"concept"`
	Description string `json:"description,omitempty"`
	Amount      string `json:"amount"`
}

// ComputeSettlementRequest is the request to compute (and persist) a
// termination settlement.
type ComputeSettlementRequest struct {
	EmployeeRef             string         `json:"employee_ref,omitempty"`
	DailySalary             string         `json:"daily_salary"`
	StartDate               string         `json:"start_date"`        // 2006-01-02
	TerminationDate         string         `json:"termination_date"`  // 2006-01-02
	TerminationType         string         `json:"termination_type"`
	AlreadyPaidBonusDays    int            `json:"already_paid_bonus_days,omitempty"`
	AlreadyPaidVacationDays int            `json:"already_paid_vacation_days,omitempty"`
	Deductions              []DeductionDTO `json:"deductions,omitempty"`
	Persist                 bool           `json:"persist,omitempty"`
}

// SettlementDTO wraps a settlement result with its storage identity.
type SettlementDTO struct {
	ID          int64                       `json:"id,omitempty"`
	EmployeeRef string                      `json:"employee_ref,omitempty"`
	Result      *severance.SettlementResult `json:"result"`
	CreatedAt   string                      `json:"created_at,omitempty"`
}

// =============================================================================
// TAX AND CONTRIBUTIONS
// =============================================================================

// ComputeTaxRequest computes ISR + subsidy over the active tables.
type ComputeTaxRequest struct {
	TaxableIncome string `json:"taxable_income"`
	Periodicity   string `json:"periodicity"`
}

// ComputeContributionsRequest computes contribution lines over the
// active rate table.
type ComputeContributionsRequest struct {
	Base string `json:"base"`
}

// =============================================================================
// FORMULAS
// =============================================================================

// EvaluateRequest evaluates a formula with a full variable context.
// Context values are decimal strings keyed by identifier.
type EvaluateRequest struct {
	Formula string            `json:"formula"`
	Context map[string]string `json:"context"`
}

// EvaluateDTO is the result of a successful evaluation.
type EvaluateDTO struct {
	Result string `json:"result"`
}

// PreviewRequest substitutes a partial context for display.
type PreviewRequest struct {
	Formula string            `json:"formula"`
	Context map[string]string `json:"context,omitempty"`
}

// =============================================================================
// PAYROLL RUNS
// =============================================================================

// RunPayrollRequest runs the whole concept catalog over a context.
type RunPayrollRequest struct {
	Context     map[string]string `json:"context"`
	Periodicity string            `json:"periodicity"`
}

// RunPayrollDTO is the itemized outcome of a payroll run.
type RunPayrollDTO struct {
	Items            []engine.LineItem `json:"items"`
	TaxableBase      string            `json:"taxable_base"`
	ContributionBase string            `json:"contribution_base"`
	Tax              string            `json:"tax"`
	Subsidy          string            `json:"subsidy"`
	NetTax           string            `json:"net_tax"`
	NetPay           string            `json:"net_pay"`
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// TablesDTO reports the active statutory tables by name.
type TablesDTO struct {
	TaxTable          string `json:"tax_table"`
	SubsidyTable      string `json:"subsidy_table"`
	ContributionTable string `json:"contribution_table"`
}

// ConceptDTO reuses the factory JSON shape for catalog CRUD.
type ConceptDTO = factory.ConceptJSON

// ErrorResponse is the JSON error envelope. Kind distinguishes caller
// mistakes ("input") from broken configuration ("config") so clients can
// route the blame correctly.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}
