/*
handlers.go - HTTP API handlers for the payroll calculation engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the pure
  calculators. The handler owns the active configuration (tables and
  concept catalog); the calculators receive everything as explicit
  parameters and never reach into ambient state.

ENDPOINTS:
  Settlements:
    POST   /api/settlements/compute     Compute (optionally persist)
    GET    /api/settlements             List persisted settlements
    GET    /api/settlements/{id}        Fetch one with line items

  Calculators:
    POST   /api/tax/compute             ISR + subsidy for an income
    POST   /api/contributions/compute   Contribution lines for a base
    POST   /api/formulas/evaluate       Evaluate with full context
    POST   /api/formulas/preview        Substituted text + missing names
    POST   /api/payroll/run             Composed catalog payroll run

  Configuration:
    GET    /api/concepts                List catalog concepts
    POST   /api/concepts                Create/update a concept
    DELETE /api/concepts/{name}         Remove a concept
    GET    /api/tables                  Active statutory tables
    PUT    /api/tables/{kind}           Store a table override

ERROR HANDLING:
  Typed engine errors map to HTTP status and an error kind:
  - 400 "input":  caller's fault (bad dates, negative amounts, bad formula)
  - 404:          missing resource
  - 500 "config": malformed bracket/rate table - an operator problem,
                  never blamed on the end user

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/catalog"
	"github.com/warp/payroll-engine/contribution"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/formula"
	"github.com/warp/payroll-engine/severance"
	"github.com/warp/payroll-engine/store/sqlite"
	"github.com/warp/payroll-engine/tax"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Active configuration; presets unless overridden from the store.
	taxTable     *tax.Table
	subsidyTable *tax.SubsidyTable
	contribTable *contribution.Table
	statutory    severance.Statutory
	catalog      *catalog.Catalog
}

// NewHandler creates a new handler with the given store and the 2024
// statutory presets as the active configuration.
func NewHandler(store *sqlite.Store) *Handler {
	cat, _ := catalog.New()
	return &Handler{
		Store:        store,
		taxTable:     factory.MonthlyTaxTable2024(),
		subsidyTable: factory.MonthlySubsidyTable2024(),
		contribTable: factory.IMSSRateTable2024(),
		statutory:    factory.Statutory2024(),
		catalog:      cat,
	}
}

// LoadConfiguration pulls stored concepts and table overrides into the
// handler. Invalid stored documents are skipped; presets stay active.
func (h *Handler) LoadConfiguration(ctx context.Context) error {
	concepts, err := h.Store.ListConcepts(ctx)
	if err != nil {
		return err
	}
	cat, _ := catalog.New()
	for _, c := range concepts {
		if err := cat.Add(c); err != nil {
			continue // skip broken stored concepts
		}
	}
	h.catalog = cat

	if doc, err := h.Store.GetConfigDoc(ctx, "tax_table", "active"); err == nil && doc != nil {
		if table, err := factory.ParseTaxTable(doc); err == nil {
			h.taxTable = table
		}
	}
	if doc, err := h.Store.GetConfigDoc(ctx, "subsidy_table", "active"); err == nil && doc != nil {
		if table, err := factory.ParseSubsidyTable(doc); err == nil {
			h.subsidyTable = table
		}
	}
	if doc, err := h.Store.GetConfigDoc(ctx, "contribution_table", "active"); err == nil && doc != nil {
		if table, err := factory.ParseContributionTable(doc); err == nil {
			h.contribTable = table
		}
	}
	return nil
}

// =============================================================================
// SETTLEMENT HANDLERS
// =============================================================================

// ComputeSettlement computes a termination settlement and optionally
// persists it.
// POST /api/settlements
func (h *Handler) ComputeSettlement(w http.ResponseWriter, r *http.Request) {
	var req ComputeSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	salary, err := decimal.NewFromString(req.DailySalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid daily_salary", err)
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	terminationDate, err := time.Parse("2006-01-02", req.TerminationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid termination_date", err)
		return
	}

	opts := severance.Options{
		AlreadyPaidBonusDays:    req.AlreadyPaidBonusDays,
		AlreadyPaidVacationDays: req.AlreadyPaidVacationDays,
		Statutory:               h.statutory,
	}
	for _, d := range req.Deductions {
		amount, err := decimal.NewFromString(d.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deduction amount", err)
			return
		}
		opts.Deductions = append(opts.Deductions, engine.LineItem{
			Concept:     d.Concept,
			Description: d.Description,
			Amount:      amount,
			Kind:        engine.KindDeduction,
		})
	}

	result, err := severance.Compute(severance.EmploymentPeriod{
		DailySalary:     salary,
		StartDate:       startDate,
		TerminationDate: terminationDate,
	}, severance.TerminationType(req.TerminationType), opts)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dto := SettlementDTO{EmployeeRef: req.EmployeeRef, Result: result}
	if req.Persist {
		id, err := h.Store.SaveSettlement(r.Context(), req.EmployeeRef, result)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to persist settlement", err)
			return
		}
		dto.ID = id
	}
	writeJSON(w, http.StatusOK, dto)
}

// ListSettlements returns persisted settlements.
// GET /api/settlements?employee_ref=...
func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListSettlements(r.Context(), r.URL.Query().Get("employee_ref"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list settlements", err)
		return
	}
	dtos := make([]SettlementDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, SettlementDTO{
			ID:          rec.ID,
			EmployeeRef: rec.EmployeeRef,
			Result:      rec.Result,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSettlement returns one persisted settlement.
// GET /api/settlements/{id}
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settlement id", err)
		return
	}
	rec, err := h.Store.GetSettlement(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get settlement", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Settlement not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, SettlementDTO{
		ID:          rec.ID,
		EmployeeRef: rec.EmployeeRef,
		Result:      rec.Result,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	})
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// ComputeTax computes ISR + subsidy over the active tables.
// POST /api/tax/compute
func (h *Handler) ComputeTax(w http.ResponseWriter, r *http.Request) {
	var req ComputeTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	income, err := decimal.NewFromString(req.TaxableIncome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid taxable_income", err)
		return
	}
	periodicity := engine.Periodicity(req.Periodicity)
	if req.Periodicity == "" {
		periodicity = h.taxTable.Periodicity
	}

	result, err := tax.ComputeTax(income, periodicity, h.taxTable, h.subsidyTable)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ComputeContributions computes contribution lines over the active rate
// table.
// POST /api/contributions/compute
func (h *Handler) ComputeContributions(w http.ResponseWriter, r *http.Request) {
	var req ComputeContributionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	base, err := decimal.NewFromString(req.Base)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base", err)
		return
	}
	lines, err := contribution.ComputeContributions(base, h.contribTable)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

// EvaluateFormula evaluates a formula with a full context.
// POST /api/formulas/evaluate
func (h *Handler) EvaluateFormula(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ctx, err := parseContext(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid context value", err)
		return
	}
	result, err := formula.Evaluate(req.Formula, ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateDTO{Result: result.String()})
}

// PreviewFormula substitutes a partial context for display.
// POST /api/formulas/preview
func (h *Handler) PreviewFormula(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ctx, err := parseContext(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid context value", err)
		return
	}
	preview, err := formula.PreviewFormula(req.Formula, ctx)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// RunPayroll runs the whole concept catalog over a context.
// POST /api/payroll/run
func (h *Handler) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ctx, err := parseContext(req.Context)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid context value", err)
		return
	}
	periodicity := engine.Periodicity(req.Periodicity)
	if req.Periodicity == "" {
		periodicity = h.taxTable.Periodicity
	}

	result, err := catalog.RunPayroll(catalog.RunInput{
		Catalog:       h.catalog,
		Context:       ctx,
		Periodicity:   periodicity,
		TaxTable:      h.taxTable,
		SubsidyTable:  h.subsidyTable,
		Contributions: h.contribTable,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RunPayrollDTO{
		Items:            result.Items,
		TaxableBase:      result.TaxableBase.String(),
		ContributionBase: result.ContributionBase.String(),
		Tax:              result.Tax.Tax.String(),
		Subsidy:          result.Tax.Subsidy.String(),
		NetTax:           result.Tax.NetTax.String(),
		NetPay:           result.NetPay.String(),
	})
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// ListConcepts returns the active catalog.
// GET /api/concepts
func (h *Handler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	concepts := h.catalog.Concepts()
	dtos := make([]ConceptDTO, len(concepts))
	for i, c := range concepts {
		dtos[i] = factory.ConceptToJSON(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateConcept adds or replaces a catalog concept and persists it.
// POST /api/concepts
func (h *Handler) CreateConcept(w http.ResponseWriter, r *http.Request) {
	var dto ConceptDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	concept := catalog.Concept{
		Name:               dto.Name,
		Kind:               catalog.ConceptKind(dto.Kind),
		Category:           dto.Category,
		Formula:            dto.Formula,
		ExemptLimitFormula: dto.ExemptLimitFormula,
		Taxable:            dto.Taxable,
		ContributesToBase:  dto.ContributesToBase,
	}

	// Validate before evicting any existing version, so a broken
	// replacement leaves the active concept untouched.
	if _, err := catalog.New(concept); err != nil {
		writeEngineError(w, err)
		return
	}
	h.catalog.Remove(concept.Name) // replace-on-conflict
	if err := h.catalog.Add(concept); err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Store.SaveConcept(r.Context(), concept); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist concept", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// DeleteConcept removes a catalog concept.
// DELETE /api/concepts/{name}
func (h *Handler) DeleteConcept(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.catalog.Remove(name) {
		writeError(w, http.StatusNotFound, "Concept not found", nil)
		return
	}
	if _, err := h.Store.DeleteConcept(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete concept", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTables reports the active statutory tables.
// GET /api/tables
func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TablesDTO{
		TaxTable:          h.taxTable.Name,
		SubsidyTable:      h.subsidyTable.Name,
		ContributionTable: h.contribTable.Name,
	})
}

// PutTable validates and stores a table override, activating it.
// PUT /api/tables/{kind}   kind: tax_table | subsidy_table | contribution_table
func (h *Handler) PutTable(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch kind {
	case "tax_table":
		table, err := factory.ParseTaxTable(doc)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		h.taxTable = table
	case "subsidy_table":
		table, err := factory.ParseSubsidyTable(doc)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		h.subsidyTable = table
	case "contribution_table":
		table, err := factory.ParseContributionTable(doc)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		h.contribTable = table
	default:
		writeError(w, http.StatusNotFound, "Unknown table kind", nil)
		return
	}

	if err := h.Store.SaveConfigDoc(r.Context(), kind, "active", doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseContext(raw map[string]string) (map[string]decimal.Decimal, error) {
	ctx := make(map[string]decimal.Decimal, len(raw))
	for name, value := range raw {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}
		ctx[name] = d
	}
	return ctx, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps the engine's error taxonomy onto HTTP: input
// errors blame the request, configuration errors page an operator.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsConfigError(err):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Configuration error", Kind: "config", Details: err.Error(),
		})
	case engine.IsInputError(err):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "Invalid input", Kind: "input", Details: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Calculation failed", Details: err.Error(),
		})
	}
}
