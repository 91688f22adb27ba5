/*
Package catalog holds configurable payroll concept definitions and the
resolution layer that evaluates them.

PURPOSE:
  Operators define earnings and deductions as named formulas over payroll
  variables ("PRIMA_VACACIONAL = SALARIO_DIARIO * DIAS_VACACIONES * 25%").
  This package owns those definitions, evaluates them through the formula
  engine, and applies exemption-limit clamping: when a concept carries an
  exemption-limit formula, the portion up to the limit is exempt from tax
  and contribution bases, and the excess - still paid in full - is
  flagged non-exempt.

KEY CONCEPTS IN THIS FILE (catalog.go):
  - Concept: One configurable earning/deduction with its formula text
  - Variable: Documentation/preview metadata for a formula input
  - Catalog: Ordered collection with name lookup
  - Resolved: Amount split into exempt and non-exempt portions

SEE ALSO:
  - run.go: Composed payroll run over a whole catalog
  - formula: The expression evaluator underneath
*/
package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/formula"
)

// =============================================================================
// CONCEPT DEFINITIONS
// =============================================================================

// ConceptKind classifies a concept as paid to or withheld from the
// employee.
type ConceptKind string

const (
	Earning   ConceptKind = "earning"
	Deduction ConceptKind = "deduction"
)

// Concept is one configurable payroll concept.
type Concept struct {
	Name               string      `json:"name"`
	Kind               ConceptKind `json:"kind"`
	Category           string      `json:"category,omitempty"`
	Formula            string      `json:"formula"`
	ExemptLimitFormula string      `json:"exempt_limit_formula,omitempty"` // empty = no exemption limit
	Taxable            bool        `json:"taxable"`
	ContributesToBase  bool        `json:"contributes_to_base"`
}

// Variable documents a formula input for configuration screens. It is
// never used for real evaluation - callers supply actual contexts.
type Variable struct {
	Name         string
	Description  string
	ExampleValue decimal.Decimal
}

// Catalog is an ordered collection of concepts. Iteration order is the
// configuration order, which keeps payroll runs deterministic.
type Catalog struct {
	concepts []Concept
	byName   map[string]int
}

// New builds a catalog, rejecting duplicate concept names.
func New(concepts ...Concept) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(concepts))}
	for _, concept := range concepts {
		if err := c.Add(concept); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a concept, validating its name, kind and formula syntax.
func (c *Catalog) Add(concept Concept) error {
	if concept.Name == "" {
		return engine.NewInvalidInput("concept.name", "must not be empty")
	}
	if concept.Kind != Earning && concept.Kind != Deduction {
		return engine.NewInvalidInput("concept.kind", fmt.Sprintf("unknown value %q", concept.Kind))
	}
	if _, dup := c.byName[concept.Name]; dup {
		return engine.NewInvalidInput("concept.name", fmt.Sprintf("duplicate %q", concept.Name))
	}
	if _, err := formula.Variables(concept.Formula); err != nil {
		return err
	}
	if concept.ExemptLimitFormula != "" {
		if _, err := formula.Variables(concept.ExemptLimitFormula); err != nil {
			return err
		}
	}
	c.byName[concept.Name] = len(c.concepts)
	c.concepts = append(c.concepts, concept)
	return nil
}

// Get returns the named concept.
func (c *Catalog) Get(name string) (Concept, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Concept{}, false
	}
	return c.concepts[idx], true
}

// Remove deletes the named concept, preserving the order of the rest.
func (c *Catalog) Remove(name string) bool {
	idx, ok := c.byName[name]
	if !ok {
		return false
	}
	c.concepts = append(c.concepts[:idx], c.concepts[idx+1:]...)
	delete(c.byName, name)
	for n, i := range c.byName {
		if i > idx {
			c.byName[n] = i - 1
		}
	}
	return true
}

// Concepts returns the concepts in configuration order.
func (c *Catalog) Concepts() []Concept {
	out := make([]Concept, len(c.concepts))
	copy(out, c.concepts)
	return out
}

// Len returns the number of concepts.
func (c *Catalog) Len() int { return len(c.concepts) }

// =============================================================================
// RESOLUTION - Formula evaluation + exemption clamping
// =============================================================================

// Resolved is one evaluated concept. Amount is what is paid or withheld;
// Exempt/NonExempt split it against the exemption limit. NonExempt feeds
// the taxable and contribution bases when the concept's flags say so.
type Resolved struct {
	Concept   Concept
	Amount    decimal.Decimal
	Exempt    decimal.Decimal
	NonExempt decimal.Decimal
	Trace     string
}

// Resolve evaluates the concept's formula and, when present, its
// exemption limit with the same context. The exempt portion is
// min(amount, limit); the excess is still paid but flagged non-exempt.
func Resolve(concept Concept, ctx map[string]decimal.Decimal) (Resolved, error) {
	amount, err := formula.Evaluate(concept.Formula, ctx)
	if err != nil {
		return Resolved{}, err
	}
	if amount.IsNegative() {
		return Resolved{}, engine.NewInvalidInput("concept "+concept.Name, "formula produced a negative amount")
	}
	amount = engine.Cents(amount)

	r := Resolved{Concept: concept, Amount: amount}

	if concept.ExemptLimitFormula == "" {
		if concept.Taxable || concept.ContributesToBase {
			r.NonExempt = amount
		} else {
			r.Exempt = amount
		}
		r.Trace = fmt.Sprintf("%s = %s", concept.Formula, amount.StringFixed(2))
		return r, nil
	}

	limit, err := formula.Evaluate(concept.ExemptLimitFormula, ctx)
	if err != nil {
		return Resolved{}, err
	}
	limit = engine.Cents(engine.MaxZero(limit))

	r.Exempt = engine.Min(amount, limit)
	r.NonExempt = amount.Sub(r.Exempt)
	r.Trace = fmt.Sprintf("%s = %s; exempt up to %s ⇒ exempt %s, non-exempt %s",
		concept.Formula, amount.StringFixed(2), limit.StringFixed(2),
		r.Exempt.StringFixed(2), r.NonExempt.StringFixed(2))
	return r, nil
}

// LineItem converts a resolved concept into the shared line-item shape.
func (r Resolved) LineItem() engine.LineItem {
	kind := engine.KindEarning
	if r.Concept.Kind == Deduction {
		kind = engine.KindDeduction
	}
	return engine.LineItem{
		Concept:     r.Concept.Name,
		Description: r.Concept.Category,
		Trace:       r.Trace,
		Amount:      r.Amount,
		Kind:        kind,
	}
}
