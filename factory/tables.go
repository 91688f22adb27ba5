/*
Package factory provides JSON to Go configuration conversion for the
payroll engine.

PURPOSE:
  Converts JSON table and catalog definitions into validated engine
  inputs. This enables statutory configuration without code changes -
  operators load the yearly published ISR/subsidy/contribution tables as
  JSON, and the factory produces the proper Go structs, rejecting
  malformed tables before any calculation runs.

WHY JSON?
  - Statutory tables change yearly; no redeploy to update them
  - Easy integration with admin UI
  - Version control for table definitions
  - Database storage of table configs

JSON SCHEMA (tax table):
  {
    "name": "isr-monthly-2024",
    "periodicity": "monthly",
    "brackets": [
      {"lower": "0.00", "upper": "746.04", "quota": "0.00", "rate": "1.92"},
      ...
      {"lower": "375975.62", "quota": "117912.32", "rate": "35.00"}
    ]
  }

  Limits are decimal strings to keep table values exact; an absent
  "upper" marks the open-ended terminal bracket.

USAGE:
  table, err := factory.ParseTaxTable(jsonBytes)

  // Or start from the statutory presets (demo/test fixtures):
  table := factory.MonthlyTaxTable2024()

SEE ALSO:
  - presets.go: Canned 2024 statutory tables
  - tax, contribution, catalog: The consuming packages
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/catalog"
	"github.com/warp/payroll-engine/contribution"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/tax"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TaxBracketJSON is one row of a tax or subsidy table definition. Amounts
// are decimal strings; Upper is omitted on the terminal bracket. Quota
// and Rate serve tax tables, Subsidy serves subsidy tables.
type TaxBracketJSON struct {
	Lower   string `json:"lower"`
	Upper   string `json:"upper,omitempty"`
	Quota   string `json:"quota,omitempty"`
	Rate    string `json:"rate,omitempty"`
	Subsidy string `json:"subsidy,omitempty"`
}

// TaxTableJSON is the JSON representation of a bracket table.
type TaxTableJSON struct {
	Name        string           `json:"name"`
	Periodicity string           `json:"periodicity"`
	Brackets    []TaxBracketJSON `json:"brackets"`
}

// RateBracketJSON is one escalating row of a contribution concept.
type RateBracketJSON struct {
	LowerMultiple string `json:"lower_multiple"`
	UpperMultiple string `json:"upper_multiple,omitempty"`
	Employer      string `json:"employer"`
	Employee      string `json:"employee"`
}

// RateJSON is one contribution concept definition.
type RateJSON struct {
	Concept  string            `json:"concept"`
	Employer string            `json:"employer,omitempty"`
	Employee string            `json:"employee,omitempty"`
	Brackets []RateBracketJSON `json:"brackets,omitempty"`
}

// ContributionTableJSON is the JSON representation of a rate table.
type ContributionTableJSON struct {
	Name          string     `json:"name"`
	ReferenceUnit string     `json:"reference_unit,omitempty"`
	Rates         []RateJSON `json:"rates"`
}

// ConceptJSON is the JSON representation of a catalog concept.
type ConceptJSON struct {
	Name               string `json:"name"`
	Kind               string `json:"kind"`
	Category           string `json:"category,omitempty"`
	Formula            string `json:"formula"`
	ExemptLimitFormula string `json:"exempt_limit_formula,omitempty"`
	Taxable            bool   `json:"taxable"`
	ContributesToBase  bool   `json:"contributes_to_base"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseTaxTable converts a JSON document into a validated tax.Table.
func ParseTaxTable(data []byte) (*tax.Table, error) {
	var doc TaxTableJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tax table json: %w", err)
	}
	table := &tax.Table{Name: doc.Name, Periodicity: engine.Periodicity(doc.Periodicity)}
	if !table.Periodicity.Valid() {
		return nil, engine.NewInvalidInput("periodicity", "unknown value "+doc.Periodicity)
	}
	for i, row := range doc.Brackets {
		lower, err := parseAmount(row.Lower, "lower", i)
		if err != nil {
			return nil, err
		}
		quota, err := parseAmount(orZero(row.Quota), "quota", i)
		if err != nil {
			return nil, err
		}
		rate, err := parseAmount(orZero(row.Rate), "rate", i)
		if err != nil {
			return nil, err
		}
		b := tax.Bracket{LowerLimit: lower, FixedQuota: quota, RatePercent: rate}
		if row.Upper != "" {
			upper, err := parseAmount(row.Upper, "upper", i)
			if err != nil {
				return nil, err
			}
			b.UpperLimit = &upper
		}
		table.Brackets = append(table.Brackets, b)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseSubsidyTable converts a JSON document into a validated
// tax.SubsidyTable.
func ParseSubsidyTable(data []byte) (*tax.SubsidyTable, error) {
	var doc TaxTableJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("subsidy table json: %w", err)
	}
	table := &tax.SubsidyTable{Name: doc.Name, Periodicity: engine.Periodicity(doc.Periodicity)}
	if !table.Periodicity.Valid() {
		return nil, engine.NewInvalidInput("periodicity", "unknown value "+doc.Periodicity)
	}
	for i, row := range doc.Brackets {
		lower, err := parseAmount(row.Lower, "lower", i)
		if err != nil {
			return nil, err
		}
		subsidy, err := parseAmount(orZero(row.Subsidy), "subsidy", i)
		if err != nil {
			return nil, err
		}
		b := tax.SubsidyBracket{LowerLimit: lower, Subsidy: subsidy}
		if row.Upper != "" {
			upper, err := parseAmount(row.Upper, "upper", i)
			if err != nil {
				return nil, err
			}
			b.UpperLimit = &upper
		}
		table.Brackets = append(table.Brackets, b)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseContributionTable converts a JSON document into a validated
// contribution.Table.
func ParseContributionTable(data []byte) (*contribution.Table, error) {
	var doc ContributionTableJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("contribution table json: %w", err)
	}
	table := &contribution.Table{Name: doc.Name}
	if doc.ReferenceUnit != "" {
		unit, err := parseAmount(doc.ReferenceUnit, "reference_unit", 0)
		if err != nil {
			return nil, err
		}
		table.ReferenceUnit = unit
	}
	for i, row := range doc.Rates {
		rate := contribution.Rate{Concept: row.Concept}
		var err error
		if rate.EmployerPercent, err = parseAmount(orZero(row.Employer), "employer", i); err != nil {
			return nil, err
		}
		if rate.EmployeePercent, err = parseAmount(orZero(row.Employee), "employee", i); err != nil {
			return nil, err
		}
		for j, br := range row.Brackets {
			b := contribution.RateBracket{}
			if b.LowerMultiple, err = parseAmount(br.LowerMultiple, "lower_multiple", j); err != nil {
				return nil, err
			}
			if br.UpperMultiple != "" {
				upper, err := parseAmount(br.UpperMultiple, "upper_multiple", j)
				if err != nil {
					return nil, err
				}
				b.UpperMultiple = &upper
			}
			if b.EmployerPercent, err = parseAmount(orZero(br.Employer), "employer", j); err != nil {
				return nil, err
			}
			if b.EmployeePercent, err = parseAmount(orZero(br.Employee), "employee", j); err != nil {
				return nil, err
			}
			rate.Brackets = append(rate.Brackets, b)
		}
		table.Rates = append(table.Rates, rate)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// ParseCatalog converts a JSON array of concept definitions into a
// catalog, validating formula syntax along the way.
func ParseCatalog(data []byte) (*catalog.Catalog, error) {
	var docs []ConceptJSON
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog json: %w", err)
	}
	cat, _ := catalog.New()
	for _, doc := range docs {
		err := cat.Add(catalog.Concept{
			Name:               doc.Name,
			Kind:               catalog.ConceptKind(doc.Kind),
			Category:           doc.Category,
			Formula:            doc.Formula,
			ExemptLimitFormula: doc.ExemptLimitFormula,
			Taxable:            doc.Taxable,
			ContributesToBase:  doc.ContributesToBase,
		})
		if err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// ConceptToJSON converts a catalog concept back to its JSON shape.
func ConceptToJSON(c catalog.Concept) ConceptJSON {
	return ConceptJSON{
		Name:               c.Name,
		Kind:               string(c.Kind),
		Category:           c.Category,
		Formula:            c.Formula,
		ExemptLimitFormula: c.ExemptLimitFormula,
		Taxable:            c.Taxable,
		ContributesToBase:  c.ContributesToBase,
	}
}

func parseAmount(s, field string, row int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, engine.NewInvalidInput(field, fmt.Sprintf("row %d: malformed decimal %q", row, s))
	}
	return d, nil
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
