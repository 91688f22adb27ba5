package formula

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Preview is the display form of a formula for configuration screens:
// known variables substituted with their values, unknown ones left as-is
// and listed in Missing.
type Preview struct {
	Substituted string   `json:"substituted"`
	Missing     []string `json:"missing"`
}

// PreviewFormula substitutes known variables into the formula text for UI
// display. Unlike Evaluate it never fails on missing identifiers; syntax
// errors still surface so the screen can flag a broken formula.
func PreviewFormula(expr string, partial map[string]decimal.Decimal) (Preview, error) {
	tokens, err := lex(expr)
	if err != nil {
		return Preview{}, err
	}

	var out strings.Builder
	missingSet := make(map[string]bool)
	last := 0
	for _, tok := range tokens {
		if tok.Kind == tokenEOF {
			break
		}
		out.WriteString(expr[last:tok.Pos]) // preserve original spacing
		if tok.Kind == tokenIdent {
			if value, ok := partial[tok.Text]; ok {
				out.WriteString(value.String())
			} else {
				missingSet[tok.Text] = true
				out.WriteString(tok.Text)
			}
		} else {
			out.WriteString(tok.Text)
		}
		last = tok.Pos + len(tok.Text)
	}
	out.WriteString(expr[last:])

	missing := make([]string, 0, len(missingSet))
	for name := range missingSet {
		missing = append(missing, name)
	}
	sort.Strings(missing)

	return Preview{Substituted: out.String(), Missing: missing}, nil
}
