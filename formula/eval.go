/*
Package formula evaluates arithmetic payroll-concept expressions over
named variables.

PURPOSE:
  Configurable payroll concepts ("earning X = SALARIO_DIARIO *
  DIAS_VACACIONES * 0.25") are stored as expression text. This package
  parses that text into an AST and evaluates it with decimal arithmetic.
  There is no runtime string substitution and no eval: the operator set
  is closed, so a formula can compute but never execute.

CONTRACT:
  Evaluate(expr, ctx)   -> exact decimal result, or a typed error
  Preview(expr, partial) -> substituted display text + missing variables
                            (never fails on missing identifiers)

GUARANTEES:
  - Deterministic: same (formula, context) yields the same result and
    the same error, byte for byte.
  - Unknown variables are rejected BEFORE evaluation, and the error
    names every missing identifier, not just the first.
  - Division by zero and syntax errors carry exact positions.

USAGE:
  amount, err := formula.Evaluate(
      "SALARIO_DIARIO * DIAS_VACACIONES * 0.25",
      map[string]decimal.Decimal{
          "SALARIO_DIARIO":  decimal.NewFromInt(350),
          "DIAS_VACACIONES": decimal.NewFromInt(12),
      })
  // amount = 1050

SEE ALSO:
  - lexer.go, parser.go: Tokenizer and AST construction
  - catalog: Exemption-limit clamping around this evaluator
*/
package formula

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Evaluate parses the formula and computes its value over the context.
// Every identifier referenced must exist in ctx; missing identifiers fail
// with *UnknownVariableError naming all of them.
func Evaluate(expr string, ctx map[string]decimal.Decimal) (decimal.Decimal, error) {
	root, err := parse(expr)
	if err != nil {
		return decimal.Zero, err
	}
	if missing := missingVariables(root, ctx); len(missing) > 0 {
		return decimal.Zero, &UnknownVariableError{Names: missing}
	}
	return eval(root, ctx)
}

// Variables returns the sorted, de-duplicated identifiers the formula
// references. Useful for building input forms ahead of evaluation.
func Variables(expr string) ([]string, error) {
	root, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return collectVariables(root), nil
}

func eval(n node, ctx map[string]decimal.Decimal) (decimal.Decimal, error) {
	switch n := n.(type) {
	case *numberNode:
		return n.tok.Value, nil

	case *variableNode:
		return ctx[n.tok.Text], nil

	case *unaryNode:
		v, err := eval(n.child, ctx)
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil

	case *binaryNode:
		left, err := eval(n.left, ctx)
		if err != nil {
			return decimal.Zero, err
		}
		right, err := eval(n.right, ctx)
		if err != nil {
			return decimal.Zero, err
		}
		switch n.op.Kind {
		case tokenPlus:
			return left.Add(right), nil
		case tokenMinus:
			return left.Sub(right), nil
		case tokenStar:
			return left.Mul(right), nil
		default: // tokenSlash
			if right.IsZero() {
				return decimal.Zero, &DivisionByZeroError{Pos: n.op.Pos}
			}
			return left.Div(right), nil
		}
	}
	return decimal.Zero, &ParseError{Pos: 0, Msg: "unknown node"}
}

func collectVariables(root node) []string {
	var names []string
	root.variables(&names)
	seen := make(map[string]bool, len(names))
	unique := names[:0]
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	sort.Strings(unique)
	return unique
}

func missingVariables(root node, ctx map[string]decimal.Decimal) []string {
	var missing []string
	for _, name := range collectVariables(root) {
		if _, ok := ctx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
