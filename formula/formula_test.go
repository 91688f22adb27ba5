package formula_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/formula"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func ctx(pairs ...any) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i].(string)] = d(pairs[i+1].(string))
	}
	return m
}

// =============================================================================
// EVALUATION TESTS
// =============================================================================

func TestEvaluate_VacationPremiumFormula(t *testing.T) {
	// GIVEN: The canonical vacation premium formula
	// WHEN: Evaluated with a daily salary of 350 over 12 days
	// THEN: The result is exactly 1050

	got, err := formula.Evaluate(
		"SALARIO_DIARIO * DIAS_VACACIONES * 0.25",
		ctx("SALARIO_DIARIO", "350", "DIAS_VACACIONES", "12"))

	require.NoError(t, err)
	assert.True(t, got.Equal(d("1050")), "got %s", got)
}

func TestEvaluate_OperatorPrecedence(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 - 4 - 3", "3"},       // left associative
		{"100 / 10 / 2", "5"},     // left associative
		{"2 + 3 * 4 - 6 / 2", "11"},
		{"-5 + 3", "-2"},
		{"-(2 + 3)", "-5"},
		{"--4", "4"},
	}
	for _, tc := range cases {
		got, err := formula.Evaluate(tc.expr, nil)
		require.NoError(t, err, tc.expr)
		assert.True(t, got.Equal(d(tc.want)), "%s = %s, want %s", tc.expr, got, tc.want)
	}
}

func TestEvaluate_PercentNotation(t *testing.T) {
	// "25%" is sugar for 0.25, used in exemption-limit formulas.
	got, err := formula.Evaluate("10000 * 25%", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("2500")), "got %s", got)

	got, err = formula.Evaluate("UMA * 90 * 100%", ctx("UMA", "108.57"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("9771.3")), "got %s", got)
}

func TestEvaluate_DecimalExactness(t *testing.T) {
	// The classic float trap: 0.1 + 0.2 must be exactly 0.3.
	got, err := formula.Evaluate("0.1 + 0.2", nil)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("0.3")), "got %s", got)
}

func TestEvaluate_Deterministic(t *testing.T) {
	expr := "(SALARIO_DIARIO * 15 + AGUINALDO) / 30.4"
	c := ctx("SALARIO_DIARIO", "523.17", "AGUINALDO", "7847.55")

	first, err := formula.Evaluate(expr, c)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := formula.Evaluate(expr, c)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestEvaluate_UnknownVariables_AllNamed(t *testing.T) {
	// GIVEN: A formula referencing three variables, only one bound
	// WHEN: Evaluating
	// THEN: The error names BOTH missing variables, sorted

	_, err := formula.Evaluate("A + ZETA * B", ctx("A", "1"))

	var unknown *formula.UnknownVariableError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"B", "ZETA"}, unknown.Names)
	assert.True(t, engine.IsInputError(err))
}

func TestEvaluate_DivisionByZero_Position(t *testing.T) {
	_, err := formula.Evaluate("SALARIO / DIVISOR", ctx("SALARIO", "100", "DIVISOR", "0"))

	var dz *formula.DivisionByZeroError
	require.ErrorAs(t, err, &dz)
	assert.Equal(t, 8, dz.Pos, "position of the '/' operator")
}

func TestEvaluate_DivisionByZeroLiteral(t *testing.T) {
	_, err := formula.Evaluate("1 / 0", nil)
	var dz *formula.DivisionByZeroError
	require.ErrorAs(t, err, &dz)
}

func TestEvaluate_ParseErrors(t *testing.T) {
	cases := []struct {
		name string
		expr string
		pos  int
	}{
		{"unexpected character", "SALARIO @ 2", 8},
		{"lowercase identifier", "salario * 2", 0},
		{"trailing operator", "A +", 3},
		{"unbalanced parenthesis", "(A + B", 6},
		{"dangling dot", "2. + 1", 0},
		{"empty formula", "", 0},
		{"adjacent operands", "2 3", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := formula.Evaluate(tc.expr, ctx("A", "1", "B", "2"))
			var pe *formula.ParseError
			require.ErrorAs(t, err, &pe, "expr %q", tc.expr)
			assert.Equal(t, tc.pos, pe.Pos, "expr %q", tc.expr)
			assert.True(t, errors.Is(err, engine.ErrInvalidInput))
		})
	}
}

// =============================================================================
// VARIABLE LISTING TESTS
// =============================================================================

func TestVariables_SortedAndDeduplicated(t *testing.T) {
	vars, err := formula.Variables("B + A * B - SALARIO_DIARIO / A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "SALARIO_DIARIO"}, vars)
}

func TestVariables_NoneInPureArithmetic(t *testing.T) {
	vars, err := formula.Variables("1 + 2 * 3")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

// =============================================================================
// PREVIEW TESTS
// =============================================================================

func TestPreviewFormula_SubstitutesKnownVariables(t *testing.T) {
	p, err := formula.PreviewFormula(
		"SALARIO_DIARIO * DIAS_VACACIONES * 0.25",
		ctx("SALARIO_DIARIO", "350"))

	require.NoError(t, err)
	assert.Equal(t, "350 * DIAS_VACACIONES * 0.25", p.Substituted)
	assert.Equal(t, []string{"DIAS_VACACIONES"}, p.Missing)
}

func TestPreviewFormula_AllBound(t *testing.T) {
	p, err := formula.PreviewFormula("A+B", ctx("A", "1", "B", "2.5"))
	require.NoError(t, err)
	assert.Equal(t, "1+2.5", p.Substituted)
	assert.Empty(t, p.Missing)
}

func TestPreviewFormula_MissingNeverFails(t *testing.T) {
	p, err := formula.PreviewFormula("X * Y", nil)
	require.NoError(t, err)
	assert.Equal(t, "X * Y", p.Substituted)
	assert.Equal(t, []string{"X", "Y"}, p.Missing)
}
