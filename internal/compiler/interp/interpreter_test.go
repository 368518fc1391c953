package interp

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/lexer"
	"github.com/arnavsurve/pascal/internal/compiler/parser"
	"github.com/arnavsurve/pascal/internal/compiler/scope"
	"github.com/arnavsurve/pascal/internal/compiler/semantic"
)

func interpret(t *testing.T, input string) (*Store, error) {
	t.Helper()
	p, err := parser.NewParser(lexer.NewLexer(strings.NewReader(input), "test.pas"))
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)
	require.NoError(t, semantic.NewAnalyzer(scope.NewTable()).Analyze(program))
	return NewInterpreter().Interpret(program)
}

// eval runs `r := expr` and returns r.
func eval(t *testing.T, expr string) (Value, error) {
	t.Helper()
	store, err := interpret(t, "PROGRAM e; VAR r, i : INTEGER; f : REAL; BEGIN i := 7; f := 2.5; r := "+expr+" END.")
	if err != nil {
		return Value{}, err
	}
	v, ok := store.Get("r")
	require.True(t, ok)
	return v, nil
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want Value
	}{
		{"2 + 3 * 4", IntValue(14)},
		{"(2 + 3) * 4", IntValue(20)},
		{"10 DIV 3", IntValue(3)},
		{"-7 DIV 2", IntValue(-3)},
		{"10 MOD 3", IntValue(1)},
		{"-7 MOD 3", IntValue(-1)},
		{"10 / 2", RealValue(5)},
		{"7 / 2", RealValue(3.5)},
		{"i + 1", IntValue(8)},
		{"i * f", RealValue(17.5)},
		{"f - 1", RealValue(1.5)},
		{"7.5 MOD 2", RealValue(1.5)},
		{"- - i", IntValue(7)},
		{"+i", IntValue(7)},
		{"-f", RealValue(-2.5)},
		{"NOT 0", IntValue(-1)},
		{"NOT 5", IntValue(-6)},
		{"$10 + &10 + %10", IntValue(26)},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := eval(t, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRealFormatting(t *testing.T) {
	got, err := eval(t, "10 / 2")
	require.NoError(t, err)
	assert.Equal(t, "5.0", got.String())
	assert.Equal(t, "REAL", got.Kind.String())
	assert.Equal(t, "14", IntValue(14).String())
	assert.Equal(t, "3.5", RealValue(3.5).String())
}

func TestTypeAndRuntimeErrors(t *testing.T) {
	tests := []struct {
		expr     string
		category string
		reason   string
	}{
		{"10.0 DIV 3", diag.CategoryType, "DIV requires INTEGER operands, got REAL and INTEGER"},
		{"i DIV f", diag.CategoryType, "DIV requires INTEGER operands, got INTEGER and REAL"},
		{"NOT f", diag.CategoryType, "NOT requires an INTEGER operand, got REAL"},
		{"i DIV 0", diag.CategoryRuntime, "division by zero"},
		{"i MOD (i - 7)", diag.CategoryRuntime, "division by zero"},
		{"9223372036854775807 + 1", diag.CategoryRuntime, "integer overflow"},
		{"-9223372036854775807 - 2", diag.CategoryRuntime, "integer overflow"},
		{"4611686018427387904 * 2", diag.CategoryRuntime, "integer overflow"},
		{"-(-9223372036854775807 - 1)", diag.CategoryRuntime, "integer overflow"},
		{"(-9223372036854775807 - 1) DIV -1", diag.CategoryRuntime, "integer overflow"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := eval(t, tt.expr)
			require.Error(t, err)
			d, ok := diag.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.category, d.Category())
			assert.Equal(t, tt.reason, d.Reason())
		})
	}
}

func TestIntegerBoundsWithoutOverflow(t *testing.T) {
	got, err := eval(t, "-9223372036854775807 - 1")
	require.NoError(t, err)
	assert.Equal(t, IntValue(math.MinInt64), got)

	got, err = eval(t, "-4611686018427387904 * 2")
	require.NoError(t, err)
	assert.Equal(t, IntValue(math.MinInt64), got)
}

func TestRealDivisionByZeroIsInfinite(t *testing.T) {
	got, err := eval(t, "1 / 0")
	require.NoError(t, err)
	assert.Equal(t, "+Inf", got.String())
}

func TestUnassignedVariable(t *testing.T) {
	_, err := interpret(t, "PROGRAM u; VAR a, b : INTEGER; BEGIN a := b END.")
	var rt *diag.RuntimeError
	require.True(t, errors.As(err, &rt))
	assert.Equal(t, `variable "B" has no value`, rt.Msg)
}

func TestProgramBindings(t *testing.T) {
	store, err := interpret(t, `
PROGRAM Part10;
VAR
   number     : INTEGER;
   a, b, c, x : INTEGER;
   y          : REAL;
PROCEDURE P1;
   VAR a : REAL;
BEGIN
   a := 100
END;
BEGIN
   BEGIN
      number := 2;
      a := number;
      b := 10 * a + 10 * number DIV 4;
      c := a - - b
   END;
   x := 11;
   y := 20 / 7 + 3.14;
END.`)
	require.NoError(t, err)

	got := map[string]string{}
	for _, b := range store.Bindings() {
		got[b.Name] = b.Value.String()
	}
	assert.Equal(t, map[string]string{
		"NUMBER": "2",
		"A":      "2",
		"B":      "25",
		"C":      "27",
		"X":      "11",
		"Y":      "5.997142857142857",
	}, got)
}

func TestBindingsSortedAndDeclaredOnlyOmitted(t *testing.T) {
	store, err := interpret(t, "PROGRAM s; VAR z, a, m : INTEGER; BEGIN z := 1; a := 2 END.")
	require.NoError(t, err)

	bindings := store.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "A", bindings[0].Name)
	assert.Equal(t, "Z", bindings[1].Name)
	_, ok := store.Get("m")
	assert.False(t, ok)
}

func TestProgramName(t *testing.T) {
	p, err := parser.NewParser(lexer.NewLexer(strings.NewReader("program Hello; begin end."), "h.pas"))
	require.NoError(t, err)
	program, err := p.ParseProgram()
	require.NoError(t, err)

	in := NewInterpreter()
	store, err := in.Interpret(program)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", in.ProgramName())
	assert.Zero(t, store.Len())
}
