package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/lexer"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// --- Test Helper Functions ---

func parse(input string) (*ast.Program, error) {
	p, err := NewParser(lexer.NewLexer(strings.NewReader(input), "test.pas"))
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// mustParse fails the test on any parse error.
func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := parse(input)
	require.NoError(t, err)
	require.NotNil(t, program)
	return program
}

func syntaxError(t *testing.T, input string) *diag.SyntaxError {
	t.Helper()
	_, err := parse(input)
	require.Error(t, err)
	var se *diag.SyntaxError
	require.True(t, errors.As(err, &se), "expected *diag.SyntaxError, got %T: %v", err, err)
	return se
}

// --- The Test Cases ---

func TestProgramStructure(t *testing.T) {
	input := `
PROGRAM Part10;
VAR
   number     : INTEGER;
   a, b       : INTEGER;
   y          : REAL;

BEGIN {Part10}
   BEGIN
      number := 2;
      a := number;
      b := 10 * a + 10 * number DIV 4;
   END;
   y := 20 / 7 + 3.14;
END.  {Part10}
`
	program := mustParse(t, input)
	assert.Equal(t, "PART10", program.Name)

	decls := program.Block.Declarations
	require.Len(t, decls, 4)
	for i, name := range []string{"NUMBER", "A", "B", "Y"} {
		vd, ok := decls[i].(*ast.VariableDeclaration)
		require.Truef(t, ok, "decls[%d] is %T", i, decls[i])
		assert.Equal(t, name, vd.Variable.Name())
	}
	assert.Equal(t, "REAL", decls[3].(*ast.VariableDeclaration).Type.Name())

	stmts := program.Block.Compound.Statements
	require.Len(t, stmts, 3)
	inner, ok := stmts[0].(*ast.Compound)
	require.True(t, ok)
	assert.Len(t, inner.Statements, 4) // trailing ';' yields a NoOp
	assert.IsType(t, &ast.NoOp{}, inner.Statements[3])
	assert.IsType(t, &ast.NoOp{}, stmts[2])
}

func TestExpressionShape(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"(2 + 3) * 4", "(* (+ 2 3) 4)"},
		{"10 - 4 - 3", "(- (- 10 4) 3)"},
		{"a div 2 mod 3", "(MOD (DIV A 2) 3)"},
		{"- - 3", "(- (- 3))"},
		{"not x / 2.5", "(/ (NOT X) 2.5)"},
		{"+a * -b", "(* (+ A) (- B))"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			program := mustParse(t, "PROGRAM p; BEGIN r := "+tt.expr+" END.")
			assign, ok := program.Block.Compound.Statements[0].(*ast.Assignment)
			require.True(t, ok)
			assert.Equal(t, tt.want, assign.Value.String())
		})
	}
}

func TestProgramString(t *testing.T) {
	program := mustParse(t, "program t; var a : integer; begin a := 2 + 3 * 4 end.")
	assert.Equal(t, "(Program T (Block (VarDecl A INTEGER) (Compound (:= A (+ 2 (* 3 4))))))", program.String())
}

func TestProcedures(t *testing.T) {
	input := `
PROGRAM Main;
VAR x : REAL;
PROCEDURE Alpha(a : INTEGER; b, c : REAL);
   VAR y : INTEGER;
   PROCEDURE Beta;
   BEGIN END;
BEGIN
   y := a
END;
BEGIN
END.
`
	program := mustParse(t, input)
	decls := program.Block.Declarations
	require.Len(t, decls, 2)

	alpha, ok := decls[1].(*ast.ProcedureDeclaration)
	require.True(t, ok)
	assert.Equal(t, "ALPHA", alpha.Name)
	require.Len(t, alpha.Params, 3)
	assert.Equal(t, "(Param A INTEGER)", alpha.Params[0].String())
	assert.Equal(t, "(Param C REAL)", alpha.Params[2].String())

	require.Len(t, alpha.Block.Declarations, 2)
	beta, ok := alpha.Block.Declarations[1].(*ast.ProcedureDeclaration)
	require.True(t, ok)
	assert.Empty(t, beta.Params)
}

func TestEmptyParameterListIsRejected(t *testing.T) {
	se := syntaxError(t, "PROGRAM p; PROCEDURE q(); BEGIN END; BEGIN END.")
	assert.Equal(t, token.TokenRParen, se.Actual.Type)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		actual   token.TokenType
		expected []token.TokenType
		hint     string
	}{
		{
			name:     "missing program keyword",
			input:    "BEGIN END.",
			actual:   token.TokenBegin,
			expected: []token.TokenType{token.TokenProgram},
		},
		{
			name:     "missing semicolon between statements",
			input:    "PROGRAM p; BEGIN a := 1 b := 2 END.",
			actual:   token.TokenIdent,
			expected: []token.TokenType{token.TokenEnd},
			hint:     "SEMICOLON",
		},
		{
			name:     "missing final dot",
			input:    "PROGRAM p; BEGIN END",
			actual:   token.TokenEOF,
			expected: []token.TokenType{token.TokenDot},
			hint:     "DOT",
		},
		{
			name:     "trailing tokens after dot",
			input:    "PROGRAM p; BEGIN END. x",
			actual:   token.TokenIdent,
			expected: []token.TokenType{token.TokenEOF},
		},
		{
			name:     "bad factor",
			input:    "PROGRAM p; BEGIN a := * 2 END.",
			actual:   token.TokenAsterisk,
			expected: []token.TokenType{token.TokenPlus, token.TokenMinus, token.TokenNot, token.TokenIntConst, token.TokenRealConst, token.TokenLParen, token.TokenIdent},
		},
		{
			name:     "missing type",
			input:    "PROGRAM p; VAR a : ; BEGIN END.",
			actual:   token.TokenSemicolon,
			expected: []token.TokenType{token.TokenInteger, token.TokenReal, token.TokenIdent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := syntaxError(t, tt.input)
			assert.Equal(t, tt.actual, se.Actual.Type)
			assert.Equal(t, tt.expected, se.Expected)
			if tt.hint != "" {
				assert.Contains(t, se.Reason(), tt.hint)
			}
		})
	}
}

func TestLexicalErrorPassesThrough(t *testing.T) {
	_, err := parse("PROGRAM p; BEGIN a := 1 # 2 END.")
	var lexErr *diag.LexicalError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, "#", lexErr.Text)
}

func TestNoOpPosition(t *testing.T) {
	program := mustParse(t, "PROGRAM p;\nBEGIN\nEND.")
	noop, ok := program.Block.Compound.Statements[0].(*ast.NoOp)
	require.True(t, ok)
	assert.Equal(t, 3, noop.Pos().Line)
	assert.Equal(t, 1, noop.Pos().Column)
}
