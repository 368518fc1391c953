package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

func tokenize(t *testing.T, input string) []token.Token {
	t.Helper()
	toks, err := Tokenize(strings.NewReader(input), "test.pas")
	require.NoError(t, err)
	return toks
}

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestNextToken(t *testing.T) {
	input := `PROGRAM Test;
VAR a, b : INTEGER;
BEGIN
  a := 10 DIV 3 + -b * 2.5 / (1 MOD 2);
END.`

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.TokenProgram, "PROGRAM"},
		{token.TokenIdent, "Test"},
		{token.TokenSemicolon, ";"},
		{token.TokenVar, "VAR"},
		{token.TokenIdent, "a"},
		{token.TokenComma, ","},
		{token.TokenIdent, "b"},
		{token.TokenColon, ":"},
		{token.TokenInteger, "INTEGER"},
		{token.TokenSemicolon, ";"},
		{token.TokenBegin, "BEGIN"},
		{token.TokenIdent, "a"},
		{token.TokenAssign, ":="},
		{token.TokenIntConst, "10"},
		{token.TokenIntDiv, "DIV"},
		{token.TokenIntConst, "3"},
		{token.TokenPlus, "+"},
		{token.TokenMinus, "-"},
		{token.TokenIdent, "b"},
		{token.TokenAsterisk, "*"},
		{token.TokenRealConst, "2.5"},
		{token.TokenSlash, "/"},
		{token.TokenLParen, "("},
		{token.TokenIntConst, "1"},
		{token.TokenMod, "MOD"},
		{token.TokenIntConst, "2"},
		{token.TokenRParen, ")"},
		{token.TokenSemicolon, ";"},
		{token.TokenEnd, "END"},
		{token.TokenDot, "."},
		{token.TokenEOF, ""},
	}

	toks := tokenize(t, input)
	require.Len(t, toks, len(expected))
	for i, tt := range expected {
		assert.Equalf(t, tt.typ, toks[i].Type, "tests[%d] type", i)
		assert.Equalf(t, tt.literal, toks[i].Literal, "tests[%d] literal", i)
	}
}

func TestAssignIsLongestMatch(t *testing.T) {
	toks := tokenize(t, "a:=1 b : c")
	assert.Equal(t, []token.TokenType{
		token.TokenIdent, token.TokenAssign, token.TokenIntConst,
		token.TokenIdent, token.TokenColon, token.TokenIdent, token.TokenEOF,
	}, types(toks))
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks := tokenize(t, "begin Begin BEGIN div Mod nOt")
	assert.Equal(t, []token.TokenType{
		token.TokenBegin, token.TokenBegin, token.TokenBegin,
		token.TokenIntDiv, token.TokenMod, token.TokenNot, token.TokenEOF,
	}, types(toks))
	for _, tok := range toks[:6] {
		assert.Equal(t, token.CategoryKeyword, tok.Category)
		assert.Nil(t, tok.Value)
	}
}

func TestIdentifierValueIsUppercased(t *testing.T) {
	toks := tokenize(t, "myVar _x1")
	require.Len(t, toks, 3)
	assert.Equal(t, "myVar", toks[0].Literal)
	assert.Equal(t, "MYVAR", toks[0].Value)
	assert.Equal(t, "_X1", toks[1].Value)
	assert.Equal(t, token.CategoryIdentifier, toks[0].Category)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		value any
	}{
		{"42", token.TokenIntConst, int64(42)},
		{"3.14", token.TokenRealConst, 3.14},
		{"1e3", token.TokenRealConst, 1000.0},
		{"25E-1", token.TokenRealConst, 2.5},
		{"1.5e+2", token.TokenRealConst, 150.0},
		{"$2A", token.TokenIntConst, int64(42)},
		{"$ff", token.TokenIntConst, int64(255)},
		{"&52", token.TokenIntConst, int64(42)},
		{"%101010", token.TokenIntConst, int64(42)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.typ, toks[0].Type)
			assert.Equal(t, tt.value, toks[0].Value)
			assert.Equal(t, tt.input, toks[0].Literal)
			assert.Equal(t, token.CategoryLiteral, toks[0].Category)
		})
	}
}

func TestDotWithoutDigitEndsNumber(t *testing.T) {
	toks := tokenize(t, "END 5.")
	assert.Equal(t, []token.TokenType{token.TokenEnd, token.TokenIntConst, token.TokenDot, token.TokenEOF}, types(toks))
}

func TestComments(t *testing.T) {
	input := `{ brace comment }
a (* paren
comment *) := { inline } 1`
	toks := tokenize(t, input)
	assert.Equal(t, []token.TokenType{token.TokenIdent, token.TokenAssign, token.TokenIntConst, token.TokenEOF}, types(toks))
	assert.Equal(t, 2, toks[0].Pos.Line)
	assert.Equal(t, 3, toks[1].Pos.Line)
}

func TestCommentsAreCounted(t *testing.T) {
	l := NewLexer(strings.NewReader("PROGRAM p; { keep me }\nBEGIN (* and me *) END."), "test.pas")
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		if tok.Type == token.TokenEOF {
			break
		}
	}
	assert.Equal(t, 2, l.Comments())
}

func TestUnterminatedCommentRunsToEOF(t *testing.T) {
	toks := tokenize(t, "a { never closed")
	assert.Equal(t, []token.TokenType{token.TokenIdent, token.TokenEOF}, types(toks))
}

func TestPositions(t *testing.T) {
	toks := tokenize(t, "a := 1;\n  b := 22")
	want := []struct{ line, col int }{
		{1, 1}, {1, 3}, {1, 6}, {1, 7},
		{2, 3}, {2, 5}, {2, 8},
		{2, 10},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equalf(t, w.line, toks[i].Pos.Line, "token %d (%s) line", i, toks[i].Type)
		assert.Equalf(t, w.col, toks[i].Pos.Column, "token %d (%s) column", i, toks[i].Type)
		assert.Equal(t, "test.pas", toks[i].Pos.Source)
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := NewLexer(strings.NewReader("x"), "test.pas")
	_, err := l.NextToken()
	require.NoError(t, err)
	for range 3 {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, token.TokenEOF, tok.Type)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
		text  string
		col   int
	}{
		{"a := 1 ? 2", "Unexpected character", "?", 8},
		{"a := é", "Unexpected character", "é", 6},
		{"x := 1e", "Malformed numeric literal", "1e", 6},
		{"x := 2E+", "Malformed numeric literal", "2E+", 6},
		{"$", "Malformed numeric literal", "$", 1},
		{"%102", "Malformed numeric literal", "%102", 1},
		{"99999999999999999999", "Integer literal out of range", "99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(strings.NewReader(tt.input), "test.pas")
			require.Error(t, err)

			var lexErr *diag.LexicalError
			require.True(t, errors.As(err, &lexErr), "got %T", err)
			assert.Equal(t, tt.msg, lexErr.Msg)
			assert.Equal(t, tt.text, lexErr.Text)
			assert.Equal(t, tt.col, lexErr.Pos.Column)
			assert.Equal(t, diag.CategoryLexical, lexErr.Category())
		})
	}
}

func TestReTokenizeLiterals(t *testing.T) {
	input := "PROGRAM p; VAR x : REAL; BEGIN x := $1F * 2.5e1 DIV (3 - -1) END."
	first := tokenize(t, input)

	lits := make([]string, 0, len(first))
	for _, tok := range first[:len(first)-1] {
		lits = append(lits, tok.Literal)
	}
	second := tokenize(t, strings.Join(lits, " "))

	assert.Equal(t, types(first), types(second))
	for i := range first {
		assert.Equal(t, first[i].Value, second[i].Value)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadErrorIsReturned(t *testing.T) {
	_, err := Tokenize(failingReader{}, "broken.pas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
