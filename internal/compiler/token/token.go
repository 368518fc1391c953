package token

import (
	"fmt"
	"strings"
)

type TokenType string

const (
	// Operators
	TokenAssign    TokenType = "ASSIGN"    // :=
	TokenColon     TokenType = "COLON"     // :
	TokenComma     TokenType = "COMMA"     // ,
	TokenSlash     TokenType = "DIV"       // / (real division)
	TokenDot       TokenType = "DOT"       // .
	TokenEqual     TokenType = "EQUAL"     // =
	TokenLParen    TokenType = "LPAREN"    // (
	TokenMinus     TokenType = "MINUS"     // -
	TokenAsterisk  TokenType = "MUL"       // *
	TokenPlus      TokenType = "PLUS"      // +
	TokenRParen    TokenType = "RPAREN"    // )
	TokenSemicolon TokenType = "SEMICOLON" // ;

	// Keywords
	TokenProgram   TokenType = "PROGRAM"
	TokenVar       TokenType = "VAR"
	TokenProcedure TokenType = "PROCEDURE"
	TokenBegin     TokenType = "BEGIN"
	TokenEnd       TokenType = "END"
	TokenIntDiv    TokenType = "INT_DIV" // DIV
	TokenMod       TokenType = "MOD"
	TokenNot       TokenType = "NOT"
	TokenInteger   TokenType = "INTEGER" // type name
	TokenReal      TokenType = "REAL"    // type name

	// Literals & Identifiers
	TokenIntConst  TokenType = "INTEGER_CONST" // 42, $2A, &52, %101010
	TokenRealConst TokenType = "REAL_CONST"    // 4.2, 42e-1
	TokenIdent     TokenType = "IDENTIFIER"

	// Special
	TokenEOF TokenType = "EOF"
)

// Category records where a token came from, for diagnostics only.
type Category int

const (
	CategoryEOF Category = iota
	CategoryKeyword
	CategoryOperator
	CategoryLiteral
	CategoryIdentifier
)

func (c Category) String() string {
	switch c {
	case CategoryKeyword:
		return "keyword"
	case CategoryOperator:
		return "operator"
	case CategoryLiteral:
		return "literal"
	case CategoryIdentifier:
		return "identifier"
	default:
		return "eof"
	}
}

// Position is a location in a named source.
type Position struct {
	Source string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s[line:%d, col:%d]", p.Source, p.Line, p.Column)
}

type Token struct {
	Category Category
	Type     TokenType
	Literal  string // raw lexeme
	Value    any    // int64, float64 or uppercased string; nil for keywords and operators
	Pos      Position
}

// HumanReadable renders the token the way diagnostics quote it.
func (t Token) HumanReadable() string {
	switch t.Category {
	case CategoryEOF:
		return "end of file"
	case CategoryLiteral, CategoryIdentifier:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return fmt.Sprintf("%s %s %q", t.Category, t.Type, t.Literal)
	}
}

func (t Token) String() string {
	if t.Value != nil {
		return fmt.Sprintf("%s(%v) at %s", t.Type, t.Value, t.Pos)
	}
	return fmt.Sprintf("%s at %s", t.Type, t.Pos)
}

// IsTypeKeyword reports whether the token names a builtin type.
func (t Token) IsTypeKeyword() bool {
	return t.Type == TokenInteger || t.Type == TokenReal
}

// operators maps operator lexemes to token types. Never mutated.
var operators = map[string]TokenType{
	":=": TokenAssign,
	":":  TokenColon,
	",":  TokenComma,
	"/":  TokenSlash,
	".":  TokenDot,
	"=":  TokenEqual,
	"(":  TokenLParen,
	"-":  TokenMinus,
	"*":  TokenAsterisk,
	"+":  TokenPlus,
	")":  TokenRParen,
	";":  TokenSemicolon,
}

// keywords maps uppercased reserved words to token types. Never mutated.
var keywords = map[string]TokenType{
	"PROGRAM":   TokenProgram,
	"VAR":       TokenVar,
	"PROCEDURE": TokenProcedure,
	"BEGIN":     TokenBegin,
	"END":       TokenEnd,
	"DIV":       TokenIntDiv,
	"MOD":       TokenMod,
	"NOT":       TokenNot,
	"INTEGER":   TokenInteger,
	"REAL":      TokenReal,
}

// MaxOperatorLength is the number of characters the lexer must peek to
// find the longest operator.
var MaxOperatorLength = func() int {
	n := 0
	for op := range operators {
		n = max(n, len(op))
	}
	return n
}()

// LookupOperator returns the operator type for an exact lexeme.
func LookupOperator(s string) (TokenType, bool) {
	t, ok := operators[s]
	return t, ok
}

// IsOperatorPrefix reports whether some operator starts with ch.
func IsOperatorPrefix(ch byte) bool {
	for op := range operators {
		if op[0] == ch {
			return true
		}
	}
	return false
}

// LookupIdent checks if an identifier is a keyword (case-insensitive),
// returning the keyword's token type or TokenIdent.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Keyword returns the canonical spelling of a keyword type.
func Keyword(t TokenType) string {
	for word, kt := range keywords {
		if kt == t {
			return word
		}
	}
	return string(t)
}

// Operator returns the lexeme of an operator type.
func Operator(t TokenType) string {
	for lexeme, ot := range operators {
		if ot == t {
			return lexeme
		}
	}
	return string(t)
}
