// Package diag defines the errors every pipeline stage fails with.
//
// Each stage aborts on its first error; callers use errors.As to find the
// concrete type and Format to render it for humans.
package diag

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/arnavsurve/pascal/internal/compiler/token"
)

const (
	CategoryLexical = "Lexical Error"
	CategorySyntax  = "Syntax Error"
	CategoryName    = "Name Error"
	CategoryType    = "Type Error"
	CategoryRuntime = "Runtime Error"
)

// Diagnostic is implemented by every error in this package.
type Diagnostic interface {
	error
	Category() string
	Reason() string
	Position() token.Position
}

// LexicalError: the current characters match no token rule.
type LexicalError struct {
	Text string
	Msg  string
	Pos  token.Position
}

func (e *LexicalError) Category() string         { return CategoryLexical }
func (e *LexicalError) Position() token.Position { return e.Pos }
func (e *LexicalError) Reason() string {
	msg := e.Msg
	if msg == "" {
		msg = "Unexpected string"
	}
	return fmt.Sprintf("%s %q", msg, e.Text)
}
func (e *LexicalError) Error() string { return message(e) }

// SyntaxError: the current token fits no production at the parser's position.
type SyntaxError struct {
	Actual   token.Token
	Expected []token.TokenType
}

func (e *SyntaxError) Category() string         { return CategorySyntax }
func (e *SyntaxError) Position() token.Position { return e.Actual.Pos }
func (e *SyntaxError) Reason() string {
	want := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		want[i] = string(t)
	}
	msg := fmt.Sprintf("Expected token of type %s but got %s", strings.Join(want, " or "), e.Actual.HumanReadable())
	switch {
	case e.MissingSemicolon():
		msg += "\n    ... perhaps you forgot a SEMICOLON on a previous line?"
	case e.MissingDot():
		msg += "\n    ... you probably forgot to put a DOT at the end of your file!"
	}
	return msg
}
func (e *SyntaxError) Error() string { return message(e) }

// MissingSemicolon reports whether the error looks like a forgotten ';'.
func (e *SyntaxError) MissingSemicolon() bool {
	got := e.Actual.Type
	if slices.Contains(e.Expected, token.TokenSemicolon) && got == token.TokenEnd {
		return true
	}
	return slices.Contains(e.Expected, token.TokenEnd) &&
		(got == token.TokenBegin || got == token.TokenIdent || got == token.TokenProcedure)
}

// MissingDot reports whether the source ended where the final '.' belongs.
func (e *SyntaxError) MissingDot() bool {
	return slices.Contains(e.Expected, token.TokenDot) && e.Actual.Type == token.TokenEOF
}

// DuplicateNameError: a name defined twice in one scope.
type DuplicateNameError struct {
	Name     string
	Previous token.Position
	Current  token.Position
}

func (e *DuplicateNameError) Category() string         { return CategoryName }
func (e *DuplicateNameError) Position() token.Position { return e.Current }
func (e *DuplicateNameError) Reason() string {
	return fmt.Sprintf("Symbol %q has already been defined at %s", e.Name, e.Previous)
}
func (e *DuplicateNameError) Error() string { return message(e) }

// MissingNameError: a name not found in the current or any enclosing scope.
type MissingNameError struct {
	Name string
	What string // "symbol" or "type"
	Pos  token.Position
}

func (e *MissingNameError) Category() string         { return CategoryName }
func (e *MissingNameError) Position() token.Position { return e.Pos }
func (e *MissingNameError) Reason() string {
	what := e.What
	if what == "" {
		what = "symbol"
	}
	return fmt.Sprintf("No %s named %q is defined", what, e.Name)
}
func (e *MissingNameError) Error() string { return message(e) }

// TypeError is raised by the interpreter only.
type TypeError struct {
	Msg string
	Pos token.Position
}

func (e *TypeError) Category() string         { return CategoryType }
func (e *TypeError) Position() token.Position { return e.Pos }
func (e *TypeError) Reason() string           { return e.Msg }
func (e *TypeError) Error() string            { return message(e) }

// RuntimeError covers evaluation failures that are not type errors.
type RuntimeError struct {
	Msg string
	Pos token.Position
}

func (e *RuntimeError) Category() string         { return CategoryRuntime }
func (e *RuntimeError) Position() token.Position { return e.Pos }
func (e *RuntimeError) Reason() string           { return e.Msg }
func (e *RuntimeError) Error() string            { return message(e) }

func message(d Diagnostic) string {
	reason, _, _ := strings.Cut(d.Reason(), "\n")
	return fmt.Sprintf("%s at %s: %s", d.Category(), d.Position(), reason)
}

// Format renders err as a multi-line report. Non-diagnostic errors are
// returned as their plain message.
func Format(err error) string {
	var d Diagnostic
	if !errors.As(err, &d) {
		return err.Error()
	}
	head, hint, found := strings.Cut(d.Reason(), "\n")
	if found {
		hint = "\n" + hint
	}
	return fmt.Sprintf("%s!\n    %s at %s%s", d.Category(), head, d.Position(), hint)
}

// As returns the Diagnostic inside err, if any.
func As(err error) (Diagnostic, bool) {
	var d Diagnostic
	ok := errors.As(err, &d)
	return d, ok
}

// Incomplete reports whether err is a syntax error raised at end of input,
// meaning more source could still make the program valid.
func Incomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Actual.Type == token.TokenEOF
}
