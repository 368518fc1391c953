package symbols

import (
	"fmt"
	"strings"

	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// Symbol is a resolved name. Identity is the canonical (uppercased) name.
type Symbol interface {
	SymbolName() string
	DefinedAt() token.Position // zero for builtins
	String() string
}

// BuiltinType is a predefined type name, present in every scope.
type BuiltinType struct {
	Name string
}

func (b *BuiltinType) SymbolName() string        { return b.Name }
func (b *BuiltinType) DefinedAt() token.Position { return token.Position{} }
func (b *BuiltinType) String() string            { return b.Name }

var (
	Integer = &BuiltinType{Name: "INTEGER"}
	Real    = &BuiltinType{Name: "REAL"}
)

// Builtins returns the symbols every scope starts with.
func Builtins() []Symbol {
	return []Symbol{Integer, Real}
}

type Variable struct {
	Name string
	Type *BuiltinType
	Pos  token.Position
}

func (v *Variable) SymbolName() string        { return v.Name }
func (v *Variable) DefinedAt() token.Position { return v.Pos }
func (v *Variable) String() string            { return fmt.Sprintf("%s: %s", v.Name, v.Type) }

type Procedure struct {
	Name   string
	Params []*Variable
	Pos    token.Position
}

func (p *Procedure) SymbolName() string        { return p.Name }
func (p *Procedure) DefinedAt() token.Position { return p.Pos }
func (p *Procedure) String() string {
	params := make([]string, len(p.Params))
	for i, param := range p.Params {
		params[i] = param.String()
	}
	return fmt.Sprintf("PROCEDURE %s(%s)", p.Name, strings.Join(params, "; "))
}
