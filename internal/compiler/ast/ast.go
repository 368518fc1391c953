package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arnavsurve/pascal/internal/compiler/lib"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// --- Interfaces ---

// Node is implemented only by the types in this package, so the set of
// node kinds is closed.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
	node()
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Declaration interface {
	Node
	declarationNode()
}

// --- Program ---

// Program -> PROGRAM name; block.
type Program struct {
	Token token.Token // the program's name identifier
	Name  string
	Block *Block
}

func (p *Program) node()                {}
func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) Pos() token.Position  { return p.Token.Pos }
func (p *Program) String() string {
	return fmt.Sprintf("(Program %s %s)", p.Name, p.Block)
}

// Block -> declarations followed by a compound statement
type Block struct {
	Declarations []Declaration
	Compound     *Compound
}

func (b *Block) node()                {}
func (b *Block) TokenLiteral() string { return b.Compound.TokenLiteral() }
func (b *Block) Pos() token.Position {
	if len(b.Declarations) > 0 {
		return b.Declarations[0].Pos()
	}
	return b.Compound.Pos()
}
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("(Block")
	for _, d := range b.Declarations {
		out.WriteString(" " + d.String())
	}
	out.WriteString(" " + b.Compound.String() + ")")
	return out.String()
}

// --- Declarations ---

// VariableDeclaration -> x : INTEGER (one node per declared name)
type VariableDeclaration struct {
	Variable *Variable
	Type     *Type
}

func (vd *VariableDeclaration) node()                {}
func (vd *VariableDeclaration) declarationNode()     {}
func (vd *VariableDeclaration) TokenLiteral() string { return vd.Variable.TokenLiteral() }
func (vd *VariableDeclaration) Pos() token.Position  { return vd.Variable.Pos() }
func (vd *VariableDeclaration) String() string {
	return fmt.Sprintf("(VarDecl %s %s)", vd.Variable, vd.Type)
}

// ProcedureDeclaration -> PROCEDURE name(params); block;
type ProcedureDeclaration struct {
	Token  token.Token // the procedure's name identifier
	Name   string
	Params []*Param
	Block  *Block
}

func (pd *ProcedureDeclaration) node()                {}
func (pd *ProcedureDeclaration) declarationNode()     {}
func (pd *ProcedureDeclaration) TokenLiteral() string { return pd.Token.Literal }
func (pd *ProcedureDeclaration) Pos() token.Position  { return pd.Token.Pos }
func (pd *ProcedureDeclaration) String() string {
	params := make([]string, len(pd.Params))
	for i, p := range pd.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(Procedure %s (%s) %s)", pd.Name, strings.Join(params, " "), pd.Block)
}

// Param -> a formal parameter, one node per name
type Param struct {
	Variable *Variable
	Type     *Type
}

func (p *Param) node()                {}
func (p *Param) TokenLiteral() string { return p.Variable.TokenLiteral() }
func (p *Param) Pos() token.Position  { return p.Variable.Pos() }
func (p *Param) String() string       { return fmt.Sprintf("(Param %s %s)", p.Variable, p.Type) }

// Type -> INTEGER, REAL or a type identifier
type Type struct {
	Token token.Token
}

func (t *Type) node()                {}
func (t *Type) TokenLiteral() string { return t.Token.Literal }
func (t *Type) Pos() token.Position  { return t.Token.Pos }
func (t *Type) String() string       { return t.Name() }

// Name is the canonical type name.
func (t *Type) Name() string { return lib.CanonicalName(t.Token.Literal) }

// --- Statements ---

// Compound -> BEGIN stmt; stmt END
type Compound struct {
	Token      token.Token // BEGIN
	Statements []Statement
}

func (c *Compound) node()                {}
func (c *Compound) statementNode()       {}
func (c *Compound) TokenLiteral() string { return c.Token.Literal }
func (c *Compound) Pos() token.Position  { return c.Token.Pos }
func (c *Compound) String() string {
	var out bytes.Buffer
	out.WriteString("(Compound")
	for _, s := range c.Statements {
		out.WriteString(" " + s.String())
	}
	out.WriteString(")")
	return out.String()
}

// Assignment -> x := expr
type Assignment struct {
	Target *Variable
	Token  token.Token // :=
	Value  Expression
}

func (a *Assignment) node()                {}
func (a *Assignment) statementNode()       {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() token.Position  { return a.Target.Pos() }
func (a *Assignment) String() string {
	return fmt.Sprintf("(:= %s %s)", a.Target, a.Value)
}

// NoOp is the empty statement.
type NoOp struct {
	Position token.Position
}

func (n *NoOp) node()                {}
func (n *NoOp) statementNode()       {}
func (n *NoOp) TokenLiteral() string { return "" }
func (n *NoOp) Pos() token.Position  { return n.Position }
func (n *NoOp) String() string       { return "(NoOp)" }

// --- Expressions ---

// BinaryOp -> left op right
type BinaryOp struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *BinaryOp) node()                {}
func (b *BinaryOp) expressionNode()      {}
func (b *BinaryOp) TokenLiteral() string { return b.Operator.Literal }
func (b *BinaryOp) Pos() token.Position  { return b.Operator.Pos }
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", lib.CanonicalName(b.Operator.Literal), b.Left, b.Right)
}

// UnaryOp -> op operand
type UnaryOp struct {
	Operator token.Token
	Operand  Expression
}

func (u *UnaryOp) node()                {}
func (u *UnaryOp) expressionNode()      {}
func (u *UnaryOp) TokenLiteral() string { return u.Operator.Literal }
func (u *UnaryOp) Pos() token.Position  { return u.Operator.Pos }
func (u *UnaryOp) String() string {
	return fmt.Sprintf("(%s %s)", lib.CanonicalName(u.Operator.Literal), u.Operand)
}

// Number -> an integer or real constant, already typed by the lexer
type Number struct {
	Token token.Token
}

func (n *Number) node()                {}
func (n *Number) expressionNode()      {}
func (n *Number) TokenLiteral() string { return n.Token.Literal }
func (n *Number) Pos() token.Position  { return n.Token.Pos }
func (n *Number) String() string       { return n.Token.Literal }

// IsReal reports whether the constant is a real.
func (n *Number) IsReal() bool { return n.Token.Type == token.TokenRealConst }

// Variable -> a name used as an expression or assignment target
type Variable struct {
	Token token.Token
}

func (v *Variable) node()                {}
func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Literal }
func (v *Variable) Pos() token.Position  { return v.Token.Pos }
func (v *Variable) String() string       { return v.Name() }

// Name is the canonical variable name.
func (v *Variable) Name() string { return lib.CanonicalName(v.Token.Literal) }
