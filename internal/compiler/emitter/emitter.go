package emitter

import (
	"strings"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// NOTES:
// - Comments are not part of the AST, so formatting drops them. `fmt -w`
//   refuses to rewrite a file that has any (see compiler.CountComments).
// - Identifiers keep their original spelling; keywords are uppercased.

const indentUnit = "  "

// Emitter renders an AST back to canonical source text. Re-parsing its
// output yields an equivalent tree.
type Emitter struct {
	builder strings.Builder
	depth   int
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit renders program as source text.
func (e *Emitter) Emit(program *ast.Program) (string, error) {
	e.builder.Reset()
	e.depth = 0
	if _, err := ast.Visit[string](e, program); err != nil {
		return "", err
	}
	return e.builder.String(), nil
}

// --- Emit Helpers ---

// emitLine writes one line at the current indentation.
func (e *Emitter) emitLine(line string) {
	if line != "" {
		e.builder.WriteString(strings.Repeat(indentUnit, e.depth))
	}
	e.builder.WriteString(line)
	e.builder.WriteString("\n")
}

// expr renders an expression inline.
func (e *Emitter) expr(n ast.Expression) (string, error) {
	return ast.Visit[string](e, n)
}

// Operator precedence, only used to decide where parentheses go.
func precedence(n ast.Expression) int {
	bin, ok := n.(*ast.BinaryOp)
	if !ok {
		return 3
	}
	switch bin.Operator.Type {
	case token.TokenPlus, token.TokenMinus:
		return 1
	default:
		return 2
	}
}

func operatorText(tok token.Token) string {
	if tok.Category == token.CategoryKeyword {
		return token.Keyword(tok.Type)
	}
	return token.Operator(tok.Type)
}

// --- Program structure ---

func (e *Emitter) VisitProgram(n *ast.Program) (string, error) {
	e.emitLine("PROGRAM " + n.Token.Literal + ";")
	if _, err := e.VisitBlock(n.Block); err != nil {
		return "", err
	}
	e.trimTrailingNewline()
	e.builder.WriteString(".\n")
	return "", nil
}

func (e *Emitter) VisitBlock(n *ast.Block) (string, error) {
	wroteVar := false
	for _, decl := range n.Declarations {
		if _, isVar := decl.(*ast.VariableDeclaration); isVar && !wroteVar {
			e.emitLine("VAR")
			wroteVar = true
		}
		if _, err := ast.Visit[string](e, decl); err != nil {
			return "", err
		}
	}
	return e.VisitCompound(n.Compound)
}

func (e *Emitter) VisitVariableDeclaration(n *ast.VariableDeclaration) (string, error) {
	e.depth++
	e.emitLine(n.Variable.Token.Literal + " : " + n.Type.String() + ";")
	e.depth--
	return "", nil
}

func (e *Emitter) VisitProcedureDeclaration(n *ast.ProcedureDeclaration) (string, error) {
	header := "PROCEDURE " + n.Token.Literal
	if len(n.Params) > 0 {
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			s, err := e.VisitParam(p)
			if err != nil {
				return "", err
			}
			params[i] = s
		}
		header += "(" + strings.Join(params, "; ") + ")"
	}
	e.emitLine(header + ";")

	e.depth++
	if _, err := e.VisitBlock(n.Block); err != nil {
		return "", err
	}
	e.trimTrailingNewline()
	e.builder.WriteString(";\n")
	e.depth--
	return "", nil
}

func (e *Emitter) VisitParam(n *ast.Param) (string, error) {
	return n.Variable.Token.Literal + " : " + n.Type.String(), nil
}

func (e *Emitter) VisitType(n *ast.Type) (string, error) {
	return n.String(), nil
}

// --- Statements ---

// VisitCompound writes BEGIN/END on their own lines and one statement per
// line between them. An empty statement is written as an empty line so the
// number of statements survives a round trip.
func (e *Emitter) VisitCompound(n *ast.Compound) (string, error) {
	e.emitLine("BEGIN")
	e.depth++
	last := len(n.Statements) - 1
	for i, stmt := range n.Statements {
		sep := ""
		if i < last {
			sep = ";"
		}
		if inner, ok := stmt.(*ast.Compound); ok {
			if _, err := e.VisitCompound(inner); err != nil {
				return "", err
			}
			if sep != "" {
				e.trimTrailingNewline()
				e.builder.WriteString(sep + "\n")
			}
			continue
		}
		line, err := ast.Visit[string](e, stmt)
		if err != nil {
			return "", err
		}
		if line == "" && sep == "" {
			continue
		}
		e.emitLine(line + sep)
	}
	e.depth--
	e.emitLine("END")
	return "", nil
}

func (e *Emitter) VisitAssignment(n *ast.Assignment) (string, error) {
	value, err := e.expr(n.Value)
	if err != nil {
		return "", err
	}
	return n.Target.Token.Literal + " := " + value, nil
}

func (e *Emitter) VisitNoOp(*ast.NoOp) (string, error) {
	return "", nil
}

// --- Expressions ---

func (e *Emitter) VisitBinaryOp(n *ast.BinaryOp) (string, error) {
	prec := precedence(n)

	left, err := e.expr(n.Left)
	if err != nil {
		return "", err
	}
	if precedence(n.Left) < prec {
		left = "(" + left + ")"
	}

	right, err := e.expr(n.Right)
	if err != nil {
		return "", err
	}
	if precedence(n.Right) <= prec {
		right = "(" + right + ")"
	}

	return left + " " + operatorText(n.Operator) + " " + right, nil
}

func (e *Emitter) VisitUnaryOp(n *ast.UnaryOp) (string, error) {
	operand, err := e.expr(n.Operand)
	if err != nil {
		return "", err
	}
	if _, isBinary := n.Operand.(*ast.BinaryOp); isBinary {
		operand = "(" + operand + ")"
	}
	if n.Operator.Type == token.TokenNot {
		return "NOT " + operand, nil
	}
	return operatorText(n.Operator) + operand, nil
}

func (e *Emitter) VisitNumber(n *ast.Number) (string, error) {
	return n.Token.Literal, nil
}

func (e *Emitter) VisitVariable(n *ast.Variable) (string, error) {
	return n.Token.Literal, nil
}

func (e *Emitter) trimTrailingNewline() {
	s := e.builder.String()
	if strings.HasSuffix(s, "\n") {
		e.builder.Reset()
		e.builder.WriteString(strings.TrimSuffix(s, "\n"))
	}
}
