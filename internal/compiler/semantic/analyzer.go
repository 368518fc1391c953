// Package semantic checks that every name a program uses is defined, and
// that no name is defined twice in one scope, before anything is evaluated.
package semantic

import (
	"log/slog"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/scope"
	"github.com/arnavsurve/pascal/internal/compiler/symbols"
)

const globalScopeName = "global"

type Analyzer struct {
	table    *scope.Table
	globals  *scope.Scope
	resolved map[*ast.Variable]symbols.Symbol
	logger   *slog.Logger
}

type Option func(*Analyzer)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer walks programs against table, which should be empty.
func NewAnalyzer(table *scope.Table, opts ...Option) *Analyzer {
	a := &Analyzer{
		table:    table,
		resolved: make(map[*ast.Variable]symbols.Symbol),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze walks the program once. The first undefined or duplicate name
// aborts the walk.
func (a *Analyzer) Analyze(program *ast.Program) error {
	_, err := ast.Visit[struct{}](a, program)
	if err != nil {
		a.logger.Debug("semantic analysis failed", "error", err)
	}
	return err
}

// Globals is the global scope of the last successful analysis.
func (a *Analyzer) Globals() *scope.Scope {
	return a.globals
}

// Resolved returns the symbol a variable reference was bound to.
func (a *Analyzer) Resolved(v *ast.Variable) (symbols.Symbol, bool) {
	sym, ok := a.resolved[v]
	return sym, ok
}

func (a *Analyzer) visit(n ast.Node) error {
	_, err := ast.Visit[struct{}](a, n)
	return err
}

func (a *Analyzer) VisitProgram(n *ast.Program) (struct{}, error) {
	global := a.table.Push(globalScopeName)
	if err := a.visit(n.Block); err != nil {
		return struct{}{}, err
	}
	a.table.Pop()
	a.globals = global
	return struct{}{}, nil
}

func (a *Analyzer) VisitBlock(n *ast.Block) (struct{}, error) {
	for _, decl := range n.Declarations {
		if err := a.visit(decl); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, a.visit(n.Compound)
}

func (a *Analyzer) VisitVariableDeclaration(n *ast.VariableDeclaration) (struct{}, error) {
	sym, err := a.resolveVariable(n.Variable, n.Type)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, a.table.Define(sym)
}

// VisitProcedureDeclaration defines the procedure in the enclosing scope
// before descending, then checks its parameters and body in a new scope.
func (a *Analyzer) VisitProcedureDeclaration(n *ast.ProcedureDeclaration) (struct{}, error) {
	proc := &symbols.Procedure{Name: n.Name, Pos: n.Pos()}
	if err := a.table.Define(proc); err != nil {
		return struct{}{}, err
	}

	a.table.Push(n.Name)
	for _, param := range n.Params {
		sym, err := a.resolveVariable(param.Variable, param.Type)
		if err != nil {
			return struct{}{}, err
		}
		if err := a.table.Define(sym); err != nil {
			return struct{}{}, err
		}
		proc.Params = append(proc.Params, sym)
	}
	if err := a.visit(n.Block); err != nil {
		return struct{}{}, err
	}
	a.table.Pop()
	return struct{}{}, nil
}

// VisitParam checks a parameter's type on its own; declaring it is done
// by VisitProcedureDeclaration.
func (a *Analyzer) VisitParam(n *ast.Param) (struct{}, error) {
	return a.VisitType(n.Type)
}

func (a *Analyzer) VisitType(n *ast.Type) (struct{}, error) {
	_, err := a.resolveType(n)
	return struct{}{}, err
}

func (a *Analyzer) VisitCompound(n *ast.Compound) (struct{}, error) {
	for _, stmt := range n.Statements {
		if err := a.visit(stmt); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

func (a *Analyzer) VisitAssignment(n *ast.Assignment) (struct{}, error) {
	if err := a.visit(n.Target); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, a.visit(n.Value)
}

func (a *Analyzer) VisitNoOp(*ast.NoOp) (struct{}, error) {
	return struct{}{}, nil
}

// Operand types are not checked here; the interpreter rejects DIV on reals.
func (a *Analyzer) VisitBinaryOp(n *ast.BinaryOp) (struct{}, error) {
	if err := a.visit(n.Left); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, a.visit(n.Right)
}

func (a *Analyzer) VisitUnaryOp(n *ast.UnaryOp) (struct{}, error) {
	return struct{}{}, a.visit(n.Operand)
}

func (a *Analyzer) VisitNumber(*ast.Number) (struct{}, error) {
	return struct{}{}, nil
}

func (a *Analyzer) VisitVariable(n *ast.Variable) (struct{}, error) {
	sym, err := a.table.Lookup(n.Name(), n.Pos())
	if err != nil {
		return struct{}{}, err
	}
	// Procedure and type names cannot be read or assigned.
	if _, ok := sym.(*symbols.Variable); !ok {
		return struct{}{}, &diag.MissingNameError{Name: n.Name(), What: "variable", Pos: n.Pos()}
	}
	a.resolved[n] = sym
	return struct{}{}, nil
}

// resolveType looks up a type name; it must name a builtin type.
func (a *Analyzer) resolveType(n *ast.Type) (*symbols.BuiltinType, error) {
	sym, err := a.table.Lookup(n.Name(), n.Pos())
	if err != nil {
		return nil, &diag.MissingNameError{Name: n.Name(), What: "type", Pos: n.Pos()}
	}
	typ, ok := sym.(*symbols.BuiltinType)
	if !ok {
		return nil, &diag.MissingNameError{Name: n.Name(), What: "type", Pos: n.Pos()}
	}
	return typ, nil
}

func (a *Analyzer) resolveVariable(v *ast.Variable, t *ast.Type) (*symbols.Variable, error) {
	typ, err := a.resolveType(t)
	if err != nil {
		return nil, err
	}
	return &symbols.Variable{Name: v.Name(), Type: typ, Pos: v.Pos()}, nil
}
