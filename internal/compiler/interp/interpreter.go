// Package interp evaluates a program that has already passed semantic
// analysis. Procedures are declared but never executed, so only the global
// store is ever written.
package interp

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

type Interpreter struct {
	store   *Store
	program string
	logger  *slog.Logger
}

type Option func(*Interpreter)

func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{store: NewStore(), logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret runs the program and returns the final global store.
func (in *Interpreter) Interpret(program *ast.Program) (*Store, error) {
	if _, err := ast.Visit[Value](in, program); err != nil {
		return nil, err
	}
	return in.store, nil
}

// ProgramName is the name of the last interpreted program.
func (in *Interpreter) ProgramName() string {
	return in.program
}

func (in *Interpreter) eval(n ast.Node) (Value, error) {
	return ast.Visit[Value](in, n)
}

// --- Declarations and statements ---

func (in *Interpreter) VisitProgram(n *ast.Program) (Value, error) {
	in.program = n.Name
	return in.eval(n.Block)
}

func (in *Interpreter) VisitBlock(n *ast.Block) (Value, error) {
	for _, decl := range n.Declarations {
		if _, err := in.eval(decl); err != nil {
			return Value{}, err
		}
	}
	return in.eval(n.Compound)
}

// Declarations have no runtime effect; no default value is stored.
func (in *Interpreter) VisitVariableDeclaration(*ast.VariableDeclaration) (Value, error) {
	return Value{}, nil
}

func (in *Interpreter) VisitProcedureDeclaration(*ast.ProcedureDeclaration) (Value, error) {
	return Value{}, nil
}

func (in *Interpreter) VisitParam(*ast.Param) (Value, error) { return Value{}, nil }
func (in *Interpreter) VisitType(*ast.Type) (Value, error)   { return Value{}, nil }
func (in *Interpreter) VisitNoOp(*ast.NoOp) (Value, error)   { return Value{}, nil }

func (in *Interpreter) VisitCompound(n *ast.Compound) (Value, error) {
	for _, stmt := range n.Statements {
		if _, err := in.eval(stmt); err != nil {
			return Value{}, err
		}
	}
	return Value{}, nil
}

func (in *Interpreter) VisitAssignment(n *ast.Assignment) (Value, error) {
	v, err := in.eval(n.Value)
	if err != nil {
		return Value{}, err
	}
	in.store.Set(n.Target.Name(), v)
	in.logger.Debug("assign", "name", n.Target.Name(), "value", v.String())
	return Value{}, nil
}

// --- Expressions ---

func (in *Interpreter) VisitNumber(n *ast.Number) (Value, error) {
	switch v := n.Token.Value.(type) {
	case int64:
		return IntValue(v), nil
	case float64:
		return RealValue(v), nil
	}
	return Value{}, &diag.RuntimeError{Msg: fmt.Sprintf("malformed number %q", n.Token.Literal), Pos: n.Pos()}
}

func (in *Interpreter) VisitVariable(n *ast.Variable) (Value, error) {
	v, ok := in.store.Get(n.Name())
	if !ok {
		return Value{}, &diag.RuntimeError{Msg: fmt.Sprintf("variable %q has no value", n.Name()), Pos: n.Pos()}
	}
	return v, nil
}

func (in *Interpreter) VisitUnaryOp(n *ast.UnaryOp) (Value, error) {
	v, err := in.eval(n.Operand)
	if err != nil {
		return Value{}, err
	}

	switch n.Operator.Type {
	case token.TokenPlus:
		return v, nil
	case token.TokenMinus:
		if v.IsInteger() {
			if v.Int == math.MinInt64 {
				return Value{}, integerOverflow(n.Operator)
			}
			return IntValue(-v.Int), nil
		}
		return RealValue(-v.Real), nil
	case token.TokenNot:
		if !v.IsInteger() {
			return Value{}, &diag.TypeError{Msg: "NOT requires an INTEGER operand, got REAL", Pos: n.Pos()}
		}
		return IntValue(^v.Int), nil
	}
	return Value{}, unknownOperator(n.Operator)
}

func (in *Interpreter) VisitBinaryOp(n *ast.BinaryOp) (Value, error) {
	left, err := in.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	op := n.Operator
	bothInt := left.IsInteger() && right.IsInteger()

	switch op.Type {
	case token.TokenPlus:
		if bothInt {
			sum := left.Int + right.Int
			if (left.Int >= 0) == (right.Int >= 0) && (sum >= 0) != (left.Int >= 0) {
				return Value{}, integerOverflow(op)
			}
			return IntValue(sum), nil
		}
		return RealValue(left.Float() + right.Float()), nil

	case token.TokenMinus:
		if bothInt {
			diff := left.Int - right.Int
			if (left.Int >= 0) != (right.Int >= 0) && (diff >= 0) != (left.Int >= 0) {
				return Value{}, integerOverflow(op)
			}
			return IntValue(diff), nil
		}
		return RealValue(left.Float() - right.Float()), nil

	case token.TokenAsterisk:
		if bothInt {
			product, ok := mulInt(left.Int, right.Int)
			if !ok {
				return Value{}, integerOverflow(op)
			}
			return IntValue(product), nil
		}
		return RealValue(left.Float() * right.Float()), nil

	case token.TokenSlash:
		// Real division always yields a real.
		return RealValue(left.Float() / right.Float()), nil

	case token.TokenIntDiv:
		if !bothInt {
			return Value{}, &diag.TypeError{
				Msg: fmt.Sprintf("DIV requires INTEGER operands, got %s and %s", left.Kind, right.Kind),
				Pos: op.Pos,
			}
		}
		if right.Int == 0 {
			return Value{}, divisionByZero(op)
		}
		if left.Int == math.MinInt64 && right.Int == -1 {
			return Value{}, integerOverflow(op)
		}
		return IntValue(left.Int / right.Int), nil

	case token.TokenMod:
		if bothInt {
			if right.Int == 0 {
				return Value{}, divisionByZero(op)
			}
			return IntValue(left.Int % right.Int), nil
		}
		return RealValue(math.Mod(left.Float(), right.Float())), nil
	}

	return Value{}, unknownOperator(op)
}

// mulInt multiplies a and b, reporting false if the product leaves int64.
func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	return p, p/b == a
}

func integerOverflow(op token.Token) error {
	return &diag.RuntimeError{Msg: "integer overflow", Pos: op.Pos}
}

func divisionByZero(op token.Token) error {
	return &diag.RuntimeError{Msg: "division by zero", Pos: op.Pos}
}

func unknownOperator(op token.Token) error {
	return &diag.RuntimeError{Msg: fmt.Sprintf("I don't know how to process operator %s", op.Type), Pos: op.Pos}
}
