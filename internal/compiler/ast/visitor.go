package ast

import "fmt"

// Visitor has one method per node kind. A type that implements it handles
// every kind of node, which the compiler checks.
type Visitor[T any] interface {
	VisitProgram(*Program) (T, error)
	VisitBlock(*Block) (T, error)
	VisitVariableDeclaration(*VariableDeclaration) (T, error)
	VisitProcedureDeclaration(*ProcedureDeclaration) (T, error)
	VisitParam(*Param) (T, error)
	VisitType(*Type) (T, error)
	VisitCompound(*Compound) (T, error)
	VisitAssignment(*Assignment) (T, error)
	VisitNoOp(*NoOp) (T, error)
	VisitBinaryOp(*BinaryOp) (T, error)
	VisitUnaryOp(*UnaryOp) (T, error)
	VisitNumber(*Number) (T, error)
	VisitVariable(*Variable) (T, error)
}

// Visit dispatches n to the matching method of v.
func Visit[T any](v Visitor[T], n Node) (T, error) {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *Block:
		return v.VisitBlock(n)
	case *VariableDeclaration:
		return v.VisitVariableDeclaration(n)
	case *ProcedureDeclaration:
		return v.VisitProcedureDeclaration(n)
	case *Param:
		return v.VisitParam(n)
	case *Type:
		return v.VisitType(n)
	case *Compound:
		return v.VisitCompound(n)
	case *Assignment:
		return v.VisitAssignment(n)
	case *NoOp:
		return v.VisitNoOp(n)
	case *BinaryOp:
		return v.VisitBinaryOp(n)
	case *UnaryOp:
		return v.VisitUnaryOp(n)
	case *Number:
		return v.VisitNumber(n)
	case *Variable:
		return v.VisitVariable(n)
	}
	// Only a nil node gets here; the node set is sealed.
	var zero T
	return zero, fmt.Errorf("ast: cannot visit %T", n)
}
