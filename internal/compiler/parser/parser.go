package parser

import (
	"slices"

	"github.com/arnavsurve/pascal/internal/compiler/ast"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
	"github.com/arnavsurve/pascal/internal/compiler/lexer"
	"github.com/arnavsurve/pascal/internal/compiler/lib"
	"github.com/arnavsurve/pascal/internal/compiler/token"
)

// Parser is a one-token-lookahead recursive descent parser. It knows
// nothing about names or types; the first error aborts the parse.
type Parser struct {
	l      *lexer.Lexer
	curTok token.Token
}

// NewParser primes the parser with the first token of l.
func NewParser(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{l: l}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// --- Token Handling ---

func (p *Parser) nextToken() error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.curTok = tok
	return nil
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curTok.Type == t
}

// eat consumes the current token if it is one of kinds and returns it.
func (p *Parser) eat(kinds ...token.TokenType) (token.Token, error) {
	if !slices.Contains(kinds, p.curTok.Type) {
		return token.Token{}, p.unexpected(kinds...)
	}
	tok := p.curTok
	if err := p.nextToken(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) unexpected(kinds ...token.TokenType) error {
	return &diag.SyntaxError{Actual: p.curTok, Expected: slices.Clone(kinds)}
}

// --- Program Parsing ---

// ParseProgram parses a whole translation unit:
//
//	program = "PROGRAM" variable ";" block "." EOF
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if _, err := p.eat(token.TokenProgram); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(token.TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.TokenSemicolon); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.TokenDot); err != nil {
		return nil, err
	}
	if !p.curTokenIs(token.TokenEOF) {
		return nil, p.unexpected(token.TokenEOF)
	}

	return &ast.Program{Token: nameTok, Name: lib.CanonicalName(nameTok.Literal), Block: block}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	compound, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Declarations: decls, Compound: compound}, nil
}

// --- Declarations ---

// declarations = [ "VAR" (var_decl ";")+ ] procedure_decl*
func (p *Parser) parseDeclarations() ([]ast.Declaration, error) {
	decls := []ast.Declaration{}

	if p.curTokenIs(token.TokenVar) {
		if _, err := p.eat(token.TokenVar); err != nil {
			return nil, err
		}
		for {
			vars, err := p.parseVariableDeclaration()
			if err != nil {
				return nil, err
			}
			decls = append(decls, vars...)
			if _, err := p.eat(token.TokenSemicolon); err != nil {
				return nil, err
			}
			if !p.curTokenIs(token.TokenIdent) {
				break
			}
		}
	}

	for p.curTokenIs(token.TokenProcedure) {
		proc, err := p.parseProcedureDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, proc)
	}

	return decls, nil
}

// var_decl = IDENT ("," IDENT)* ":" type_spec
func (p *Parser) parseVariableDeclaration() ([]ast.Declaration, error) {
	vars, typeTok, err := p.parseTypedNames()
	if err != nil {
		return nil, err
	}
	decls := make([]ast.Declaration, len(vars))
	for i, v := range vars {
		decls[i] = &ast.VariableDeclaration{Variable: v, Type: &ast.Type{Token: typeTok}}
	}
	return decls, nil
}

// parseTypedNames parses `IDENT ("," IDENT)* ":" type_spec`, shared by
// variable declarations and formal parameters.
func (p *Parser) parseTypedNames() ([]*ast.Variable, token.Token, error) {
	first, err := p.parseVariable()
	if err != nil {
		return nil, token.Token{}, err
	}
	vars := []*ast.Variable{first}

	for p.curTokenIs(token.TokenComma) {
		if _, err := p.eat(token.TokenComma); err != nil {
			return nil, token.Token{}, err
		}
		v, err := p.parseVariable()
		if err != nil {
			return nil, token.Token{}, err
		}
		vars = append(vars, v)
	}

	if _, err := p.eat(token.TokenColon); err != nil {
		return nil, token.Token{}, err
	}
	typeTok, err := p.eat(token.TokenInteger, token.TokenReal, token.TokenIdent)
	if err != nil {
		return nil, token.Token{}, err
	}
	return vars, typeTok, nil
}

// procedure_decl = "PROCEDURE" IDENT [ "(" params (";" params)* ")" ] ";" block ";"
func (p *Parser) parseProcedureDeclaration() (*ast.ProcedureDeclaration, error) {
	if _, err := p.eat(token.TokenProcedure); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(token.TokenIdent)
	if err != nil {
		return nil, err
	}

	params := []*ast.Param{}
	if p.curTokenIs(token.TokenLParen) {
		if params, err = p.parseFormalParameters(); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.TokenSemicolon); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.TokenSemicolon); err != nil {
		return nil, err
	}

	return &ast.ProcedureDeclaration{
		Token:  nameTok,
		Name:   lib.CanonicalName(nameTok.Literal),
		Params: params,
		Block:  block,
	}, nil
}

func (p *Parser) parseFormalParameters() ([]*ast.Param, error) {
	if _, err := p.eat(token.TokenLParen); err != nil {
		return nil, err
	}

	params := []*ast.Param{}
	for {
		vars, typeTok, err := p.parseTypedNames()
		if err != nil {
			return nil, err
		}
		for _, v := range vars {
			params = append(params, &ast.Param{Variable: v, Type: &ast.Type{Token: typeTok}})
		}
		if !p.curTokenIs(token.TokenSemicolon) {
			break
		}
		if _, err := p.eat(token.TokenSemicolon); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.TokenRParen); err != nil {
		return nil, err
	}
	return params, nil
}

// --- Statements ---

// compound = "BEGIN" statement (";" statement)* "END"
func (p *Parser) parseCompound() (*ast.Compound, error) {
	beginTok, err := p.eat(token.TokenBegin)
	if err != nil {
		return nil, err
	}

	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{first}

	for p.curTokenIs(token.TokenSemicolon) {
		if _, err := p.eat(token.TokenSemicolon); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if _, err := p.eat(token.TokenEnd); err != nil {
		return nil, err
	}
	return &ast.Compound{Token: beginTok, Statements: stmts}, nil
}

// statement = compound | assignment | empty
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curTok.Type {
	case token.TokenBegin:
		return p.parseCompound()
	case token.TokenIdent:
		return p.parseAssignment()
	default:
		return &ast.NoOp{Position: p.curTok.Pos}, nil
	}
}

// assignment = variable ":=" expr
func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	target, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	assignTok, err := p.eat(token.TokenAssign)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target, Token: assignTok, Value: value}, nil
}

func (p *Parser) parseVariable() (*ast.Variable, error) {
	tok, err := p.eat(token.TokenIdent)
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Token: tok}, nil
}

// --- Expressions ---

var (
	sumOperators     = []token.TokenType{token.TokenPlus, token.TokenMinus}
	productOperators = []token.TokenType{token.TokenIntDiv, token.TokenSlash, token.TokenMod, token.TokenAsterisk}
	unaryOperators   = []token.TokenType{token.TokenPlus, token.TokenMinus, token.TokenNot}
)

// expr = term (("+"|"-") term)*
func (p *Parser) parseExpression() (ast.Expression, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for slices.Contains(sumOperators, p.curTok.Type) {
		op, err := p.eat(sumOperators...)
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryOp{Left: node, Operator: op, Right: right}
	}
	return node, nil
}

// term = factor (("DIV"|"/"|"MOD"|"*") factor)*
func (p *Parser) parseTerm() (ast.Expression, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for slices.Contains(productOperators, p.curTok.Type) {
		op, err := p.eat(productOperators...)
		if err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryOp{Left: node, Operator: op, Right: right}
	}
	return node, nil
}

// factor = ("+"|"-"|"NOT") factor | INT_CONST | REAL_CONST | "(" expr ")" | variable
func (p *Parser) parseFactor() (ast.Expression, error) {
	switch p.curTok.Type {
	case token.TokenPlus, token.TokenMinus, token.TokenNot:
		op, err := p.eat(unaryOperators...)
		if err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Operator: op, Operand: operand}, nil

	case token.TokenIntConst, token.TokenRealConst:
		tok, err := p.eat(token.TokenIntConst, token.TokenRealConst)
		if err != nil {
			return nil, err
		}
		return &ast.Number{Token: tok}, nil

	case token.TokenLParen:
		if _, err := p.eat(token.TokenLParen); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case token.TokenIdent:
		return p.parseVariable()
	}

	return nil, p.unexpected(
		token.TokenPlus, token.TokenMinus, token.TokenNot,
		token.TokenIntConst, token.TokenRealConst,
		token.TokenLParen, token.TokenIdent,
	)
}
