// Package parser parses calculation expressions into the expression AST.
// The syntax is conventional infix arithmetic with comparisons, boolean
// connectives, unary functions, if(cond, then, else), and numeric
// literals with unit suffixes in braces: "T_bar*(1-U_m)" or
// "0.5*rho*V^2*A" with "rho = 1.225{kg/m3}".
package parser

import (
	"fmt"
	"strconv"

	"github.com/quantral/quantral/pkg/expr"
	"github.com/quantral/quantral/pkg/quantity"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precOr         (or)
//	precAnd        (and)
//	precComparison (<, >, <=, >=, ==, !=)
//	precAddition   (+, -)
//	precMultiply   (*, /)
//	precUnary      (-, +)
//	precPower      (^, right-associative)
const (
	precNone = iota
	precOr
	precAnd
	precComparison
	precAddition
	precMultiply
	precUnary
	precPower
)

// Parser parses a single expression.
type Parser struct {
	lexer *Lexer
	token Token
	peek  Token
}

// New creates a parser for the given input.
func New(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the full input as one expression.
func Parse(input string) (expr.Expr, error) {
	return New(input).Parse()
}

// Parse parses the input and requires it to be fully consumed.
func (p *Parser) Parse() (expr.Expr, error) {
	e, err := p.parseExpression(precNone + 1)
	if err != nil {
		return nil, err
	}
	if p.token.Type != TOKEN_EOF {
		return nil, p.errorf(errUnexpectedTrailer)
	}
	return e, nil
}

func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.token.Pos, Message: fmt.Sprintf(format, args...)}
}

// parseExpression implements Pratt parsing with precedence climbing.
func (p *Parser) parseExpression(minPrecedence int) (expr.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			return left, nil
		}
		left, err = p.parseInfix(left, prec)
		if err != nil {
			return nil, err
		}
	}
}

func infixPrecedence(t TokenType) int {
	switch t {
	case TOKEN_OR:
		return precOr
	case TOKEN_AND:
		return precAnd
	case TOKEN_LT, TOKEN_GT, TOKEN_LEQ, TOKEN_GEQ, TOKEN_EQ, TOKEN_NEQ:
		return precComparison
	case TOKEN_PLUS, TOKEN_MINUS:
		return precAddition
	case TOKEN_STAR, TOKEN_SLASH:
		return precMultiply
	case TOKEN_CARET:
		return precPower
	default:
		return precNone
	}
}

var infixOps = map[TokenType]expr.BinaryOp{
	TOKEN_OR:    expr.OpOr,
	TOKEN_AND:   expr.OpAnd,
	TOKEN_LT:    expr.OpLt,
	TOKEN_GT:    expr.OpGt,
	TOKEN_LEQ:   expr.OpLeq,
	TOKEN_GEQ:   expr.OpGeq,
	TOKEN_EQ:    expr.OpEq,
	TOKEN_NEQ:   expr.OpNeq,
	TOKEN_PLUS:  expr.OpAdd,
	TOKEN_MINUS: expr.OpSub,
	TOKEN_STAR:  expr.OpMul,
	TOKEN_SLASH: expr.OpDiv,
	TOKEN_CARET: expr.OpPow,
}

func (p *Parser) parseInfix(left expr.Expr, prec int) (expr.Expr, error) {
	op := infixOps[p.token.Type]
	rightAssoc := p.token.Type == TOKEN_CARET
	p.nextToken()

	minPrec := prec + 1
	if rightAssoc {
		minPrec = prec
	}
	right, err := p.parseExpression(minPrec)
	if err != nil {
		return nil, err
	}
	return &expr.Binary{Op: op, Left: left, Right: right}, nil
}

// parsePrefix parses unary operators and primary expressions.
func (p *Parser) parsePrefix() (expr.Expr, error) {
	switch p.token.Type {
	case TOKEN_MINUS:
		p.nextToken()
		operand, err := p.parseExpression(precUnary)
		if err != nil {
			return nil, err
		}
		return &expr.Unary{Op: expr.OpSub, Operand: operand}, nil

	case TOKEN_PLUS:
		p.nextToken()
		return p.parseExpression(precUnary)

	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (expr.Expr, error) {
	switch p.token.Type {
	case TOKEN_NUMBER:
		return p.parseNumber()

	case TOKEN_IDENT:
		name := p.token.Literal
		if p.peek.Type == TOKEN_LPAREN {
			return p.parseCall(name)
		}
		p.nextToken()
		return &expr.VarRef{Name: name}, nil

	case TOKEN_LPAREN:
		p.nextToken()
		e, err := p.parseExpression(precNone + 1)
		if err != nil {
			return nil, err
		}
		if p.token.Type != TOKEN_RPAREN {
			return nil, p.errorf(errUnexpectedToken, p.token.Type, TOKEN_RPAREN)
		}
		p.nextToken()
		return e, nil

	case TOKEN_UNIT:
		return nil, p.errorf(errDanglingUnit)

	case TOKEN_ILLEGAL:
		return nil, p.errorf("illegal token %q", p.token.Literal)

	default:
		return nil, p.errorf(errUnexpectedToken, p.token.Type, "expression")
	}
}

// parseNumber parses a numeric literal with an optional {unit} suffix.
func (p *Parser) parseNumber() (expr.Expr, error) {
	v, err := strconv.ParseFloat(p.token.Literal, 64)
	if err != nil {
		return nil, p.errorf(errInvalidNumber, p.token.Literal)
	}
	p.nextToken()

	if p.token.Type != TOKEN_UNIT {
		return expr.Num(v), nil
	}
	spelling := p.token.Literal
	q, err := quantity.New(v, spelling)
	if err != nil {
		return nil, p.errorf(errUnknownUnit, spelling)
	}
	p.nextToken()
	return &expr.Const{Value: q}, nil
}

// parseCall parses name(args). A single argument builds a Call; the
// special form if(cond, then, else) builds a Conditional.
func (p *Parser) parseCall(name string) (expr.Expr, error) {
	p.nextToken() // onto '('
	p.nextToken() // past '('

	var args []expr.Expr
	if p.token.Type != TOKEN_RPAREN {
		for {
			a, err := p.parseExpression(precNone + 1)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.token.Type != TOKEN_COMMA {
				break
			}
			p.nextToken()
		}
	}
	if p.token.Type != TOKEN_RPAREN {
		return nil, p.errorf(errUnexpectedToken, p.token.Type, TOKEN_RPAREN)
	}
	p.nextToken()

	if name == "if" {
		if len(args) != 3 {
			return nil, p.errorf(errConditionalArity)
		}
		return &expr.Conditional{Cond: args[0], Then: args[1], Else: args[2]}, nil
	}
	if len(args) != 1 {
		return nil, p.errorf(errWrongArity, name)
	}
	return &expr.Call{Name: name, Operand: args[0]}, nil
}
