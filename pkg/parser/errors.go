package parser

import "fmt"

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages.
const (
	errUnexpectedToken   = "unexpected token %s, expected %s"
	errUnterminatedUnit  = "unterminated unit literal"
	errInvalidNumber     = "invalid number literal %q"
	errUnknownUnit       = "unknown unit %q"
	errDanglingUnit      = "unit literal must follow a number"
	errWrongArity        = "function %q takes exactly one argument"
	errConditionalArity  = "if() takes exactly three arguments"
	errUnexpectedTrailer = "unexpected trailing input"
)
