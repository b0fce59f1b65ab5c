package parser

import "fmt"

// TokenType identifies a lexical token.
type TokenType int

// Token types.
const (
	TOKEN_EOF TokenType = iota
	TOKEN_IDENT
	TOKEN_NUMBER
	TOKEN_UNIT // {in}, {ft/s²} — attaches to the preceding number

	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_CARET

	TOKEN_LT
	TOKEN_GT
	TOKEN_LEQ
	TOKEN_GEQ
	TOKEN_EQ
	TOKEN_NEQ

	TOKEN_AND
	TOKEN_OR

	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COMMA

	TOKEN_ILLEGAL
)

var tokenNames = map[TokenType]string{
	TOKEN_EOF:     "EOF",
	TOKEN_IDENT:   "IDENT",
	TOKEN_NUMBER:  "NUMBER",
	TOKEN_UNIT:    "UNIT",
	TOKEN_PLUS:    "+",
	TOKEN_MINUS:   "-",
	TOKEN_STAR:    "*",
	TOKEN_SLASH:   "/",
	TOKEN_CARET:   "^",
	TOKEN_LT:      "<",
	TOKEN_GT:      ">",
	TOKEN_LEQ:     "<=",
	TOKEN_GEQ:     ">=",
	TOKEN_EQ:      "==",
	TOKEN_NEQ:     "!=",
	TOKEN_AND:     "AND",
	TOKEN_OR:      "OR",
	TOKEN_LPAREN:  "(",
	TOKEN_RPAREN:  ")",
	TOKEN_COMMA:   ",",
	TOKEN_ILLEGAL: "ILLEGAL",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position locates a token in the input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // byte offset
}

// Token is one lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// keywords maps reserved identifiers to their token types.
var keywords = map[string]TokenType{
	"and": TOKEN_AND,
	"or":  TOKEN_OR,
}
