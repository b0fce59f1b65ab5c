package unit

import (
	"fmt"
	"strconv"
)

// parseComposed parses a normalized composed spelling such as "kg*m/s2",
// "ft/s2", "m/(s*s)" or "s-1" into an interned derived unit.
//
// Grammar (left-associative, '/' and '*' at equal precedence as in
// conventional unit notation):
//
//	expr   := term (('*' | '/') term)*
//	term   := factor exponent?
//	factor := '(' expr ')' | atom
//	atom   := longest run of symbol characters
//	exponent := '^'? '-'? digits
func (r *Registry) parseComposed(s string) (*Unit, error) {
	p := &symbolParser{r: r, input: s}
	u, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing input %q in unit spelling", p.input[p.pos:])
	}
	return u, nil
}

type symbolParser struct {
	r     *Registry
	input string
	pos   int
}

func (p *symbolParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *symbolParser) parseExpr() (*Unit, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op ComposeOp
		switch p.peek() {
		case '*':
			op = OpMul
		case '/':
			op = OpDiv
		default:
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left, err = p.r.Compose(left, right, op)
		if err != nil {
			return nil, err
		}
	}
}

func (p *symbolParser) parseTerm() (*Unit, error) {
	u, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if k, ok := p.parseExponent(); ok {
		return p.r.Pow(u, k)
	}
	return u, nil
}

func (p *symbolParser) parseFactor() (*Unit, error) {
	if p.peek() == '(' {
		p.pos++
		u, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing ')' in unit spelling %q", p.input)
		}
		p.pos++
		return u, nil
	}
	return p.parseAtom()
}

// atom characters: anything that is not an operator, paren, or exponent.
func isAtomChar(c byte) bool {
	switch c {
	case '*', '/', '(', ')', '^', '-':
		return false
	}
	if c >= '0' && c <= '9' {
		return false
	}
	return true
}

func (p *symbolParser) parseAtom() (*Unit, error) {
	start := p.pos
	for p.pos < len(p.input) && isAtomChar(p.input[p.pos]) {
		p.pos++
	}
	// Multi-byte runes (°, Ω) pass isAtomChar bytewise since no UTF-8
	// continuation byte collides with the ASCII operator set.
	atom := p.input[start:p.pos]
	if atom == "" {
		return nil, fmt.Errorf("empty unit atom at offset %d in %q", start, p.input)
	}
	u, ok := p.r.lookup(atom)
	if !ok {
		return nil, &UnitNotFoundError{Name: atom}
	}
	return u, nil
}

// parseExponent consumes an optional integer exponent suffix.
func (p *symbolParser) parseExponent() (int, bool) {
	start := p.pos
	if p.peek() == '^' {
		p.pos++
	}
	neg := false
	if p.peek() == '-' {
		neg = true
		p.pos++
	}
	digits := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digits {
		p.pos = start
		return 0, false
	}
	k, err := strconv.Atoi(p.input[digits:p.pos])
	if err != nil {
		p.pos = start
		return 0, false
	}
	if neg {
		k = -k
	}
	return k, true
}

// CanonicalSymbol normalizes and resolves a spelling, returning the
// canonical symbol of the resolved unit. Used by callers that need a
// stable cache key for a user-provided spelling.
func (r *Registry) CanonicalSymbol(spelling string) (string, error) {
	u, err := r.Resolve(spelling)
	if err != nil {
		return "", err
	}
	return u.Symbol, nil
}
