// Package problem ties named quantities together with equations and
// solves for the unknowns by fixed-point relaxation: repeated passes
// apply every equation whose inputs have become known until nothing
// changes. There is no symbolic rearrangement — an equation determines
// only its declared target, and solving "the other way" needs a second,
// separately declared equation. Problems compose: a child problem's
// variables mount into the parent under a prefix through a namespacing
// proxy.
package problem

import (
	"fmt"

	"github.com/quantral/quantral/pkg/expr"
	"github.com/quantral/quantral/pkg/quantity"
)

// Variable is one named slot in a problem's table.
type Variable struct {
	Symbol string // table key, unique within the problem
	Name   string // human-readable description
	Value  quantity.Quantity
}

// Known reports whether the slot holds a numeric value.
func (v *Variable) Known() bool { return v.Value.Known() }

// Equation binds a target variable to its defining expression. The
// target must be present in the owning problem's table when solved.
type Equation struct {
	Target string
	RHS    expr.Expr
}

// Problem aggregates a variable table and an ordered equation list.
type Problem struct {
	Name string

	vars  map[string]*Variable
	order []string // declaration order of variables
	eqs   []Equation
}

// New creates an empty problem.
func New(name string) *Problem {
	return &Problem{Name: name, vars: make(map[string]*Variable)}
}

// Define registers a known input variable.
func (p *Problem) Define(symbol, name string, value quantity.Quantity) error {
	return p.addVar(&Variable{Symbol: symbol, Name: name, Value: value})
}

// DefineUnknown registers a variable to be determined by solving.
func (p *Problem) DefineUnknown(symbol, name string) error {
	return p.addVar(&Variable{Symbol: symbol, Name: name, Value: quantity.Unknown(symbol)})
}

func (p *Problem) addVar(v *Variable) error {
	if _, exists := p.vars[v.Symbol]; exists {
		return &DuplicateVariableError{Symbol: v.Symbol}
	}
	p.vars[v.Symbol] = v
	p.order = append(p.order, v.Symbol)
	return nil
}

// Equate registers an equation determining target from rhs.
func (p *Problem) Equate(target string, rhs expr.Expr) {
	p.eqs = append(p.eqs, Equation{Target: target, RHS: rhs})
}

// Var returns the variable for a symbol.
func (p *Problem) Var(symbol string) (*Variable, error) {
	v, ok := p.vars[symbol]
	if !ok {
		return nil, &UnknownVariableError{Symbol: symbol}
	}
	return v, nil
}

// Set assigns a value to an existing variable, typically to supply an
// input after the problem structure is built.
func (p *Problem) Set(symbol string, value quantity.Quantity) error {
	v, ok := p.vars[symbol]
	if !ok {
		return &UnknownVariableError{Symbol: symbol}
	}
	v.Value = value
	return nil
}

// Variables returns the variables in declaration order.
func (p *Problem) Variables() []*Variable {
	out := make([]*Variable, 0, len(p.order))
	for _, sym := range p.order {
		out = append(out, p.vars[sym])
	}
	return out
}

// Equations returns the equations in declaration order.
func (p *Problem) Equations() []Equation {
	return append([]Equation(nil), p.eqs...)
}

// Lookup implements expr.Bindings over the variable table.
func (p *Problem) Lookup(name string) (quantity.Quantity, bool) {
	v, ok := p.vars[name]
	if !ok {
		return quantity.Quantity{}, false
	}
	return v.Value, true
}

// Qualify is the canonical naming function for namespaced variables.
// Proxy construction and table insertion both go through it, so a
// proxy's reported name can never diverge from its backing table key.
func Qualify(prefix, symbol string) string {
	return prefix + "_" + symbol
}

// Proxy exposes an attached child problem's variables under the parent's
// namespace.
type Proxy struct {
	prefix string
	parent *Problem
	child  *Problem
}

// Prefix returns the namespace prefix.
func (px *Proxy) Prefix() string { return px.prefix }

// Ref returns a reference to the child's variable usable in parent
// equations. The reference carries the qualified table key.
func (px *Proxy) Ref(symbol string) (*expr.VarRef, error) {
	if _, ok := px.child.vars[symbol]; !ok {
		return nil, &UnknownVariableError{Symbol: Qualify(px.prefix, symbol)}
	}
	return &expr.VarRef{Name: Qualify(px.prefix, symbol)}, nil
}

// Var returns the parent-table variable backing the child's symbol.
func (px *Proxy) Var(symbol string) (*Variable, error) {
	return px.parent.Var(Qualify(px.prefix, symbol))
}

// Attach mounts a child problem's variables and equations into the
// parent under a prefix. The child's variable slots are shared, not
// copied: solving the parent fills the child's unknowns too. Equations
// are rewritten so every variable reference uses the qualified key.
func (p *Problem) Attach(child *Problem, prefix string) (*Proxy, error) {
	for _, sym := range child.order {
		q := Qualify(prefix, sym)
		if _, exists := p.vars[q]; exists {
			return nil, &DuplicateVariableError{Symbol: q}
		}
	}

	for _, sym := range child.order {
		v := child.vars[sym]
		q := Qualify(prefix, sym)
		p.vars[q] = v
		p.order = append(p.order, q)
	}
	for _, eq := range child.eqs {
		p.eqs = append(p.eqs, Equation{
			Target: Qualify(prefix, eq.Target),
			RHS:    qualifyExpr(eq.RHS, prefix),
		})
	}

	return &Proxy{prefix: prefix, parent: p, child: child}, nil
}

// qualifyExpr rebuilds an expression with every variable reference
// renamed through Qualify. Option variables are categorical inputs, not
// table entries, so Match subjects pass through untouched.
func qualifyExpr(e expr.Expr, prefix string) expr.Expr {
	switch n := e.(type) {
	case *expr.VarRef:
		return &expr.VarRef{Name: Qualify(prefix, n.Name)}
	case *expr.Const:
		return n
	case *expr.Binary:
		return &expr.Binary{
			Op:    n.Op,
			Left:  qualifyExpr(n.Left, prefix),
			Right: qualifyExpr(n.Right, prefix),
		}
	case *expr.Unary:
		return &expr.Unary{Op: n.Op, Operand: qualifyExpr(n.Operand, prefix)}
	case *expr.Call:
		return &expr.Call{Name: n.Name, Operand: qualifyExpr(n.Operand, prefix)}
	case *expr.Conditional:
		return &expr.Conditional{
			Cond: qualifyExpr(n.Cond, prefix),
			Then: qualifyExpr(n.Then, prefix),
			Else: qualifyExpr(n.Else, prefix),
		}
	case *expr.RangeSelect:
		out := &expr.RangeSelect{Subject: qualifyExpr(n.Subject, prefix)}
		for _, b := range n.Buckets {
			out.Buckets = append(out.Buckets, expr.Bucket{
				Cmp:    b.Cmp,
				Bound:  qualifyExpr(b.Bound, prefix),
				Result: qualifyExpr(b.Result, prefix),
			})
		}
		if n.Otherwise != nil {
			out.Otherwise = qualifyExpr(n.Otherwise, prefix)
		}
		return out
	case *expr.Match:
		out := &expr.Match{Subject: n.Subject}
		for _, c := range n.Cases {
			out.Cases = append(out.Cases, expr.MatchCase{
				When:   c.When,
				Result: qualifyExpr(c.Result, prefix),
			})
		}
		return out
	default:
		panic(fmt.Sprintf("problem: unhandled expression type %T", e))
	}
}
