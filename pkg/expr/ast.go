// Package expr provides the expression AST for engineering calculations
// and its recursive evaluator. Expressions reference named quantities,
// combine them with dimension-checked arithmetic, apply transcendental
// functions, and select between branches by condition, value range, or
// categorical option.
//
// Evaluation is tri-state: a node produces a resolved quantity, an
// Unresolved marker (a referenced variable has no value yet), or an
// error. Unresolved is the expected common path during partial solving,
// not a failure.
package expr

import (
	"sort"

	"github.com/quantral/quantral/pkg/quantity"
)

// Expr is an expression node. The variant set is closed: "delayed" versus
// "resolved" is a matchable evaluation state, not a reflective check.
type Expr interface {
	exprNode()

	// collectVars accumulates transitively referenced variable names.
	collectVars(names map[string]struct{})

	// hash returns a structural content hash used for subexpression
	// memoization during evaluation.
	hash() uint64
}

// VarRef references a named quantity in the evaluation bindings.
type VarRef struct {
	Name string
}

func (*VarRef) exprNode() {}

// Const wraps a literal quantity value.
type Const struct {
	Value quantity.Quantity
}

func (*Const) exprNode() {}

// Num wraps a dimensionless literal.
func Num(v float64) *Const {
	return &Const{Value: quantity.Dimensionless(v)}
}

// BinaryOp enumerates binary operators.
type BinaryOp string

// Binary operators. Pow requires an integer-valued dimensionless right
// operand. Comparison and logical operators yield dimensionless 0/1.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpPow BinaryOp = "^"

	OpLt  BinaryOp = "<"
	OpGt  BinaryOp = ">"
	OpLeq BinaryOp = "<="
	OpGeq BinaryOp = ">="
	OpEq  BinaryOp = "=="
	OpNeq BinaryOp = "!="

	OpAnd BinaryOp = "and"
	OpOr  BinaryOp = "or"
)

// Binary applies a binary operator to two subexpressions.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Unary negates or passes through its operand.
type Unary struct {
	Op      BinaryOp // OpSub for negation, OpAdd for identity
	Operand Expr
}

func (*Unary) exprNode() {}

// Call applies a named unary function (sin, cos, exp, log, sqrt, ...).
// Transcendentals require dimensionless operands.
type Call struct {
	Name    string
	Operand Expr
}

func (*Call) exprNode() {}

// Conditional evaluates Cond first and then exactly one branch; the
// untaken branch is never evaluated. A condition is true when the
// magnitude of its value exceeds ConditionEpsilon.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Conditional) exprNode() {}

// Bucket is one (predicate, value) pair of a RangeSelect: the predicate
// holds when `subject Cmp Bound` is true.
type Bucket struct {
	Cmp    BinaryOp // one of OpLt, OpGt, OpLeq, OpGeq
	Bound  Expr
	Result Expr
}

// RangeSelect evaluates Subject and returns the result of the first
// bucket whose predicate matches, in declared order. Bounds are
// unit-normalized before comparison. With no match, Otherwise applies
// when present; otherwise the node is Unresolved (or RangeNoMatchError
// in strict mode).
type RangeSelect struct {
	Subject   Expr
	Buckets   []Bucket
	Otherwise Expr // may be nil
}

func (*RangeSelect) exprNode() {}

// MatchCase pairs a categorical option with its result expression.
type MatchCase struct {
	When   *Option
	Result Expr
}

// Match selects a branch by the exact identity of the subject's selected
// option. Construct through NewMatch, which rejects options from a
// foreign option set.
type Match struct {
	Subject *OptionVar
	Cases   []MatchCase
}

func (*Match) exprNode() {}

// NewMatch builds a Match, verifying at construction time that every
// case option belongs to the subject's option set.
func NewMatch(subject *OptionVar, cases ...MatchCase) (*Match, error) {
	for _, c := range cases {
		if c.When.Set() != subject.Set() {
			return nil, &SelectTypeMismatchError{
				Subject: subject.Set().Name,
				Option:  c.When.Value,
				Foreign: c.When.Set().Name,
			}
		}
	}
	return &Match{Subject: subject, Cases: cases}, nil
}

// Vars returns the sorted set of variable names the expression
// transitively references.
func Vars(e Expr) []string {
	names := make(map[string]struct{})
	e.collectVars(names)
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (e *VarRef) collectVars(names map[string]struct{}) {
	names[e.Name] = struct{}{}
}

func (e *Const) collectVars(map[string]struct{}) {}

func (e *Binary) collectVars(names map[string]struct{}) {
	e.Left.collectVars(names)
	e.Right.collectVars(names)
}

func (e *Unary) collectVars(names map[string]struct{}) {
	e.Operand.collectVars(names)
}

func (e *Call) collectVars(names map[string]struct{}) {
	e.Operand.collectVars(names)
}

func (e *Conditional) collectVars(names map[string]struct{}) {
	e.Cond.collectVars(names)
	e.Then.collectVars(names)
	e.Else.collectVars(names)
}

func (e *RangeSelect) collectVars(names map[string]struct{}) {
	e.Subject.collectVars(names)
	for _, b := range e.Buckets {
		b.Bound.collectVars(names)
		b.Result.collectVars(names)
	}
	if e.Otherwise != nil {
		e.Otherwise.collectVars(names)
	}
}

func (e *Match) collectVars(names map[string]struct{}) {
	for _, c := range e.Cases {
		c.Result.collectVars(names)
	}
}
