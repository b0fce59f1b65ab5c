package expr

import (
	"math"

	"github.com/quantral/quantral/pkg/quantity"
)

// ConditionEpsilon is the truth threshold for boolean-producing
// quantities: a condition holds when |value| exceeds it.
const ConditionEpsilon = 1e-9

// Bindings supplies values for variable references. Lookup reports false
// for absent names; an unknown (valueless) quantity is a valid lookup
// result and also evaluates as Unresolved.
type Bindings interface {
	Lookup(name string) (quantity.Quantity, bool)
}

// MapBindings is the simplest Bindings implementation.
type MapBindings map[string]quantity.Quantity

// Lookup implements Bindings.
func (m MapBindings) Lookup(name string) (quantity.Quantity, bool) {
	q, ok := m[name]
	return q, ok
}

// Result is the tri-state outcome of evaluation: a resolved quantity or
// the Unresolved marker. Errors travel separately.
type Result struct {
	Quantity quantity.Quantity
	Resolved bool
}

// Unresolved is the "cannot yet compute" marker result.
var Unresolved = Result{}

func resolved(q quantity.Quantity) Result {
	return Result{Quantity: q, Resolved: true}
}

// EvalOption configures an Evaluator.
type EvalOption func(*Evaluator)

// WithStrictRange makes a RangeSelect with no matching bucket and no
// otherwise branch an error instead of Unresolved.
func WithStrictRange() EvalOption {
	return func(ev *Evaluator) { ev.strictRange = true }
}

// Evaluator evaluates expressions against a fixed set of bindings,
// memoizing structurally equal subexpressions by content hash. Create a
// fresh Evaluator whenever the bindings change.
type Evaluator struct {
	bindings    Bindings
	strictRange bool
	memo        map[uint64]Result
}

// NewEvaluator creates an evaluator over the given bindings.
func NewEvaluator(b Bindings, opts ...EvalOption) *Evaluator {
	ev := &Evaluator{bindings: b, memo: make(map[uint64]Result)}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// Evaluate is a convenience wrapper for one-shot evaluation.
func Evaluate(e Expr, b Bindings) (Result, error) {
	return NewEvaluator(b).Eval(e)
}

// Eval evaluates a node.
func (ev *Evaluator) Eval(e Expr) (Result, error) {
	h := e.hash()
	if r, ok := ev.memo[h]; ok {
		return r, nil
	}
	r, err := ev.eval(e)
	if err != nil {
		return Result{}, err
	}
	ev.memo[h] = r
	return r, nil
}

func (ev *Evaluator) eval(e Expr) (Result, error) {
	switch n := e.(type) {
	case *VarRef:
		q, ok := ev.bindings.Lookup(n.Name)
		if !ok || !q.Known() {
			return Unresolved, nil
		}
		return resolved(q), nil

	case *Const:
		if !n.Value.Known() {
			return Unresolved, nil
		}
		return resolved(n.Value), nil

	case *Binary:
		return ev.evalBinary(n)

	case *Unary:
		r, err := ev.Eval(n.Operand)
		if err != nil || !r.Resolved {
			return r, err
		}
		if n.Op == OpSub {
			q, err := r.Quantity.Neg()
			if err != nil {
				return Result{}, err
			}
			return resolved(q), nil
		}
		return r, nil

	case *Call:
		return ev.evalCall(n)

	case *Conditional:
		cond, err := ev.Eval(n.Cond)
		if err != nil || !cond.Resolved {
			return cond, err
		}
		if truthy(cond.Quantity) {
			return ev.Eval(n.Then)
		}
		return ev.Eval(n.Else)

	case *RangeSelect:
		return ev.evalRangeSelect(n)

	case *Match:
		return ev.evalMatch(n)

	default:
		// The variant set is closed; a new node type must be wired here.
		panic("expr: unhandled node type")
	}
}

// truthy applies the condition threshold to a boolean-producing quantity.
func truthy(q quantity.Quantity) bool {
	return math.Abs(q.SI()) > ConditionEpsilon
}

func (ev *Evaluator) evalBinary(n *Binary) (Result, error) {
	left, err := ev.Eval(n.Left)
	if err != nil || !left.Resolved {
		return left, err
	}
	right, err := ev.Eval(n.Right)
	if err != nil || !right.Resolved {
		return right, err
	}
	l, r := left.Quantity, right.Quantity

	switch n.Op {
	case OpAdd:
		q, err := l.Add(r)
		return wrap(q, err)
	case OpSub:
		q, err := l.Sub(r)
		return wrap(q, err)
	case OpMul:
		q, err := l.Mul(r)
		return wrap(q, err)
	case OpDiv:
		q, err := l.Div(r)
		return wrap(q, err)

	case OpPow:
		k, err := intExponent(r)
		if err != nil {
			return Result{}, err
		}
		q, err := l.Pow(k)
		return wrap(q, err)

	case OpLt:
		b, err := l.Lt(r)
		return wrapBool(b, err)
	case OpGt:
		b, err := l.Gt(r)
		return wrapBool(b, err)
	case OpLeq:
		b, err := l.Leq(r)
		return wrapBool(b, err)
	case OpGeq:
		b, err := l.Geq(r)
		return wrapBool(b, err)
	case OpEq:
		b, err := l.Eq(r)
		return wrapBool(b, err)
	case OpNeq:
		b, err := l.Ne(r)
		return wrapBool(b, err)

	case OpAnd:
		return wrapBool(truthy(l) && truthy(r), nil)
	case OpOr:
		return wrapBool(truthy(l) || truthy(r), nil)

	default:
		panic("expr: unhandled binary operator " + string(n.Op))
	}
}

func wrap(q quantity.Quantity, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return resolved(q), nil
}

func wrapBool(b bool, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	v := 0.0
	if b {
		v = 1.0
	}
	return resolved(quantity.Dimensionless(v)), nil
}

// intExponent extracts a dimensionless integer exponent.
func intExponent(q quantity.Quantity) (int, error) {
	if !q.Dim().IsDimensionless() {
		return 0, &NonIntegerExponentError{Value: q.SI()}
	}
	v := q.SI()
	k := math.Round(v)
	if math.Abs(v-k) > 1e-9 {
		return 0, &NonIntegerExponentError{Value: v}
	}
	return int(k), nil
}

func (ev *Evaluator) evalRangeSelect(n *RangeSelect) (Result, error) {
	subject, err := ev.Eval(n.Subject)
	if err != nil || !subject.Resolved {
		return subject, err
	}

	for _, b := range n.Buckets {
		bound, err := ev.Eval(b.Bound)
		if err != nil || !bound.Resolved {
			return bound, err
		}
		hit, err := comparePredicate(subject.Quantity, b.Cmp, bound.Quantity)
		if err != nil {
			return Result{}, err
		}
		if hit {
			return ev.Eval(b.Result)
		}
	}

	if n.Otherwise != nil {
		return ev.Eval(n.Otherwise)
	}
	if ev.strictRange {
		return Result{}, &RangeNoMatchError{Subject: subject.Quantity.String()}
	}
	return Unresolved, nil
}

func comparePredicate(subject quantity.Quantity, cmp BinaryOp, bound quantity.Quantity) (bool, error) {
	switch cmp {
	case OpLt:
		return subject.Lt(bound)
	case OpGt:
		return subject.Gt(bound)
	case OpLeq:
		return subject.Leq(bound)
	case OpGeq:
		return subject.Geq(bound)
	case OpEq:
		return subject.Eq(bound)
	default:
		panic("expr: invalid range predicate " + string(cmp))
	}
}

func (ev *Evaluator) evalMatch(n *Match) (Result, error) {
	sel := n.Subject.Selected()
	if sel == nil {
		return Unresolved, nil
	}
	for _, c := range n.Cases {
		if c.When == sel {
			return ev.Eval(c.Result)
		}
	}
	// Selected option with no case: nothing to compute.
	return Unresolved, nil
}
