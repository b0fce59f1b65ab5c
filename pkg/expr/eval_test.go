package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantral/quantral/pkg/quantity"
)

func q(t *testing.T, v float64, u string) quantity.Quantity {
	t.Helper()
	out, err := quantity.New(v, u)
	require.NoError(t, err)
	return out
}

func evalResolved(t *testing.T, e Expr, b Bindings) quantity.Quantity {
	t.Helper()
	r, err := Evaluate(e, b)
	require.NoError(t, err)
	require.True(t, r.Resolved, "expected resolved result")
	return r.Quantity
}

func TestEval_Arithmetic(t *testing.T) {
	// T = T_bar * (1 - U_m)
	e := &Binary{Op: OpMul,
		Left: &VarRef{Name: "T_bar"},
		Right: &Binary{Op: OpSub,
			Left:  Num(1),
			Right: &VarRef{Name: "U_m"},
		},
	}
	b := MapBindings{
		"T_bar": q(t, 0.147, "in"),
		"U_m":   quantity.Dimensionless(0.125),
	}

	got := evalResolved(t, e, b)
	asIn, err := got.To("in")
	require.NoError(t, err)
	assert.InDelta(t, 0.128625, asIn.Value(), 1e-9)
}

func TestEval_UnresolvedShortCircuit(t *testing.T) {
	e := &Binary{Op: OpAdd, Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "b"}}

	// Absent variable.
	r, err := Evaluate(e, MapBindings{"a": quantity.Dimensionless(1)})
	require.NoError(t, err)
	assert.False(t, r.Resolved, "missing input should be Unresolved, not an error")

	// Present but unknown variable.
	r, err = Evaluate(e, MapBindings{
		"a": quantity.Dimensionless(1),
		"b": quantity.Unknown("b"),
	})
	require.NoError(t, err)
	assert.False(t, r.Resolved)
}

func TestEval_Pow(t *testing.T) {
	e := &Binary{Op: OpPow, Left: &VarRef{Name: "d"}, Right: Num(2)}
	got := evalResolved(t, e, MapBindings{"d": q(t, 3, "m")})
	assert.InDelta(t, 9, got.SI(), 1e-12)

	bad := &Binary{Op: OpPow, Left: &VarRef{Name: "d"}, Right: Num(0.5)}
	_, err := Evaluate(bad, MapBindings{"d": q(t, 3, "m")})
	var nie *NonIntegerExponentError
	require.ErrorAs(t, err, &nie)
}

func TestEval_TranscendentalRequiresDimensionless(t *testing.T) {
	ok := evalResolved(t, &Call{Name: "sqrt", Operand: Num(9)}, MapBindings{})
	assert.InDelta(t, 3, ok.SI(), 1e-12)

	_, err := Evaluate(&Call{Name: "sin", Operand: &VarRef{Name: "L"}},
		MapBindings{"L": q(t, 1, "m")})
	var dm *quantity.DimensionMismatchError
	require.ErrorAs(t, err, &dm)

	// abs keeps the operand's dimension.
	got := evalResolved(t, &Call{Name: "abs", Operand: &VarRef{Name: "L"}},
		MapBindings{"L": q(t, -2, "m")})
	assert.InDelta(t, 2, got.SI(), 1e-12)
	assert.False(t, got.Dim().IsDimensionless())
}

func TestEval_UnknownFunction(t *testing.T) {
	_, err := Evaluate(&Call{Name: "frobnicate", Operand: Num(1)}, MapBindings{})
	var uf *UnknownFunctionError
	require.ErrorAs(t, err, &uf)
}

func TestEval_Conditional(t *testing.T) {
	e := &Conditional{
		Cond: &Binary{Op: OpGt, Left: &VarRef{Name: "x"}, Right: Num(0)},
		Then: Num(10),
		Else: &Call{Name: "frobnicate", Operand: Num(1)}, // must never evaluate
	}
	got := evalResolved(t, e, MapBindings{"x": quantity.Dimensionless(5)})
	assert.InDelta(t, 10, got.SI(), 1e-12, "taken branch only; untaken branch untouched")

	// Unresolved condition makes the whole node unresolved.
	r, err := Evaluate(e, MapBindings{})
	require.NoError(t, err)
	assert.False(t, r.Resolved)
}

func TestEval_RangeSelect(t *testing.T) {
	// Bucket bounds in mixed units: subject is normalized before comparison.
	e := &RangeSelect{
		Subject: &VarRef{Name: "span"},
		Buckets: []Bucket{
			{Cmp: OpLeq, Bound: &Const{Value: q(t, 100, "cm")}, Result: Num(1)},
			{Cmp: OpLeq, Bound: &Const{Value: q(t, 5, "m")}, Result: Num(2)},
		},
		Otherwise: Num(3),
	}

	cases := []struct {
		span float64
		want float64
	}{
		{0.5, 1},
		{1.0, 1}, // boundary belongs to the first bucket (declared order)
		{3.0, 2},
		{50, 3},
	}
	for _, tc := range cases {
		got := evalResolved(t, e, MapBindings{"span": q(t, tc.span, "m")})
		assert.InDelta(t, tc.want, got.SI(), 1e-12, "span=%v", tc.span)
	}
}

func TestEval_RangeSelect_NoMatch(t *testing.T) {
	e := &RangeSelect{
		Subject: &VarRef{Name: "x"},
		Buckets: []Bucket{
			{Cmp: OpLt, Bound: Num(1), Result: Num(1)},
		},
	}
	b := MapBindings{"x": quantity.Dimensionless(10)}

	r, err := Evaluate(e, b)
	require.NoError(t, err)
	assert.False(t, r.Resolved, "default policy: no match is Unresolved")

	_, err = NewEvaluator(b, WithStrictRange()).Eval(e)
	var rnm *RangeNoMatchError
	require.ErrorAs(t, err, &rnm)
}

func TestMatch(t *testing.T) {
	grades := NewOptionSet("grade", "A36", "A572")
	shape := NewOptionSet("shape", "W", "HSS")

	gv := NewOptionVar("steel_grade", grades)
	a36, _ := grades.Option("A36")
	a572, _ := grades.Option("A572")

	m, err := NewMatch(gv,
		MatchCase{When: a36, Result: &Const{Value: q(t, 36, "ksi")}},
		MatchCase{When: a572, Result: &Const{Value: q(t, 50, "ksi")}},
	)
	require.NoError(t, err)

	// Unselected subject is Unresolved.
	r, err := Evaluate(m, MapBindings{})
	require.NoError(t, err)
	assert.False(t, r.Resolved)

	require.NoError(t, gv.Select("A572"))
	got := evalResolved(t, m, MapBindings{})
	asKsi, err := got.To("ksi")
	require.NoError(t, err)
	assert.InDelta(t, 50, asKsi.Value(), 1e-9)

	// Foreign option set fails at construction, not evaluation.
	w, _ := shape.Option("W")
	_, err = NewMatch(gv, MatchCase{When: w, Result: Num(1)})
	var stm *SelectTypeMismatchError
	require.ErrorAs(t, err, &stm)
}

func TestVars(t *testing.T) {
	e := &Conditional{
		Cond: &Binary{Op: OpGt, Left: &VarRef{Name: "b"}, Right: Num(0)},
		Then: &Binary{Op: OpMul, Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "b"}},
		Else: &Call{Name: "abs", Operand: &VarRef{Name: "c"}},
	}
	assert.Equal(t, []string{"a", "b", "c"}, Vars(e))
}

func TestMemoization_StructurallyEqualSubexpressions(t *testing.T) {
	sub := &Binary{Op: OpMul, Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "a"}}
	same := &Binary{Op: OpMul, Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "a"}}
	e := &Binary{Op: OpAdd, Left: sub, Right: same}

	ev := NewEvaluator(MapBindings{"a": quantity.Dimensionless(3)})
	r, err := ev.Eval(e)
	require.NoError(t, err)
	require.True(t, r.Resolved)
	assert.InDelta(t, 18, r.Quantity.SI(), 1e-12)

	// Distinct pointers, same structure: one memo entry.
	assert.Equal(t, sub.hash(), same.hash())
}
