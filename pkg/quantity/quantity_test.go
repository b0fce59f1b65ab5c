package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantral/quantral/pkg/unit"
)

func mustQ(t *testing.T, v float64, u string) Quantity {
	t.Helper()
	q, err := New(v, u)
	require.NoError(t, err, "New(%v, %q)", v, u)
	return q
}

func TestNew_NormalizesToSI(t *testing.T) {
	q := mustQ(t, 100, "centimeter")
	assert.InDelta(t, 1.0, q.SI(), 1e-12, "100 cm should normalize to 1 m")
	assert.InDelta(t, 100.0, q.Value(), 1e-12, "display value should stay in cm")
}

func TestEq_AcrossUnits(t *testing.T) {
	m := mustQ(t, 1, "meter")
	cm := mustQ(t, 100, "centimeter")

	eq, err := m.Eq(cm)
	require.NoError(t, err)
	assert.True(t, eq, "1 m should equal 100 cm")

	lt, err := mustQ(t, 100, "meter").Lt(mustQ(t, 1, "kilometer"))
	require.NoError(t, err)
	assert.True(t, lt, "100 m should be less than 1 km")
}

func TestConversion_RoundTrip(t *testing.T) {
	q := mustQ(t, 12.7, "in")

	r, err := q.To("mm")
	require.NoError(t, err)
	r, err = r.To("ft")
	require.NoError(t, err)
	r, err = r.To("in")
	require.NoError(t, err)

	assert.InEpsilon(t, q.Value(), r.Value(), 1e-9, "round trip should preserve value")
	assert.Equal(t, q.Unit(), r.Unit(), "round trip should restore the unit")
}

func TestAddSub(t *testing.T) {
	a := mustQ(t, 1, "ft")
	b := mustQ(t, 6, "in")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, sum.Value(), 1e-12, "1 ft + 6 in = 1.5 ft")
	assert.Equal(t, "ft", sum.Unit().Symbol, "sum keeps left operand's unit")

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, diff.Value(), 1e-12)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	a := mustQ(t, 1, "m")
	b := mustQ(t, 1, "s")

	_, err := a.Add(b)
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, "add", dm.Op)
}

func TestMul_DimensionCacheIdentity(t *testing.T) {
	d1 := mustQ(t, 2, "m")
	t1 := mustQ(t, 3, "s")
	d2 := mustQ(t, 40, "ft")
	t2 := mustQ(t, 7, "hr")

	a, err := d1.Div(t1)
	require.NoError(t, err)
	b, err := d2.Div(t2)
	require.NoError(t, err)

	assert.Same(t, a.Dim(), b.Dim(), "same dimension pair must reuse the cached result dimension")
	assert.Same(t, a.Unit(), b.Unit(), "cached default display unit must be shared")
	assert.Equal(t, "m/s", a.Unit().Symbol)
}

func TestMulDiv_Values(t *testing.T) {
	f := mustQ(t, 10, "N")
	d := mustQ(t, 2, "m")

	w, err := f.Mul(d)
	require.NoError(t, err)
	assert.InDelta(t, 20, w.SI(), 1e-12)
	assert.Equal(t, "J", w.Unit().Symbol, "N*m should display as the SI energy unit")

	back, err := w.Div(d)
	require.NoError(t, err)
	assert.True(t, back.Dim().Equal(f.Dim()))
}

func TestMulDiv_DimensionlessResultRendersBare(t *testing.T) {
	prod, err := Dimensionless(5).Mul(Dimensionless(2))
	require.NoError(t, err)
	assert.Nil(t, prod.Unit())
	assert.Equal(t, "10", prod.String())

	// A ratio of like dimensions is a plain number too.
	ratio, err := mustQ(t, 3, "m").Div(mustQ(t, 2, "m"))
	require.NoError(t, err)
	assert.Nil(t, ratio.Unit())
	assert.Equal(t, "1.5", ratio.String())
}

func TestPow(t *testing.T) {
	side := mustQ(t, 2, "m")

	area, err := side.Pow(2)
	require.NoError(t, err)
	assert.InDelta(t, 4, area.SI(), 1e-12)
	assert.Equal(t, unit.DimArea, area.Dim())

	inv, err := side.Pow(-1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, inv.SI(), 1e-12)

	one, err := side.Pow(0)
	require.NoError(t, err)
	assert.True(t, one.Dim().IsDimensionless())
	assert.Nil(t, one.Unit())
	assert.Equal(t, "1", one.String())
}

func TestComparison_Trichotomy(t *testing.T) {
	pairs := [][2]Quantity{
		{mustQ(t, 1, "m"), mustQ(t, 2, "m")},
		{mustQ(t, 1, "m"), mustQ(t, 100, "cm")},
		{mustQ(t, 3, "ft"), mustQ(t, 2, "ft")},
	}
	for _, p := range pairs {
		lt, err := p[0].Lt(p[1])
		require.NoError(t, err)
		gt, err := p[0].Gt(p[1])
		require.NoError(t, err)
		eq, err := p[0].Eq(p[1])
		require.NoError(t, err)

		n := 0
		for _, b := range []bool{lt, gt, eq} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "exactly one of <, ==, > must hold for %s vs %s", p[0], p[1])
	}
}

func TestComparison_Unknown(t *testing.T) {
	u := Unknown("x")
	k := mustQ(t, 1, "m")

	_, err := u.Lt(k)
	var uc *UnknownComparisonError
	require.ErrorAs(t, err, &uc)

	eq, err := u.Eq(k)
	require.NoError(t, err)
	assert.False(t, eq, "Eq with unknown operand is false, not an error")

	ne, err := u.Ne(k)
	require.NoError(t, err)
	assert.True(t, ne, "Ne with unknown operand is true, not an error")
}

func TestArithmetic_UnknownOperand(t *testing.T) {
	u := Unknown("x")
	k := mustQ(t, 1, "m")

	_, err := k.Add(u)
	assert.ErrorIs(t, err, ErrUnknownOperand)
	_, err = u.Mul(k)
	assert.ErrorIs(t, err, ErrUnknownOperand)
}

func TestAs_RetagsWithoutConversion(t *testing.T) {
	q := mustQ(t, 5, "m")

	r, err := q.As("ft")
	require.NoError(t, err)
	assert.InDelta(t, 5, r.Value(), 1e-12, "As keeps the displayed number")
	assert.Equal(t, "ft", r.Unit().Symbol)
	assert.InDelta(t, 5*0.3048, r.SI(), 1e-12)

	_, err = q.As("s")
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
}

func TestAffineTemperature(t *testing.T) {
	c := mustQ(t, 100, "°C")
	assert.InDelta(t, 373.15, c.SI(), 1e-9, "100 °C is 373.15 K")

	f, err := c.To("degF")
	require.NoError(t, err)
	assert.InDelta(t, 212, f.Value(), 1e-9, "100 °C is 212 °F")
}

func TestString(t *testing.T) {
	assert.Equal(t, "x = ?", Unknown("x").String())
	assert.Equal(t, "0.84 in", mustQ(t, 0.84, "in").String())
	assert.Equal(t, "2.5", Dimensionless(2.5).String())
}
