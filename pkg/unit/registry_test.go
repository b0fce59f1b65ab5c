package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantral/quantral/pkg/dimension"
)

func mustResolve(t *testing.T, spelling string) *Unit {
	t.Helper()
	u, err := Resolve(spelling)
	require.NoError(t, err, "Resolve(%q)", spelling)
	return u
}

func TestResolve_NamesSymbolsAliases(t *testing.T) {
	m := mustResolve(t, "m")
	assert.Same(t, m, mustResolve(t, "meter"))
	assert.Same(t, m, mustResolve(t, "metres"))
	assert.Same(t, m, mustResolve(t, "METER"), "names are case-insensitive")

	assert.Same(t, mustResolve(t, "lb"), mustResolve(t, "lbm"))
}

func TestResolve_SymbolsAreCaseSensitive(t *testing.T) {
	mm := mustResolve(t, "mm")
	Mm := mustResolve(t, "Mm")
	assert.NotSame(t, mm, Mm)
	assert.InDelta(t, 1e-3, mm.SIFactor, 1e-18)
	assert.InDelta(t, 1e6, Mm.SIFactor, 1e-6)
}

func TestResolve_PrefixLongestMatch(t *testing.T) {
	// "da" (deka) must win over "d" (deci) for "dam".
	dam := mustResolve(t, "dam")
	assert.Equal(t, "dekameter", dam.Name)
	assert.InDelta(t, 10, dam.SIFactor, 1e-12)

	ds := mustResolve(t, "ds")
	assert.Equal(t, "decisecond", ds.Name)
	assert.InDelta(t, 0.1, ds.SIFactor, 1e-12)
}

func TestResolve_PrefixedByName(t *testing.T) {
	km := mustResolve(t, "kilometer")
	assert.Equal(t, "km", km.Symbol)
	assert.InDelta(t, 1000, km.SIFactor, 1e-9)
	assert.Same(t, km, mustResolve(t, "km"), "symbol and name forms intern to one unit")

	kn := mustResolve(t, "kN")
	assert.Equal(t, DimForce, kn.Dim)
	assert.InDelta(t, 1000, kn.SIFactor, 1e-9)
}

func TestResolve_DirectSymbolBeatsPrefixSplit(t *testing.T) {
	// "kg", "min", and "d" are whole symbols, not prefix splits.
	assert.Equal(t, "kilogram", mustResolve(t, "kg").Name)
	assert.Equal(t, "minute", mustResolve(t, "min").Name)
	assert.Equal(t, "day", mustResolve(t, "d").Name)
}

func TestResolve_NonPrefixableBase(t *testing.T) {
	// Inch is not prefixable; "min" is the minute, and "kin" is nothing.
	_, err := Resolve("kin")
	var nf *UnitNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "kin", nf.Name)
}

func TestResolve_ComposedInterning(t *testing.T) {
	v1 := mustResolve(t, "m/s")
	v2 := mustResolve(t, "m/s")
	assert.Same(t, v1, v2, "identical spellings intern to one unit")

	m, s := mustResolve(t, "m"), mustResolve(t, "s")
	composed, err := Compose(m, s, OpDiv)
	require.NoError(t, err)
	assert.Same(t, v1, composed, "Resolve and Compose share the interned unit")
	assert.Equal(t, DimVelocity, v1.Dim)
}

func TestResolve_ComposedSpellings(t *testing.T) {
	tests := []struct {
		spelling string
		dim      *dimension.Dimension
		factor   float64
	}{
		{"kg*m/s2", DimForce, 1},
		{"ft/s2", dim(1, 0, -2, 0, 0, 0, 0), 0.3048},
		{"m/(s*s)", dim(1, 0, -2, 0, 0, 0, 0), 1},
		{"s-1", DimFreq, 1},
		{"s^-1", DimFreq, 1},
		{"ft^2", DimArea, 0.3048 * 0.3048},
		{"N*m", DimEnergy, 1},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			u := mustResolve(t, tt.spelling)
			assert.Equal(t, tt.dim, u.Dim)
			assert.InDelta(t, tt.factor, u.SIFactor, 1e-12)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ft/s²", "ft/s2"},
		{"µm", "um"},
		{"μs", "us"},
		{"N·m", "N*m"},
		{"kg × m", "kg*m"},
		{"m / s", "m/s"},
		{"s⁻¹", "s-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestResolve_NormalizedSpellingsIntern(t *testing.T) {
	// The superscript spelling and the ASCII spelling are one unit.
	assert.Same(t, mustResolve(t, "ft/s²"), mustResolve(t, "ft/s2"))
	assert.Same(t, mustResolve(t, "µm"), mustResolve(t, "um"))
}

func TestResolve_NotFound(t *testing.T) {
	for _, spelling := range []string{"bogons", "m/bogons", "", "m**s", "(m"} {
		_, err := Resolve(spelling)
		var nf *UnitNotFoundError
		assert.ErrorAs(t, err, &nf, "Resolve(%q)", spelling)
	}
}

func TestSIUnitFor(t *testing.T) {
	u, err := SIUnitFor(DimPressure)
	require.NoError(t, err)
	assert.Equal(t, "Pa", u.Symbol)

	// No unit is registered for luminosity squared.
	odd, err := dimension.FromExponents([7]int8{0, 0, 0, 0, 0, 0, 2})
	require.NoError(t, err)
	_, err = SIUnitFor(odd)
	var missing *NoUnitForDimensionError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, odd, missing.Dim)
}

func TestAffineUnits(t *testing.T) {
	c := mustResolve(t, "°C")
	assert.True(t, c.IsAffine())
	assert.InDelta(t, 273.15, c.ToSI(0), 1e-9)
	assert.InDelta(t, 100, c.FromSI(373.15), 1e-9)

	f := mustResolve(t, "degF")
	assert.InDelta(t, 273.15, f.ToSI(32), 1e-9)

	s := mustResolve(t, "s")
	_, err := Compose(c, s, OpMul)
	var affine *AffineComposeError
	require.ErrorAs(t, err, &affine)
	assert.Equal(t, "°C", affine.Symbol)
}

func TestRegistry_FinalizeFreezesBindings(t *testing.T) {
	r := NewRegistry()
	first := &Unit{Name: "span", Symbol: "sp", SIFactor: 0.2286, Dim: DimLength}
	require.NoError(t, r.Register(first))

	// Redefinition is allowed while bootstrapping.
	second := &Unit{Name: "span", Symbol: "sp", SIFactor: 0.23, Dim: DimLength}
	require.NoError(t, r.Register(second))
	got, err := r.Resolve("sp")
	require.NoError(t, err)
	assert.Same(t, second, got)

	r.Finalize()

	// Rebinding a frozen key fails and leaves the binding intact.
	err = r.Register(&Unit{Name: "impostor", Symbol: "sp", SIFactor: 1, Dim: DimTime})
	var dup *DuplicateUnitError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "sp", dup.Key)
	assert.Equal(t, "span", dup.Existing)
	assert.Equal(t, "impostor", dup.New)

	got, err = r.Resolve("sp")
	require.NoError(t, err)
	assert.Same(t, second, got)

	// Re-confirming the exact same unit is not a collision.
	assert.NoError(t, r.Register(second))

	// A colliding alias is caught too.
	err = r.Register(&Unit{Name: "rod", Symbol: "rd", Aliases: []string{"span"}, SIFactor: 5.0292, Dim: DimLength})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "span", dup.Key)
}

func TestRegistry_DerivedInterningSurvivesFinalize(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Unit{Name: "meter", Symbol: "m", SIFactor: 1, Dim: DimLength, prefixable: true}))
	require.NoError(t, r.Register(&Unit{Name: "second", Symbol: "s", SIFactor: 1, Dim: DimTime, prefixable: true}))
	r.Finalize()

	// Prefixed and composed units are built on demand after the freeze;
	// interning never rebinds a key.
	mm, err := r.Resolve("mm")
	require.NoError(t, err)
	assert.InDelta(t, 1e-3, mm.SIFactor, 1e-18)

	v, err := r.Resolve("m/s")
	require.NoError(t, err)
	v2, err := r.Resolve("m/s")
	require.NoError(t, err)
	assert.Same(t, v, v2)
}

func TestCanonicalSymbol(t *testing.T) {
	got, err := DefaultRegistry().CanonicalSymbol("N · m")
	require.NoError(t, err)
	assert.Equal(t, "N*m", got)

	got, err = DefaultRegistry().CanonicalSymbol("meter")
	require.NoError(t, err)
	assert.Equal(t, "m", got)
}
