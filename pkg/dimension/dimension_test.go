package dimension

import (
	"errors"
	"testing"
)

func TestBase_Interned(t *testing.T) {
	a := Base(Length)
	b := Base(Length)
	if a != b {
		t.Error("expected Base(Length) to return the same interned pointer")
	}
	if a == Base(Mass) {
		t.Error("expected distinct axes to intern to distinct dimensions")
	}
}

func TestMulDiv_GroupLaws(t *testing.T) {
	l := Base(Length)
	tm := Base(Time)

	v, err := l.Div(tm) // velocity L T^-1
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}

	// (a*b)/b == a
	prod, err := v.Mul(tm)
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if prod != l {
		t.Errorf("expected (v*t) == L, got %s", prod)
	}

	// a/a is dimensionless
	one, err := l.Div(l)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if !one.IsDimensionless() {
		t.Errorf("expected L/L dimensionless, got %s", one)
	}
	if one != Dimensionless {
		t.Error("expected dimensionless result to be the canonical Dimensionless")
	}
}

func TestPow(t *testing.T) {
	l := Base(Length)

	area, err := l.Pow(2)
	if err != nil {
		t.Fatalf("Pow failed: %v", err)
	}
	viaMul, _ := l.Mul(l)
	if area != viaMul {
		t.Error("expected L^2 == L*L")
	}

	inv, err := l.Pow(-1)
	if err != nil {
		t.Fatalf("Pow failed: %v", err)
	}
	back, _ := inv.Mul(l)
	if !back.IsDimensionless() {
		t.Errorf("expected L^-1 * L dimensionless, got %s", back)
	}
}

func TestPow_ZeroAlwaysDimensionless(t *testing.T) {
	dims := []*Dimension{Base(Length), Base(Mass), Dimensionless}
	force, _ := FromExponents([7]int8{1, 1, -2, 0, 0, 0, 0})
	dims = append(dims, force)

	for _, d := range dims {
		got, err := d.Pow(0)
		if err != nil {
			t.Fatalf("Pow(0) failed for %s: %v", d, err)
		}
		if got != Dimensionless {
			t.Errorf("expected %s^0 == Dimensionless, got %s", d, got)
		}
	}
}

func TestDiv_NegativeExponents(t *testing.T) {
	// a / b with b = T^-1 must yield a * T
	l := Base(Length)
	invTime, err := Base(Time).Pow(-1)
	if err != nil {
		t.Fatalf("Pow failed: %v", err)
	}

	got, err := l.Div(invTime)
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	want, _ := l.Mul(Base(Time))
	if got != want {
		t.Errorf("expected L / T^-1 == L*T, got %s", got)
	}
}

func TestExponentRange(t *testing.T) {
	l := Base(Length)
	if _, err := l.Pow(MaxExponent + 1); !errors.Is(err, ErrExponentRange) {
		t.Errorf("expected ErrExponentRange, got %v", err)
	}

	// Repeated squaring past the limit must fail, not overflow silently.
	d := l
	var err error
	for i := 0; i < 8 && err == nil; i++ {
		d, err = d.Mul(d)
		if err == nil && d == nil {
			t.Fatal("nil dimension without error")
		}
	}
	if !errors.Is(err, ErrExponentRange) {
		t.Errorf("expected ErrExponentRange from repeated composition, got %v", err)
	}
}

func TestEqualAndHash(t *testing.T) {
	a, _ := FromExponents([7]int8{1, 0, -2, 0, 0, 0, 0})
	b, _ := FromExponents([7]int8{1, 0, -2, 0, 0, 0, 0})

	if a != b {
		t.Error("expected equal exponent vectors to intern identically")
	}
	if !a.Equal(b) {
		t.Error("expected Equal to hold for interned duplicates")
	}
	if a.Hash() != b.Hash() {
		t.Error("expected equal dimensions to hash identically")
	}
	if a.Hash() == Base(Mass).Hash() {
		t.Error("expected distinct dimensions to hash differently")
	}
}

func TestString(t *testing.T) {
	if got := Dimensionless.String(); got != "1" {
		t.Errorf("expected dimensionless to render as 1, got %q", got)
	}
	accel, _ := FromExponents([7]int8{1, 0, -2, 0, 0, 0, 0})
	if got := accel.String(); got != "L T^-2" {
		t.Errorf("unexpected rendering: %q", got)
	}
}
