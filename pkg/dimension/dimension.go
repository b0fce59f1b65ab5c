// Package dimension implements dimensional algebra over the seven SI base
// quantities. Dimensions are interned: two dimensions with equal exponents
// are the same pointer, so they are safe, cheap map keys.
//
// Internally a dimension is encoded as a reduced prime-power fraction. Each
// base axis is assigned a distinct prime; positive exponents multiply into
// the numerator and negative exponents into the denominator. Composition is
// then integer multiplication plus a gcd reduction, and equality is a single
// pair comparison.
package dimension

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
	"sync"
)

// Axis identifies one of the seven SI base quantities.
type Axis int

// Base axes in conventional SI order.
const (
	Length Axis = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity

	numAxes
)

// axisSymbols are the conventional dimension symbols (ISQ notation).
var axisSymbols = [numAxes]string{"L", "M", "T", "I", "Th", "N", "J"}

// axisPrimes assigns a distinct prime to each axis for the fraction encoding.
var axisPrimes = [numAxes]uint64{2, 3, 5, 7, 11, 13, 17}

// MaxExponent bounds the magnitude of any single axis exponent. Deeply
// composed derived units beyond this would overflow the uint64 fraction
// encoding, so composition fails explicitly instead.
const MaxExponent = 12

// ErrExponentRange is returned when a composition would push an axis
// exponent beyond ±MaxExponent or overflow the fraction encoding.
var ErrExponentRange = errors.New("dimension: exponent out of range")

// Dimension is an immutable, interned exponent vector. The zero-exponent
// dimension is Dimensionless and is the multiplicative identity.
type Dimension struct {
	exps [numAxes]int8
	num  uint64
	den  uint64
}

var (
	internMu sync.RWMutex
	interned = make(map[[numAxes]int8]*Dimension)

	// Dimensionless is the unique all-zero dimension.
	Dimensionless = mustIntern([numAxes]int8{})
)

// intern returns the canonical *Dimension for an exponent vector,
// creating and caching it on first use.
func intern(exps [numAxes]int8) (*Dimension, error) {
	internMu.RLock()
	d, ok := interned[exps]
	internMu.RUnlock()
	if ok {
		return d, nil
	}

	num, den, err := encode(exps)
	if err != nil {
		return nil, err
	}

	internMu.Lock()
	defer internMu.Unlock()
	if d, ok := interned[exps]; ok {
		return d, nil
	}
	d = &Dimension{exps: exps, num: num, den: den}
	interned[exps] = d
	return d, nil
}

func mustIntern(exps [numAxes]int8) *Dimension {
	d, err := intern(exps)
	if err != nil {
		panic(err)
	}
	return d
}

// encode builds the reduced prime-power fraction for an exponent vector.
// The result is reduced by construction: an axis prime never appears in
// both numerator and denominator.
func encode(exps [numAxes]int8) (num, den uint64, err error) {
	num, den = 1, 1
	for i, e := range exps {
		if e > MaxExponent || e < -MaxExponent {
			return 0, 0, fmt.Errorf("%w: axis %s exponent %d exceeds ±%d",
				ErrExponentRange, axisSymbols[i], e, MaxExponent)
		}
		side := &num
		if e < 0 {
			side = &den
			e = -e
		}
		for ; e > 0; e-- {
			hi, lo := bits.Mul64(*side, axisPrimes[i])
			if hi != 0 {
				return 0, 0, fmt.Errorf("%w: encoding overflow", ErrExponentRange)
			}
			*side = lo
		}
	}
	return num, den, nil
}

// FromExponents returns the interned dimension for the given exponent
// vector in axis order (length, mass, time, current, temperature, amount,
// luminosity).
func FromExponents(exps [7]int8) (*Dimension, error) {
	return intern(exps)
}

// Base returns the dimension with a single unit exponent on the given axis.
func Base(a Axis) *Dimension {
	var exps [numAxes]int8
	exps[a] = 1
	return mustIntern(exps)
}

// Exponents returns a copy of the exponent vector.
func (d *Dimension) Exponents() [7]int8 { return d.exps }

// IsDimensionless reports whether all exponents are zero.
func (d *Dimension) IsDimensionless() bool { return d == Dimensionless }

// Hash returns a stable hash of the reduced fraction, identical exactly
// when the dimensions are equal.
func (d *Dimension) Hash() uint64 {
	return d.num*2654435761 ^ d.den
}

// Equal reports whether two dimensions have equal exponent vectors.
// Interning makes this a pointer comparison; the fraction comparison is
// kept as a fallback for dimensions of separate construction.
func (d *Dimension) Equal(o *Dimension) bool {
	if d == o {
		return true
	}
	return d.num == o.num && d.den == o.den
}

// Mul returns the product dimension (exponents added pairwise).
func (d *Dimension) Mul(o *Dimension) (*Dimension, error) {
	var exps [numAxes]int8
	for i := range exps {
		exps[i] = d.exps[i] + o.exps[i]
	}
	return intern(exps)
}

// Div returns the quotient dimension, treating a/b as a*b^-1 so negative
// exponents on the divisor invert correctly.
func (d *Dimension) Div(o *Dimension) (*Dimension, error) {
	var exps [numAxes]int8
	for i := range exps {
		exps[i] = d.exps[i] - o.exps[i]
	}
	return intern(exps)
}

// Pow returns the dimension raised to an integer power. Pow(0) is always
// Dimensionless, regardless of the receiver.
func (d *Dimension) Pow(k int) (*Dimension, error) {
	if k == 0 {
		return Dimensionless, nil
	}
	var exps [numAxes]int8
	for i := range exps {
		e := int(d.exps[i]) * k
		if e > MaxExponent || e < -MaxExponent {
			return nil, fmt.Errorf("%w: axis %s exponent %d exceeds ±%d",
				ErrExponentRange, axisSymbols[i], e, MaxExponent)
		}
		exps[i] = int8(e)
	}
	return intern(exps)
}

// String renders the dimension in ISQ-style notation, e.g. "L T^-2".
// Dimensionless renders as "1".
func (d *Dimension) String() string {
	if d.IsDimensionless() {
		return "1"
	}
	var parts []string
	for i, e := range d.exps {
		switch {
		case e == 0:
		case e == 1:
			parts = append(parts, axisSymbols[i])
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", axisSymbols[i], e))
		}
	}
	return strings.Join(parts, " ")
}
