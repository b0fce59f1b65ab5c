// Package unit provides the unit registry: canonical units and aliases,
// SI prefix application, on-demand composed units interned by canonical
// symbol, and preferred/SI display unit bookkeeping per dimension.
//
// The registry is process-wide mutable state populated during start-up.
// Registration is allowed (including redefinition) until Finalize is
// called; afterwards colliding registrations fail and lookups are
// effectively read-only. The builtin catalog registers itself from init.
package unit

import (
	"fmt"

	"github.com/quantral/quantral/pkg/dimension"
)

// Unit describes a named measurement unit tied to a dimension.
// SIFactor and SIOffset define the affine map to the coherent SI value:
// si = value*SIFactor + SIOffset. Units are immutable once registered.
type Unit struct {
	Name    string   // canonical name, e.g. "meter"
	Symbol  string   // canonical symbol, e.g. "m"
	Aliases []string // additional lookup keys, e.g. "metre", "meters"

	SIFactor float64
	SIOffset float64

	Dim *dimension.Dimension

	// prefixable marks units that accept SI prefixes (meter → millimeter).
	prefixable bool

	// derived marks composed or prefixed units built on demand; these are
	// interned by symbol but never own a dimension's preferred slot.
	derived bool
}

// ToSI converts a value expressed in this unit to the coherent SI value.
func (u *Unit) ToSI(v float64) float64 {
	return v*u.SIFactor + u.SIOffset
}

// FromSI converts a coherent SI value into this unit.
func (u *Unit) FromSI(v float64) float64 {
	return (v - u.SIOffset) / u.SIFactor
}

// IsAffine reports whether the unit has a non-zero conversion offset.
func (u *Unit) IsAffine() bool { return u.SIOffset != 0 }

func (u *Unit) String() string { return u.Symbol }

// ComposeOp selects the combining operation for Compose.
type ComposeOp byte

// Compose operations.
const (
	OpMul ComposeOp = '*'
	OpDiv ComposeOp = '/'
)

// composedSymbol builds the canonical symbol for a composition. The right
// side of a division is parenthesized when it is itself composed, so
// "m/s" composed with "s" divides to "m/(s*s)" rather than an ambiguous
// flat spelling.
func composedSymbol(a, b *Unit, op ComposeOp) string {
	rs := b.Symbol
	if op == OpDiv && b.derived {
		rs = "(" + rs + ")"
	}
	return fmt.Sprintf("%s%c%s", a.Symbol, op, rs)
}

// powSymbol builds the canonical symbol for an integer power, e.g. "s2"
// or "s-1". Exponent 1 is the unit itself.
func powSymbol(u *Unit, k int) string {
	s := u.Symbol
	if u.derived {
		s = "(" + s + ")"
	}
	return fmt.Sprintf("%s%d", s, k)
}
