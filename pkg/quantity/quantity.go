// Package quantity provides the immutable physical-quantity value type:
// an SI-normalized number carrying a dimension and a preferred display
// unit, with dimension-checked arithmetic, unit conversion, and tolerant
// comparison. Unknown quantities carry a name but no numeric value; they
// are placeholders the problem solver fills in.
package quantity

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quantral/quantral/pkg/dimension"
	"github.com/quantral/quantral/pkg/unit"
)

// Comparison tolerances: values compare equal when their SI difference is
// within absTol plus relTol of the larger magnitude.
const (
	absTol = 1e-10
	relTol = 1e-9
)

// Quantity is a value object; operations return new instances.
type Quantity struct {
	si    float64
	dim   *dimension.Dimension
	unit  *unit.Unit // preferred display unit, may be nil for derived results
	known bool
	name  string // set for unknowns
}

// New creates a known quantity from a value and a unit spelling
// ("in", "ft/s²", "kPa"). The value is normalized to SI on construction.
func New(value float64, spelling string) (Quantity, error) {
	u, err := unit.Resolve(spelling)
	if err != nil {
		return Quantity{}, err
	}
	return FromUnit(value, u), nil
}

// FromUnit creates a known quantity from a value and a resolved unit.
func FromUnit(value float64, u *unit.Unit) Quantity {
	return Quantity{si: u.ToSI(value), dim: u.Dim, unit: u, known: true}
}

// Dimensionless creates a known, dimensionless quantity.
func Dimensionless(value float64) Quantity {
	return Quantity{si: value, dim: dimension.Dimensionless, known: true}
}

// Unknown creates an unknown placeholder with a name for diagnostics.
func Unknown(name string) Quantity {
	return Quantity{name: name}
}

// fromSI builds a known quantity directly from an SI value.
func fromSI(si float64, dim *dimension.Dimension, display *unit.Unit) Quantity {
	return Quantity{si: si, dim: dim, unit: display, known: true}
}

// FromSIValue builds a known quantity from an already SI-normalized value,
// a dimension, and an optional display unit. Callers are the expression
// evaluator and renderers; ordinary construction goes through New.
func FromSIValue(si float64, dim *dimension.Dimension, display *unit.Unit) Quantity {
	return fromSI(si, dim, display)
}

// Known reports whether the quantity carries a numeric value.
func (q Quantity) Known() bool { return q.known }

// Name returns the placeholder name of an unknown quantity.
func (q Quantity) Name() string { return q.name }

// SI returns the SI-normalized value. Zero for unknowns.
func (q Quantity) SI() float64 { return q.si }

// Dim returns the dimension; nil for unknowns.
func (q Quantity) Dim() *dimension.Dimension { return q.dim }

// Unit returns the preferred display unit, which may be nil.
func (q Quantity) Unit() *unit.Unit { return q.unit }

// Value returns the numeric value expressed in the preferred display unit,
// or the SI value when no display unit is set.
func (q Quantity) Value() float64 {
	if q.unit == nil {
		return q.si
	}
	return q.unit.FromSI(q.si)
}

// Add returns q + o. Operands must be known and share a dimension; the
// result keeps the left operand's preferred unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if !q.known || !o.known {
		return Quantity{}, ErrUnknownOperand
	}
	if !q.dim.Equal(o.dim) {
		return Quantity{}, &DimensionMismatchError{Op: "add", Left: q.dim, Right: o.dim}
	}
	return fromSI(q.si+o.si, q.dim, q.unit), nil
}

// Sub returns q - o under the same contract as Add.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if !q.known || !o.known {
		return Quantity{}, ErrUnknownOperand
	}
	if !q.dim.Equal(o.dim) {
		return Quantity{}, &DimensionMismatchError{Op: "sub", Left: q.dim, Right: o.dim}
	}
	return fromSI(q.si-o.si, q.dim, q.unit), nil
}

// Mul returns q * o. The resulting dimension and default display unit come
// from the process-wide dimension-pair cache, so repeated same-shaped
// multiplications skip dimension recomputation.
func (q Quantity) Mul(o Quantity) (Quantity, error) {
	if !q.known || !o.known {
		return Quantity{}, ErrUnknownOperand
	}
	ent, err := combineDims(q.dim, o.dim, opMul)
	if err != nil {
		return Quantity{}, err
	}
	return fromSI(q.si*o.si, ent.dim, ent.display), nil
}

// Div returns q / o.
func (q Quantity) Div(o Quantity) (Quantity, error) {
	if !q.known || !o.known {
		return Quantity{}, ErrUnknownOperand
	}
	ent, err := combineDims(q.dim, o.dim, opDiv)
	if err != nil {
		return Quantity{}, err
	}
	return fromSI(q.si/o.si, ent.dim, ent.display), nil
}

// Pow returns q raised to an integer power. Rational powers are out of
// scope; use Call("sqrt") on dimensionless quantities instead.
func (q Quantity) Pow(k int) (Quantity, error) {
	if !q.known {
		return Quantity{}, ErrUnknownOperand
	}
	d, err := q.dim.Pow(k)
	if err != nil {
		return Quantity{}, err
	}
	var display *unit.Unit
	if q.unit != nil && !d.IsDimensionless() {
		if pu, err := unit.Pow(q.unit, k); err == nil {
			display = pu
		}
	}
	return fromSI(math.Pow(q.si, float64(k)), d, display), nil
}

// Neg returns the negated quantity.
func (q Quantity) Neg() (Quantity, error) {
	if !q.known {
		return Quantity{}, ErrUnknownOperand
	}
	return fromSI(-q.si, q.dim, q.unit), nil
}

// To converts the quantity into the given unit spelling, adjusting the
// numeric value and tagging the result with that unit.
func (q Quantity) To(spelling string) (Quantity, error) {
	u, err := unit.Resolve(spelling)
	if err != nil {
		return Quantity{}, err
	}
	return q.ToUnit(u)
}

// ToUnit converts the quantity into the given unit.
func (q Quantity) ToUnit(u *unit.Unit) (Quantity, error) {
	if !q.known {
		return Quantity{}, ErrUnknownOperand
	}
	if !q.dim.Equal(u.Dim) {
		return Quantity{}, &DimensionMismatchError{Op: "to", Left: q.dim, Right: u.Dim}
	}
	return fromSI(q.si, q.dim, u), nil
}

// As re-tags the quantity with a different unit of the same dimension
// without converting the displayed value: 5 in a meter-tagged quantity
// becomes 5 in a foot-tagged one. Cross-dimension re-tagging fails with
// DimensionMismatchError. Use To for value-preserving conversion.
func (q Quantity) As(spelling string) (Quantity, error) {
	u, err := unit.Resolve(spelling)
	if err != nil {
		return Quantity{}, err
	}
	if !q.known {
		return Quantity{}, ErrUnknownOperand
	}
	if !q.dim.Equal(u.Dim) {
		return Quantity{}, &DimensionMismatchError{Op: "as", Left: q.dim, Right: u.Dim}
	}
	return FromUnit(q.Value(), u), nil
}

// almostEqual compares SI values under the package tolerance.
func almostEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= absTol {
		return true
	}
	return diff <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func (q Quantity) compare(o Quantity, op string) (int, error) {
	if !q.known || !o.known {
		return 0, &UnknownComparisonError{Op: op}
	}
	if !q.dim.Equal(o.dim) {
		return 0, &DimensionMismatchError{Op: op, Left: q.dim, Right: o.dim}
	}
	if almostEqual(q.si, o.si) {
		return 0, nil
	}
	if q.si < o.si {
		return -1, nil
	}
	return 1, nil
}

// Lt reports q < o. Both operands must be known and share a dimension.
func (q Quantity) Lt(o Quantity) (bool, error) {
	c, err := q.compare(o, "lt")
	return c < 0, err
}

// Gt reports q > o.
func (q Quantity) Gt(o Quantity) (bool, error) {
	c, err := q.compare(o, "gt")
	return c > 0, err
}

// Leq reports q <= o.
func (q Quantity) Leq(o Quantity) (bool, error) {
	c, err := q.compare(o, "leq")
	return c <= 0, err
}

// Geq reports q >= o.
func (q Quantity) Geq(o Quantity) (bool, error) {
	c, err := q.compare(o, "geq")
	return c >= 0, err
}

// Eq reports tolerant equality. Unknown operands compare unequal rather
// than erroring. Dimension mismatch is still an error: the core never
// treats incomparable quantities as silently unequal.
func (q Quantity) Eq(o Quantity) (bool, error) {
	if !q.known || !o.known {
		return false, nil
	}
	if !q.dim.Equal(o.dim) {
		return false, &DimensionMismatchError{Op: "eq", Left: q.dim, Right: o.dim}
	}
	return almostEqual(q.si, o.si), nil
}

// Ne is the negation of Eq; unknown operands compare not-equal.
func (q Quantity) Ne(o Quantity) (bool, error) {
	if !q.known || !o.known {
		return true, nil
	}
	eq, err := q.Eq(o)
	return !eq, err
}

// String renders the quantity in its preferred unit, e.g. "0.84 in".
// Unknowns render as "name = ?".
func (q Quantity) String() string {
	if !q.known {
		if q.name != "" {
			return q.name + " = ?"
		}
		return "?"
	}
	v := strconv.FormatFloat(q.Value(), 'g', 10, 64)
	switch {
	case q.unit != nil:
		return fmt.Sprintf("%s %s", v, q.unit.Symbol)
	case q.dim.IsDimensionless():
		return v
	default:
		return fmt.Sprintf("%s [%s]", v, q.dim)
	}
}
