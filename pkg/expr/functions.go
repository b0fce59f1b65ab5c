package expr

import (
	"math"

	"github.com/quantral/quantral/pkg/dimension"
	"github.com/quantral/quantral/pkg/quantity"
)

// function describes a unary numeric function. Transcendentals operate on
// SI values and require dimensionless operands; abs keeps its operand's
// dimension and display unit.
type function struct {
	fn       func(float64) float64
	keepsDim bool
}

var functions = map[string]function{
	"sin":   {fn: math.Sin},
	"cos":   {fn: math.Cos},
	"tan":   {fn: math.Tan},
	"asin":  {fn: math.Asin},
	"acos":  {fn: math.Acos},
	"atan":  {fn: math.Atan},
	"sinh":  {fn: math.Sinh},
	"cosh":  {fn: math.Cosh},
	"tanh":  {fn: math.Tanh},
	"exp":   {fn: math.Exp},
	"log":   {fn: math.Log},
	"ln":    {fn: math.Log},
	"log10": {fn: math.Log10},
	"log2":  {fn: math.Log2},
	"sqrt":  {fn: math.Sqrt},
	"ceil":  {fn: math.Ceil},
	"floor": {fn: math.Floor},
	"round": {fn: math.Round},
	"abs":   {fn: math.Abs, keepsDim: true},
	"sign": {fn: func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	}},
}

func (ev *Evaluator) evalCall(n *Call) (Result, error) {
	f, ok := functions[n.Name]
	if !ok {
		return Result{}, &UnknownFunctionError{Name: n.Name}
	}

	operand, err := ev.Eval(n.Operand)
	if err != nil || !operand.Resolved {
		return operand, err
	}
	q := operand.Quantity

	if f.keepsDim {
		return resolved(quantity.FromSIValue(f.fn(q.SI()), q.Dim(), q.Unit())), nil
	}
	if !q.Dim().IsDimensionless() {
		return Result{}, &quantity.DimensionMismatchError{
			Op:   n.Name,
			Left: q.Dim(),
			// Transcendentals are defined on dimensionless operands only.
			Right: dimension.Dimensionless,
		}
	}
	return resolved(quantity.Dimensionless(f.fn(q.SI()))), nil
}
