package quantity

import (
	"errors"
	"fmt"

	"github.com/quantral/quantral/pkg/dimension"
)

// ErrUnknownOperand indicates arithmetic attempted on an unknown quantity.
// Expression evaluation normally short-circuits before this can happen;
// direct API callers see it when they skip the known check.
var ErrUnknownOperand = errors.New("quantity: arithmetic on unknown quantity")

// DimensionMismatchError is returned when an operation requires equal (or
// otherwise compatible) dimensions and the operands disagree.
type DimensionMismatchError struct {
	Op    string
	Left  *dimension.Dimension
	Right *dimension.Dimension
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch in %s: %s vs %s", e.Op, e.Left, e.Right)
}

// UnknownComparisonError is returned by ordering comparisons when either
// operand is unknown. Eq and Ne do not produce it; they report false and
// true instead, matching ordinary equality semantics.
type UnknownComparisonError struct {
	Op string
}

func (e *UnknownComparisonError) Error() string {
	return fmt.Sprintf("cannot compare with %s: operand is unknown", e.Op)
}
