package unit

import (
	"fmt"

	"github.com/quantral/quantral/pkg/dimension"
)

// UnitNotFoundError is returned when a name, symbol, or alias does not
// resolve to any registered or derivable unit.
type UnitNotFoundError struct {
	Name string
}

func (e *UnitNotFoundError) Error() string {
	return fmt.Sprintf("unit %q not found", e.Name)
}

// DuplicateUnitError is returned when a registration after Finalize would
// rebind a symbol or alias already owned by a different unit.
type DuplicateUnitError struct {
	Key      string
	Existing string
	New      string
}

func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("unit key %q already registered to %q (attempted rebind to %q)",
		e.Key, e.Existing, e.New)
}

// NoUnitForDimensionError is returned when a preferred or SI unit lookup
// finds no unit registered for the dimension.
type NoUnitForDimensionError struct {
	Dim *dimension.Dimension
}

func (e *NoUnitForDimensionError) Error() string {
	return fmt.Sprintf("no unit registered for dimension %s", e.Dim)
}

// AffineComposeError is returned when a unit with a conversion offset
// (Celsius, Fahrenheit) is used in a composed unit, where affine
// conversion is not meaningful.
type AffineComposeError struct {
	Symbol string
}

func (e *AffineComposeError) Error() string {
	return fmt.Sprintf("affine unit %q cannot appear in a composed unit", e.Symbol)
}
