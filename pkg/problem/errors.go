package problem

import (
	"fmt"
	"strings"
)

// DuplicateVariableError is returned when a symbol is defined twice in
// one problem (including collisions introduced by attaching a child
// under a prefix).
type DuplicateVariableError struct {
	Symbol string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("variable %q already defined", e.Symbol)
}

// UnknownTargetError is returned at solve time when an equation targets
// a symbol absent from the variable table.
type UnknownTargetError struct {
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("equation target %q not in variable table", e.Target)
}

// UnknownVariableError is returned when a proxy or lookup names a symbol
// the problem does not define.
type UnknownVariableError struct {
	Symbol string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("variable %q not found", e.Symbol)
}

// EquationError wraps an evaluation failure with its equation context.
type EquationError struct {
	Target string
	Err    error
}

func (e *EquationError) Error() string {
	return fmt.Sprintf("equation for %q: %v", e.Target, e.Err)
}

func (e *EquationError) Unwrap() error { return e.Err }

// Blocked describes one variable the solver could not determine and why.
type Blocked struct {
	// Symbol is the undetermined variable.
	Symbol string

	// MissingInputs lists the root unknowns that block every equation
	// targeting Symbol. Empty when no equation targets it at all.
	MissingInputs []string

	// NoEquation is set when nothing targets the variable.
	NoEquation bool
}

func (b Blocked) String() string {
	if b.NoEquation {
		return fmt.Sprintf("%s (no equation targets it)", b.Symbol)
	}
	return fmt.Sprintf("%s (blocked by %s)", b.Symbol, strings.Join(b.MissingInputs, ", "))
}

// UnsolvableError is returned after relaxation terminates with variables
// still unknown. It reports each blocked variable with the root unknowns
// that starve its equations, for diagnosability.
type UnsolvableError struct {
	Blocked    []Blocked
	Iterations int
}

func (e *UnsolvableError) Error() string {
	parts := make([]string, len(e.Blocked))
	for i, b := range e.Blocked {
		parts[i] = b.String()
	}
	return fmt.Sprintf("unsolvable system after %d iterations: %s",
		e.Iterations, strings.Join(parts, "; "))
}
