package expr

import "fmt"

// SelectTypeMismatchError is raised at Match construction when a case
// option belongs to a different option set than the subject.
type SelectTypeMismatchError struct {
	Subject string // subject's option set name
	Option  string // offending option value
	Foreign string // option's actual set name
}

func (e *SelectTypeMismatchError) Error() string {
	return fmt.Sprintf("match over option set %q has case %q from foreign set %q",
		e.Subject, e.Option, e.Foreign)
}

// RangeNoMatchError is raised in strict mode when a RangeSelect subject
// matches no bucket and no otherwise branch exists. Outside strict mode
// the same situation is Unresolved.
type RangeNoMatchError struct {
	Subject string
}

func (e *RangeNoMatchError) Error() string {
	return fmt.Sprintf("range select: subject %s matches no bucket and has no otherwise", e.Subject)
}

// UnknownFunctionError is raised when a Call names a function the
// evaluator does not provide.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// NonIntegerExponentError is raised when the right operand of ^ does not
// evaluate to a dimensionless integer.
type NonIntegerExponentError struct {
	Value float64
}

func (e *NonIntegerExponentError) Error() string {
	return fmt.Sprintf("exponent must be a dimensionless integer, got %v", e.Value)
}
