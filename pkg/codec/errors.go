package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// errors
var (
	ErrArity        = errors.New("arity mismatch")
	ErrMissingField = errors.New("missing field")
	ErrArgumentType = errors.New("invalid argument type")
)

// ArityError - supplied arguments do not match the declared parameters
type ArityError struct {
	Function string
	Expected int
	Got      int
	msg      string
	keyed    bool
}

func newArityError(function string, expected, got int, format string, args ...any) *ArityError {
	return &ArityError{
		Function: function,
		Expected: expected,
		Got:      got,
		msg:      fmt.Sprintf(format, args...),
	}
}

// Error -
func (e *ArityError) Error() string {
	return e.msg
}

// Is - field count mismatches of keyed calls also match ErrMissingField
func (e *ArityError) Is(target error) bool {
	return target == ErrArity || (e.keyed && target == ErrMissingField)
}

// MissingFieldError - keyed argument object lacks a declared parameter
type MissingFieldError struct {
	Function string
	Field    string
}

// Error -
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("function %s expected key %s in parameter object", e.Function, e.Field)
}

// Is -
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ArgumentTypeError - value is not of any accepted representation
type ArgumentTypeError struct {
	Name     string
	Expected string
	Value    any
}

// Error -
func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("expected %s for '%s' argument, but got '%v'", e.Expected, e.Name, e.Value)
}

// Is -
func (e *ArgumentTypeError) Is(target error) bool {
	return target == ErrArgumentType
}
