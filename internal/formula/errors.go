package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches every *FormatError.
	ErrFormat = errors.New("invalid formula")

	// ErrUndefinedVariable is reported when the lookup cannot produce a
	// value for a variable.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrDivisionByZero is reported when a divisor evaluates to exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// FormatError is returned by New when the source is not a valid formula.
type FormatError struct {
	Token  string
	Offset int
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid formula: %s", e.Reason)
	}
	return fmt.Sprintf("invalid formula: %s %q at offset %d", e.Reason, e.Token, e.Offset)
}

// Is makes errors.Is(err, ErrFormat) match.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// EvalError is returned by Evaluate. Err is ErrUndefinedVariable or
// ErrDivisionByZero; Variable is set for the former.
type EvalError struct {
	Variable string
	Err      error
	Cause    error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Variable != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%v: %s: %v", e.Err, e.Variable, e.Cause)
		}
		return fmt.Sprintf("%v: %s", e.Err, e.Variable)
	}
	return e.Err.Error()
}

// Unwrap returns the error kind followed by the lookup failure, if any.
func (e *EvalError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}
