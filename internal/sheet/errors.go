package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName matches every *InvalidNameError.
	ErrInvalidName = errors.New("invalid cell name")

	// ErrCircularDependency matches every *CircularDependencyError.
	ErrCircularDependency = errors.New("circular dependency")

	// ErrCellNotFound is returned by CellValue for a cell that holds nothing.
	ErrCellNotFound = errors.New("cell not found")

	// ErrNotNumeric is the lookup failure for a formula referencing a cell
	// whose value is text.
	ErrNotNumeric = errors.New("cell value is not a number")
)

// InvalidNameError reports a name rejected by the active NamePolicy.
type InvalidNameError struct {
	Name string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid cell name %q", e.Name)
}

// Is makes errors.Is(err, ErrInvalidName) match.
func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// CircularDependencyError reports a formula that would make Cell depend on
// itself. Path lists the loop, starting and ending with the same cell.
type CircularDependencyError struct {
	Cell string
	Path []string
	Err  error
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("circular dependency at %s", e.Cell)
	}
	return fmt.Sprintf("circular dependency at %s: %s", e.Cell, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrCircularDependency) match.
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// Unwrap returns the underlying graph cycle error.
func (e *CircularDependencyError) Unwrap() error {
	return e.Err
}
