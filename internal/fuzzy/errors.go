package fuzzy

import (
	"errors"
	"fmt"
)

// Domain errors for fuzzy set construction.
var (
	// ErrMalformedMembership indicates a membership function defined with
	// a breakpoint count other than 3 or 4.
	ErrMalformedMembership = errors.New("fuzzy: membership function requires 3 or 4 breakpoints")

	// ErrUnorderedBreakpoints indicates breakpoints that are not non-decreasing.
	ErrUnorderedBreakpoints = errors.New("fuzzy: membership breakpoints must be non-decreasing")

	// ErrIncompleteVariable indicates a linguistic variable with undefined terms.
	ErrIncompleteVariable = errors.New("fuzzy: linguistic variable is missing term definitions")

	// ErrUniverseBounds indicates an output universe with no width or too few samples.
	ErrUniverseBounds = errors.New("fuzzy: output universe bounds are invalid")
)

// DefinitionError wraps a construction error with the variable and term
// it occurred on.
type DefinitionError struct {
	Variable string
	Term     string
	Wrapped  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Variable, e.Term, e.Wrapped)
}

func (e *DefinitionError) Unwrap() error {
	return e.Wrapped
}
