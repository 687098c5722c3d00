package propeller

import "fmt"

// ValidationError reports an input that cannot be computed on: a non-positive
// or non-finite quantity, or an unknown unit or pitch tag.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ComputationError reports a derived value that broke an invariant after the
// input passed validation.
type ComputationError struct {
	Stage  string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func broken(stage, format string, args ...any) error {
	return &ComputationError{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}
