package domain

import "fmt"

// ValidationError means a required field is missing or malformed. The
// operation is rejected before any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError means a referenced id does not resolve. The operation
// is rejected before any mutation.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// FormatError means an imported snapshot is missing required top-level
// tables. Current state stays untouched.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}
