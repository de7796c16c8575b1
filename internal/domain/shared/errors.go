// Package shared holds the error kinds common to all back office domains.
// Handlers inspect these types to choose a response status; everything
// else is treated as an internal fault, logged, and surfaced generically.
package shared

import "fmt"

// ValidationError indicates a malformed or out-of-range input field.
// Pos is the 1-based position of the offending list element, or 0 when
// the error is not position-scoped.
type ValidationError struct {
	Field string
	Pos   int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("line %d: %s %s", e.Pos, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

// NotFoundError indicates a referenced entity or record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError indicates a uniqueness violation, either detected up
// front by an application check or translated from a storage constraint
// at commit time. Detail carries the underlying constraint message when
// the storage layer produced one.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	return e.Detail
}
