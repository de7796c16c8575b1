package order

import "fmt"

// ImmutableStateError indicates a content mutation was attempted on an
// order whose status forbids edits.
type ImmutableStateError struct {
	Status Status
}

func (e *ImmutableStateError) Error() string {
	return fmt.Sprintf("order in status %s cannot be modified", e.Status)
}

// InvalidTransitionError indicates a status change not present in the
// transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}
