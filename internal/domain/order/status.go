package order

// Status represents the lifecycle state of a purchase order.
type Status string

const (
	// StatusActive is the initial state of every created order.
	StatusActive Status = "active"
	// StatusInProgress marks an order that is being fulfilled.
	StatusInProgress Status = "in_progress"
	// StatusCompleted is terminal; completed orders accept no further changes.
	StatusCompleted Status = "completed"
	// StatusCancelled freezes the order's content; it can only be reactivated.
	StatusCancelled Status = "cancelled"
	// StatusDeleted is the soft-delete state and is terminal.
	StatusDeleted Status = "deleted"
)

// transitions is the single source of truth for legal status changes.
// Completed and deleted have no outgoing edges; a cancelled order can
// only be reactivated.
var transitions = map[Status][]Status{
	StatusActive:     {StatusInProgress, StatusCancelled, StatusDeleted},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {StatusActive},
	StatusDeleted:    {},
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the state machine allows moving from s
// to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Mutable reports whether an order in this status accepts content edits.
// Completed and cancelled orders are frozen regardless of any status
// change requested in the same call.
func (s Status) Mutable() bool {
	return s != StatusCompleted && s != StatusCancelled
}
