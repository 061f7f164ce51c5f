package payroll

import "paykey/internal/faults"

// Status is the pay period lifecycle state. The path is strictly forward:
// DRAFT -> ACTIVE -> PROCESSING -> COMPLETED -> CLOSED, where a batch run
// may close a PROCESSING period directly.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusActive     Status = "ACTIVE"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusClosed     Status = "CLOSED"
)

var transitions = map[Status][]Status{
	StatusDraft:      {StatusActive},
	StatusActive:     {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusClosed},
	StatusCompleted:  {StatusClosed},
	StatusClosed:     {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func transitionError(action string, current Status) *faults.StateError {
	return &faults.StateError{Transition: action, Current: string(current)}
}
