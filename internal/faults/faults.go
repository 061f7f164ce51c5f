// Package faults holds the error types shared across the payroll domains.
// Sentinel not-found errors stay in their own packages; these are the typed
// errors that carry data and are matched with errors.As at the HTTP layer.
package faults

import "fmt"

// ValidationError rejects malformed input before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an illegal pay period lifecycle transition.
type StateError struct {
	Transition string
	Current    string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s pay period in state %s", e.Transition, e.Current)
}

// ExternalServiceError wraps a disbursement gateway failure or timeout.
type ExternalServiceError struct {
	Op    string
	Cause error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

// DataIntegrityError reports accumulated batch totals that do not match the
// sums persisted for the batch's successful transactions.
type DataIntegrityError struct {
	Detail string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity check failed: " + e.Detail
}
