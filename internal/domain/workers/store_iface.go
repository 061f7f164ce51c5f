package workers

import "context"

type StoreAPI interface {
	WorkerByID(ctx context.Context, employerID, workerID string) (*Worker, error)
	ListWorkers(ctx context.Context, employerID string, activeOnly bool) ([]Worker, error)
	// SaveTermination persists the record, deactivates the worker and
	// backfills the termination id in one transaction.
	SaveTermination(ctx context.Context, employerID string, termination Termination) (string, error)
	ListTerminations(ctx context.Context, employerID string) ([]Termination, error)
}

var _ StoreAPI = (*Store)(nil)
