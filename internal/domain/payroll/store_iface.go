package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreatePeriod(ctx context.Context, employerID string, period Period) (string, error)
	ListPeriods(ctx context.Context, employerID string) ([]Period, error)
	PeriodByID(ctx context.Context, employerID, periodID string) (*Period, error)
	DeletePeriod(ctx context.Context, employerID, periodID string) error
	HasOverlappingPeriod(ctx context.Context, employerID string, start, end time.Time) (bool, error)
	// TransitionStatus performs the conditional state update and reports
	// whether a row moved. A false return means the period was not in the
	// expected source state when the update ran.
	TransitionStatus(ctx context.Context, employerID, periodID string, from, to Status) (bool, error)
	ClosePeriod(ctx context.Context, employerID, periodID string, totals PeriodTotals, processedWorkers int, processedAt time.Time) error

	CreateTransaction(ctx context.Context, employerID string, tx Transaction) (string, error)
	MarkTransactionSuccess(ctx context.Context, txID, providerRef string) error
	MarkTransactionFailed(ctx context.Context, txID, message string) error
	TransactionByID(ctx context.Context, employerID, txID string) (*Transaction, error)
	CountTransactions(ctx context.Context, periodID string) (int, error)
	// SuccessTotals sums the persisted SUCCESS transactions for a period,
	// used to reconcile the in-memory batch accumulator.
	SuccessTotals(ctx context.Context, periodID string) (PeriodTotals, int, error)
	BackfillProviderRef(ctx context.Context, reference, providerRef string) (bool, error)
	PeriodStatistics(ctx context.Context, employerID, periodID string) (*Statistics, error)
}

var _ StoreAPI = (*Store)(nil)
