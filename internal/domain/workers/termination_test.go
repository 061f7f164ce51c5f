package workers

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paykey/internal/domain/tax"
	"paykey/internal/faults"
)

type fakeStore struct {
	workers      map[string]*Worker
	saved        []Termination
	terminations []Termination
}

func (f *fakeStore) WorkerByID(ctx context.Context, employerID, workerID string) (*Worker, error) {
	worker, ok := f.workers[workerID]
	if !ok {
		return nil, ErrWorkerNotFound
	}
	return worker, nil
}

func (f *fakeStore) ListWorkers(ctx context.Context, employerID string, activeOnly bool) ([]Worker, error) {
	var list []Worker
	for _, worker := range f.workers {
		if activeOnly && !worker.IsActive {
			continue
		}
		list = append(list, *worker)
	}
	return list, nil
}

func (f *fakeStore) SaveTermination(ctx context.Context, employerID string, termination Termination) (string, error) {
	f.saved = append(f.saved, termination)
	return "term-1", nil
}

func (f *fakeStore) ListTerminations(ctx context.Context, employerID string) ([]Termination, error) {
	return f.terminations, nil
}

func newTestService(store *fakeStore) *Service {
	engine := tax.NewEngine(tax.StaticProvider{Table: tax.DefaultTable()})
	return NewService(store, engine, nil)
}

func TestFinalPayProration(t *testing.T) {
	// June has 30 days; terminating on the 15th halves the salary.
	date := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	prorated, leavePayout := FinalPayComponents(decimal.NewFromInt(60000), decimal.Zero, date)

	assert.True(t, prorated.Equal(decimal.RequireFromString("30000.00")), "prorated = %s", prorated)
	assert.True(t, leavePayout.IsZero())
}

func TestFinalPayLeavePayout(t *testing.T) {
	// Daily rate 60000/30 = 2000; 5 days of leave pay out at 10000.
	date := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	_, leavePayout := FinalPayComponents(decimal.NewFromInt(60000), decimal.NewFromInt(5), date)

	assert.True(t, leavePayout.Equal(decimal.NewFromInt(10000)), "leavePayout = %s", leavePayout)
}

func TestTerminateComputesAndPersists(t *testing.T) {
	store := &fakeStore{workers: map[string]*Worker{
		"w1": {
			ID:           "w1",
			Name:         "Grace",
			IsActive:     true,
			SalaryGross:  decimal.NewFromInt(60000),
			LeaveBalance: decimal.NewFromInt(5),
		},
	}}
	service := newTestService(store)

	termination, err := service.Terminate(context.Background(), "emp-1", TerminationInput{
		WorkerID:        "w1",
		TerminationDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Reason:          "resignation",
		SeverancePay:    decimal.NewFromInt(20000),
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	assert.Equal(t, "term-1", termination.ID)
	assert.True(t, termination.ProratedSalary.Equal(decimal.NewFromInt(30000)))
	assert.True(t, termination.UnusedLeavePayout.Equal(decimal.NewFromInt(10000)))
	// 30000 + 10000 + 20000 severance
	assert.True(t, termination.TotalGross.Equal(decimal.NewFromInt(60000)))
	assert.True(t, termination.TotalNet.Equal(termination.TotalGross.Sub(termination.Tax.TotalDeductions)))
	assert.False(t, termination.Tax.TotalDeductions.IsZero())
}

func TestTerminateInactiveWorkerRejected(t *testing.T) {
	store := &fakeStore{workers: map[string]*Worker{
		"w1": {ID: "w1", IsActive: false, SalaryGross: decimal.NewFromInt(60000)},
	}}
	service := newTestService(store)

	_, err := service.Terminate(context.Background(), "emp-1", TerminationInput{
		WorkerID:        "w1",
		TerminationDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	var verr *faults.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, store.saved)
}

func TestTerminateUnknownWorker(t *testing.T) {
	service := newTestService(&fakeStore{workers: map[string]*Worker{}})

	_, err := service.Terminate(context.Background(), "emp-1", TerminationInput{
		WorkerID:        "missing",
		TerminationDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrWorkerNotFound)
}
