package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paykey/internal/faults"
)

func june(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestCreatePeriodValidation(t *testing.T) {
	service := NewService(newFakeStore())

	_, err := service.CreatePeriod(context.Background(), "emp-1", PeriodInput{
		StartDate: june(30),
		EndDate:   june(1),
	})
	var verr *faults.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = service.CreatePeriod(context.Background(), "emp-1", PeriodInput{})
	require.ErrorAs(t, err, &verr)
}

func TestCreatePeriodDefaultsName(t *testing.T) {
	service := NewService(newFakeStore())

	period, err := service.CreatePeriod(context.Background(), "emp-1", PeriodInput{
		StartDate: june(1),
		EndDate:   june(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "June 2024 Payroll", period.Name)
	assert.Equal(t, StatusDraft, period.Status)
}

func TestCreatePeriodRejectsOverlap(t *testing.T) {
	store := newFakeStore()
	store.addPeriod("p1", StatusActive)
	service := NewService(store)

	_, err := service.CreatePeriod(context.Background(), "emp-1", PeriodInput{
		StartDate: june(15),
		EndDate:   time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
	})
	var verr *faults.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAdministrativeTransitions(t *testing.T) {
	store := newFakeStore()
	store.addPeriod("p1", StatusDraft)
	service := NewService(store)
	ctx := context.Background()

	period, err := service.Activate(ctx, "emp-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, period.Status)

	// complete is only legal from PROCESSING
	_, err = service.Complete(ctx, "emp-1", "p1")
	var serr *faults.StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "ACTIVE", serr.Current)

	store.periods["p1"].Status = StatusProcessing
	period, err = service.Complete(ctx, "emp-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, period.Status)

	period, err = service.Close(ctx, "emp-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, period.Status)

	_, err = service.Activate(ctx, "emp-1", "p1")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "CLOSED", serr.Current)
}

func TestDeletePeriodGuards(t *testing.T) {
	store := newFakeStore()
	store.addPeriod("p1", StatusClosed)
	service := NewService(store)
	ctx := context.Background()

	err := service.DeletePeriod(ctx, "emp-1", "p1")
	var verr *faults.ValidationError
	require.ErrorAs(t, err, &verr)

	store.addPeriod("p2", StatusDraft)
	_, err = store.CreateTransaction(ctx, "emp-1", Transaction{PayPeriodID: "p2", Reference: "ref-1"})
	require.NoError(t, err)
	err = service.DeletePeriod(ctx, "emp-1", "p2")
	require.ErrorAs(t, err, &verr)

	store.addPeriod("p3", StatusDraft)
	require.NoError(t, service.DeletePeriod(ctx, "emp-1", "p3"))
	_, err = service.Period(ctx, "emp-1", "p3")
	require.ErrorIs(t, err, ErrPeriodNotFound)
}

func TestBackfillProviderRef(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)
	ctx := context.Background()

	_, err := store.CreateTransaction(ctx, "emp-1", Transaction{PayPeriodID: "p1", Reference: "ref-1"})
	require.NoError(t, err)

	require.NoError(t, service.BackfillProviderRef(ctx, "ref-1", "TRK-9"))
	tx := store.txs["tx-1"]
	require.NotNil(t, tx.ProviderRef)
	assert.Equal(t, "TRK-9", *tx.ProviderRef)

	// Second delivery of the same webhook is a no-op mismatch.
	require.ErrorIs(t, service.BackfillProviderRef(ctx, "ref-1", "TRK-9"), ErrTransactionNotFound)
	require.ErrorIs(t, service.BackfillProviderRef(ctx, "missing", "TRK-9"), ErrTransactionNotFound)
}
