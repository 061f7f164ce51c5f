package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
	"paykey/internal/domain/workers"
	"paykey/internal/platform/payments/intasend"
)

type fakeStore struct {
	periods   map[string]*Period
	txs       map[string]*Transaction
	txSeq     int
	refuseAll bool // force every conditional transition to lose
}

func newFakeStore() *fakeStore {
	return &fakeStore{periods: map[string]*Period{}, txs: map[string]*Transaction{}}
}

func (f *fakeStore) addPeriod(id string, status Status) *Period {
	period := &Period{
		ID:        id,
		Name:      "June 2024 Payroll",
		StartDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
	f.periods[id] = period
	return period
}

func (f *fakeStore) CreatePeriod(ctx context.Context, employerID string, period Period) (string, error) {
	id := fmt.Sprintf("period-%d", len(f.periods)+1)
	period.ID = id
	f.periods[id] = &period
	return id, nil
}

func (f *fakeStore) ListPeriods(ctx context.Context, employerID string) ([]Period, error) {
	var list []Period
	for _, period := range f.periods {
		list = append(list, *period)
	}
	return list, nil
}

func (f *fakeStore) PeriodByID(ctx context.Context, employerID, periodID string) (*Period, error) {
	period, ok := f.periods[periodID]
	if !ok {
		return nil, ErrPeriodNotFound
	}
	clone := *period
	return &clone, nil
}

func (f *fakeStore) DeletePeriod(ctx context.Context, employerID, periodID string) error {
	if _, ok := f.periods[periodID]; !ok {
		return ErrPeriodNotFound
	}
	delete(f.periods, periodID)
	return nil
}

func (f *fakeStore) HasOverlappingPeriod(ctx context.Context, employerID string, start, end time.Time) (bool, error) {
	for _, period := range f.periods {
		if !start.After(period.EndDate) && !end.Before(period.StartDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) TransitionStatus(ctx context.Context, employerID, periodID string, from, to Status) (bool, error) {
	if f.refuseAll {
		return false, nil
	}
	period, ok := f.periods[periodID]
	if !ok || period.Status != from {
		return false, nil
	}
	period.Status = to
	return true, nil
}

func (f *fakeStore) ClosePeriod(ctx context.Context, employerID, periodID string, totals PeriodTotals, processedWorkers int, processedAt time.Time) error {
	period, ok := f.periods[periodID]
	if !ok || period.Status != StatusProcessing {
		return ErrPeriodNotFound
	}
	period.Status = StatusClosed
	period.TotalGross = totals.Gross
	period.TotalNet = totals.Net
	period.TotalTax = totals.Tax
	period.ProcessedWorkers = processedWorkers
	period.ProcessedAt = &processedAt
	return nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, employerID string, tx Transaction) (string, error) {
	f.txSeq++
	tx.ID = fmt.Sprintf("tx-%d", f.txSeq)
	tx.Status = TxStatusPending
	f.txs[tx.ID] = &tx
	return tx.ID, nil
}

func (f *fakeStore) MarkTransactionSuccess(ctx context.Context, txID, providerRef string) error {
	tx, ok := f.txs[txID]
	if !ok {
		return ErrTransactionNotFound
	}
	tx.Status = TxStatusSuccess
	tx.ProviderRef = &providerRef
	return nil
}

func (f *fakeStore) MarkTransactionFailed(ctx context.Context, txID, message string) error {
	tx, ok := f.txs[txID]
	if !ok {
		return ErrTransactionNotFound
	}
	tx.Status = TxStatusFailed
	tx.ErrorMessage = &message
	return nil
}

func (f *fakeStore) TransactionByID(ctx context.Context, employerID, txID string) (*Transaction, error) {
	tx, ok := f.txs[txID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (f *fakeStore) CountTransactions(ctx context.Context, periodID string) (int, error) {
	count := 0
	for _, tx := range f.txs {
		if tx.PayPeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SuccessTotals(ctx context.Context, periodID string) (PeriodTotals, int, error) {
	var totals PeriodTotals
	count := 0
	for _, tx := range f.txs {
		if tx.PayPeriodID != periodID || tx.Status != TxStatusSuccess {
			continue
		}
		totals.Gross = totals.Gross.Add(tx.GrossSalary)
		totals.Net = totals.Net.Add(tx.NetPay)
		totals.Tax = totals.Tax.Add(tx.Tax.TotalDeductions)
		count++
	}
	return totals, count, nil
}

func (f *fakeStore) BackfillProviderRef(ctx context.Context, reference, providerRef string) (bool, error) {
	for _, tx := range f.txs {
		if tx.Reference == reference && tx.ProviderRef == nil {
			tx.ProviderRef = &providerRef
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PeriodStatistics(ctx context.Context, employerID, periodID string) (*Statistics, error) {
	stats := &Statistics{PayPeriodID: periodID}
	for _, tx := range f.txs {
		if tx.PayPeriodID != periodID {
			continue
		}
		stats.TotalWorkers++
		switch tx.Status {
		case TxStatusSuccess:
			stats.SuccessCount++
			stats.TotalGross = stats.TotalGross.Add(tx.GrossSalary)
			stats.TotalNet = stats.TotalNet.Add(tx.NetPay)
			stats.TotalDeductions = stats.TotalDeductions.Add(tx.Tax.TotalDeductions)
		case TxStatusFailed:
			stats.FailureCount++
		}
	}
	return stats, nil
}

var _ StoreAPI = (*fakeStore)(nil)

type fakeDirectory struct {
	workers map[string]*workers.Worker
}

func (f *fakeDirectory) WorkerByID(ctx context.Context, employerID, workerID string) (*workers.Worker, error) {
	worker, ok := f.workers[workerID]
	if !ok {
		return nil, workers.ErrWorkerNotFound
	}
	return worker, nil
}

type fakeGateway struct {
	failPhones map[string]bool
	calls      int
}

func (f *fakeGateway) SendMoney(ctx context.Context, req intasend.PayoutRequest) (*intasend.Payout, error) {
	f.calls++
	if f.failPhones[req.PhoneNumber] {
		return nil, errors.New("insufficient float")
	}
	return &intasend.Payout{TrackingID: "TRK-" + req.Reference, State: "COMPLETE"}, nil
}

type fakeTaxes struct {
	submissions []tax.SubmissionTotals
}

func (f *fakeTaxes) CreateSubmission(ctx context.Context, employerID, payPeriodID string, totals tax.SubmissionTotals) (string, error) {
	f.submissions = append(f.submissions, totals)
	return "sub-1", nil
}

type fakeHours struct {
	hours decimal.Decimal
	start time.Time
	end   time.Time
}

func (f *fakeHours) HoursWorked(ctx context.Context, employerID, workerID string, start, end time.Time) (decimal.Decimal, error) {
	f.start, f.end = start, end
	return f.hours, nil
}

func fixedWorker(id, name string, salary int64) *workers.Worker {
	return &workers.Worker{
		ID:             id,
		Name:           name,
		PhoneNumber:    "+2547" + id,
		EmploymentType: workers.EmploymentFixed,
		SalaryGross:    decimal.NewFromInt(salary),
		IsActive:       true,
	}
}

func testCalculator(hours HoursProvider) *Calculator {
	engine := tax.NewEngine(tax.StaticProvider{Table: tax.DefaultTable()})
	return NewCalculator(engine, hours)
}
