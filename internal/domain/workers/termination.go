package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
	"paykey/internal/faults"
	"paykey/internal/platform/metrics"
)

type TerminationInput struct {
	WorkerID            string          `json:"workerId"`
	TerminationDate     time.Time       `json:"terminationDate"`
	Reason              string          `json:"reason"`
	SeverancePay        decimal.Decimal `json:"severancePay"`
	OutstandingPayments decimal.Decimal `json:"outstandingPayments"`
}

type Service struct {
	store   StoreAPI
	engine  *tax.Engine
	metrics *metrics.Collector
}

func NewService(store StoreAPI, engine *tax.Engine, collector *metrics.Collector) *Service {
	return &Service{store: store, engine: engine, metrics: collector}
}

func (s *Service) Worker(ctx context.Context, employerID, workerID string) (*Worker, error) {
	return s.store.WorkerByID(ctx, employerID, workerID)
}

func (s *Service) ListWorkers(ctx context.Context, employerID string, activeOnly bool) ([]Worker, error) {
	return s.store.ListWorkers(ctx, employerID, activeOnly)
}

func (s *Service) ListTerminations(ctx context.Context, employerID string) ([]Termination, error) {
	return s.store.ListTerminations(ctx, employerID)
}

// Terminate computes the final pay for a worker and persists the termination
// record. The monthly salary is prorated over the calendar days of the
// termination month, unused leave is paid out at the daily rate, and the
// combined gross is taxed like a normal payroll run.
func (s *Service) Terminate(ctx context.Context, employerID string, input TerminationInput) (*Termination, error) {
	if input.SeverancePay.IsNegative() {
		return nil, &faults.ValidationError{Field: "severancePay", Reason: "must not be negative"}
	}
	if input.OutstandingPayments.IsNegative() {
		return nil, &faults.ValidationError{Field: "outstandingPayments", Reason: "must not be negative"}
	}
	if input.TerminationDate.IsZero() {
		return nil, &faults.ValidationError{Field: "terminationDate", Reason: "is required"}
	}

	worker, err := s.store.WorkerByID(ctx, employerID, input.WorkerID)
	if err != nil {
		return nil, err
	}
	if !worker.IsActive {
		return nil, &faults.ValidationError{Field: "workerId", Reason: "worker is already terminated"}
	}

	prorated, leavePayout := FinalPayComponents(worker.SalaryGross, worker.LeaveBalance, input.TerminationDate)
	totalGross := prorated.Add(leavePayout).Add(input.SeverancePay).Add(input.OutstandingPayments)

	breakdown, err := s.engine.Calculate(ctx, totalGross, input.TerminationDate)
	if err != nil {
		return nil, err
	}

	termination := Termination{
		WorkerID:            worker.ID,
		Reason:              input.Reason,
		TerminationDate:     input.TerminationDate,
		ProratedSalary:      prorated,
		UnusedLeavePayout:   leavePayout,
		SeverancePay:        input.SeverancePay,
		OutstandingPayments: input.OutstandingPayments,
		TotalGross:          totalGross,
		TotalNet:            totalGross.Sub(breakdown.TotalDeductions),
		Tax:                 breakdown,
	}

	id, err := s.store.SaveTermination(ctx, employerID, termination)
	if err != nil {
		return nil, err
	}
	termination.ID = id

	s.metrics.RecordTermination()
	slog.Info("worker terminated",
		"workerId", worker.ID,
		"terminationId", id,
		"totalGross", totalGross,
		"totalNet", termination.TotalNet)
	return &termination, nil
}

// FinalPayComponents prorates the monthly salary over the calendar days of
// the termination month (days worked = day of month) and values the unused
// leave balance at the daily rate.
func FinalPayComponents(salaryGross, leaveBalance decimal.Decimal, terminationDate time.Time) (prorated, leavePayout decimal.Decimal) {
	days := decimal.NewFromInt(int64(daysInMonth(terminationDate)))
	worked := decimal.NewFromInt(int64(terminationDate.Day()))

	prorated = salaryGross.Mul(worked).Div(days).Round(2)
	dailyRate := salaryGross.Div(days)
	leavePayout = leaveBalance.Mul(dailyRate).Round(2)
	return prorated, leavePayout
}

func daysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
