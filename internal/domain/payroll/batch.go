package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
	"paykey/internal/domain/workers"
	"paykey/internal/faults"
	"paykey/internal/platform/metrics"
	"paykey/internal/platform/payments/intasend"
)

// WorkerDirectory resolves workers for the requesting employer.
type WorkerDirectory interface {
	WorkerByID(ctx context.Context, employerID, workerID string) (*workers.Worker, error)
}

// SubmissionCreator records the statutory submission a finished batch owes.
type SubmissionCreator interface {
	CreateSubmission(ctx context.Context, employerID, payPeriodID string, totals tax.SubmissionTotals) (string, error)
}

// Processor runs a batch disbursement over a pay period. Workers are paid
// sequentially: the gateway is a rate-limited per-merchant API, and serial
// calls keep the isolate-failure-and-continue contract trivially correct.
type Processor struct {
	store     StoreAPI
	directory WorkerDirectory
	calc      *Calculator
	gateway   intasend.Gateway
	taxes     SubmissionCreator
	metrics   *metrics.Collector
}

func NewProcessor(store StoreAPI, directory WorkerDirectory, calc *Calculator, gateway intasend.Gateway, taxes SubmissionCreator, collector *metrics.Collector) *Processor {
	return &Processor{store: store, directory: directory, calc: calc, gateway: gateway, taxes: taxes, metrics: collector}
}

type batchTotals struct {
	gross, net                decimal.Decimal
	paye, nssf, nhif, housing decimal.Decimal
}

func (t *batchTotals) add(c *Computation) {
	t.gross = t.gross.Add(c.GrossSalary)
	t.net = t.net.Add(c.NetPay)
	t.paye = t.paye.Add(c.Tax.PAYE)
	t.nssf = t.nssf.Add(c.Tax.NSSF)
	t.nhif = t.nhif.Add(c.Tax.NHIF)
	t.housing = t.housing.Add(c.Tax.HousingLevy)
}

func (t *batchTotals) deductions() decimal.Decimal {
	return t.paye.Add(t.nssf).Add(t.nhif).Add(t.housing)
}

// Process disburses pay for every worker in the input against one ACTIVE
// period. Preconditions fail fast with no side effects; once the period is
// moved to PROCESSING, per-worker failures are recorded and suppressed and
// the batch always runs to completion.
func (p *Processor) Process(ctx context.Context, employerID string, input BatchInput) (*BatchResult, error) {
	if len(input.WorkerIDs) == 0 {
		return nil, &faults.ValidationError{Field: "workerIds", Reason: "must not be empty"}
	}

	period, err := p.store.PeriodByID(ctx, employerID, input.PayPeriodID)
	if err != nil {
		return nil, err
	}
	if period.Status != StatusActive {
		return nil, transitionError("process", period.Status)
	}

	// Atomic guard: of two concurrent batches against the same period,
	// exactly one wins this conditional update.
	moved, err := p.store.TransitionStatus(ctx, employerID, period.ID, StatusActive, StatusProcessing)
	if err != nil {
		return nil, err
	}
	if !moved {
		current, err := p.store.PeriodByID(ctx, employerID, period.ID)
		if err != nil {
			return nil, err
		}
		return nil, transitionError("process", current.Status)
	}

	started := time.Now()
	var totals batchTotals
	results := make([]WorkerResult, 0, len(input.WorkerIDs))
	successCount := 0

	for _, workerID := range input.WorkerIDs {
		result := p.payWorker(ctx, employerID, period, workerID, &totals)
		if result.Success {
			successCount++
		}
		results = append(results, result)
	}
	failureCount := len(results) - successCount

	if err := p.reconcile(ctx, period.ID, &totals, successCount); err != nil {
		return nil, err
	}

	if successCount == 0 {
		slog.Warn("batch finished with no successful disbursements", "payPeriodId", period.ID, "workers", len(input.WorkerIDs))
	}

	submissionID, err := p.taxes.CreateSubmission(ctx, employerID, period.ID, tax.SubmissionTotals{
		PAYE:        totals.paye,
		NSSF:        totals.nssf,
		NHIF:        totals.nhif,
		HousingLevy: totals.housing,
	})
	if err != nil {
		return nil, err
	}

	processedAt := time.Now()
	periodTotals := PeriodTotals{Gross: totals.gross, Net: totals.net, Tax: totals.deductions()}
	if err := p.store.ClosePeriod(ctx, employerID, period.ID, periodTotals, successCount, processedAt); err != nil {
		return nil, err
	}

	p.metrics.RecordBatch(successCount, failureCount, time.Since(started))
	slog.Info("batch disbursement complete",
		"payPeriodId", period.ID,
		"workers", len(input.WorkerIDs),
		"successes", successCount,
		"failures", failureCount,
		"totalNet", totals.net)

	return &BatchResult{
		PayPeriodID:     period.ID,
		TotalWorkers:    len(input.WorkerIDs),
		SuccessCount:    successCount,
		FailureCount:    failureCount,
		TotalGross:      totals.gross,
		TotalNet:        totals.net,
		TaxSubmissionID: submissionID,
		Results:         results,
		ProcessedAt:     processedAt,
	}, nil
}

func (p *Processor) payWorker(ctx context.Context, employerID string, period *Period, workerID string, totals *batchTotals) WorkerResult {
	worker, err := p.directory.WorkerByID(ctx, employerID, workerID)
	if err != nil {
		if errors.Is(err, workers.ErrWorkerNotFound) {
			return WorkerResult{WorkerID: workerID, WorkerName: "Unknown", Error: "Worker not found"}
		}
		return WorkerResult{WorkerID: workerID, WorkerName: "Unknown", Error: err.Error()}
	}

	computation, err := p.calc.Calculate(ctx, employerID, worker, period.StartDate, period.EndDate)
	if err != nil {
		return WorkerResult{WorkerID: workerID, WorkerName: worker.Name, Error: err.Error()}
	}

	reference := uuid.NewString()
	txID, err := p.store.CreateTransaction(ctx, employerID, Transaction{
		PayPeriodID: period.ID,
		WorkerID:    worker.ID,
		WorkerName:  worker.Name,
		GrossSalary: computation.GrossSalary,
		NetPay:      computation.NetPay,
		Tax:         computation.Tax,
		Reference:   reference,
	})
	if err != nil {
		return WorkerResult{WorkerID: workerID, WorkerName: worker.Name, Error: err.Error()}
	}

	payout, err := p.gateway.SendMoney(ctx, intasend.PayoutRequest{
		PhoneNumber: worker.PhoneNumber,
		Amount:      computation.NetPay,
		Reference:   reference,
		Narrative:   fmt.Sprintf("Salary %s", period.Name),
	})
	if err != nil {
		if markErr := p.store.MarkTransactionFailed(ctx, txID, err.Error()); markErr != nil {
			slog.Error("mark transaction failed", "txId", txID, "err", markErr)
		}
		slog.Warn("disbursement failed", "workerId", worker.ID, "txId", txID, "err", err)
		return WorkerResult{WorkerID: workerID, WorkerName: worker.Name, TransactionID: txID, Error: err.Error()}
	}

	if err := p.store.MarkTransactionSuccess(ctx, txID, payout.TrackingID); err != nil {
		return WorkerResult{WorkerID: workerID, WorkerName: worker.Name, TransactionID: txID, Error: err.Error()}
	}

	totals.add(computation)
	gross := computation.GrossSalary
	net := computation.NetPay
	return WorkerResult{
		WorkerID:      workerID,
		WorkerName:    worker.Name,
		Success:       true,
		GrossSalary:   &gross,
		NetPay:        &net,
		TransactionID: txID,
	}
}

// Preview computes pay for a set of workers over the current month without
// touching the period lifecycle or the gateway.
func (p *Processor) Preview(ctx context.Context, employerID string, workerIDs []string) ([]Computation, error) {
	if len(workerIDs) == 0 {
		return nil, &faults.ValidationError{Field: "workerIds", Reason: "must not be empty"}
	}
	computations := make([]Computation, 0, len(workerIDs))
	for _, workerID := range workerIDs {
		worker, err := p.directory.WorkerByID(ctx, employerID, workerID)
		if err != nil {
			return nil, err
		}
		computation, err := p.calc.Calculate(ctx, employerID, worker, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		computations = append(computations, *computation)
	}
	return computations, nil
}

// reconcile compares the in-memory accumulator with the sums persisted for
// this period's SUCCESS transactions before any submission is written.
func (p *Processor) reconcile(ctx context.Context, periodID string, totals *batchTotals, successCount int) error {
	persisted, count, err := p.store.SuccessTotals(ctx, periodID)
	if err != nil {
		return err
	}
	if count != successCount {
		return &faults.DataIntegrityError{Detail: fmt.Sprintf("period %s: %d successful transactions persisted, %d accumulated", periodID, count, successCount)}
	}
	if !persisted.Gross.Equal(totals.gross) || !persisted.Net.Equal(totals.net) || !persisted.Tax.Equal(totals.deductions()) {
		return &faults.DataIntegrityError{Detail: fmt.Sprintf("period %s: persisted totals do not match accumulated totals", periodID)}
	}
	return nil
}
