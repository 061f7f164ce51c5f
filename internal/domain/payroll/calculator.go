package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
	"paykey/internal/domain/workers"
)

// HoursProvider reports the hours a worker logged inside a window. Only
// consulted for HOURLY workers.
type HoursProvider interface {
	HoursWorked(ctx context.Context, employerID, workerID string, start, end time.Time) (decimal.Decimal, error)
}

type Calculator struct {
	engine *tax.Engine
	hours  HoursProvider
}

func NewCalculator(engine *tax.Engine, hours HoursProvider) *Calculator {
	return &Calculator{engine: engine, hours: hours}
}

// Calculate computes one worker's gross, deductions and net for the window.
// FIXED workers earn their monthly salary as-is; HOURLY workers earn hours
// times rate. A zero window defaults to the current calendar month.
func (c *Calculator) Calculate(ctx context.Context, employerID string, worker *workers.Worker, start, end time.Time) (*Computation, error) {
	if start.IsZero() || end.IsZero() {
		start, end = currentMonth(time.Now())
	}

	var gross decimal.Decimal
	switch worker.EmploymentType {
	case workers.EmploymentHourly:
		hours, err := c.hours.HoursWorked(ctx, employerID, worker.ID, start, end)
		if err != nil {
			return nil, err
		}
		gross = hours.Mul(worker.HourlyRate).Round(2)
	default:
		gross = worker.SalaryGross
	}

	breakdown, err := c.engine.Calculate(ctx, gross, end)
	if err != nil {
		return nil, fmt.Errorf("tax for worker %s: %w", worker.ID, err)
	}

	return &Computation{
		WorkerID:    worker.ID,
		WorkerName:  worker.Name,
		GrossSalary: gross,
		Tax:         breakdown,
		NetPay:      gross.Sub(breakdown.TotalDeductions).Round(2),
	}, nil
}

func currentMonth(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).AddDate(0, 0, -1)
}
