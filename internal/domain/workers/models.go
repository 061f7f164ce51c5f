package workers

import (
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
)

const (
	EmploymentFixed  = "FIXED"
	EmploymentHourly = "HOURLY"
)

type Worker struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phoneNumber"`
	EmploymentType string          `json:"employmentType"`
	SalaryGross    decimal.Decimal `json:"salaryGross"`
	HourlyRate     decimal.Decimal `json:"hourlyRate"`
	IsActive       bool            `json:"isActive"`
	LeaveBalance   decimal.Decimal `json:"leaveBalance"`
	StartDate      *time.Time      `json:"startDate,omitempty"`
	TerminatedAt   *time.Time      `json:"terminatedAt,omitempty"`
	TerminationID  *string         `json:"terminationId,omitempty"`
}

// Termination is the persisted final-pay record for one worker.
type Termination struct {
	ID                  string          `json:"id"`
	WorkerID            string          `json:"workerId"`
	Reason              string          `json:"reason"`
	TerminationDate     time.Time       `json:"terminationDate"`
	ProratedSalary      decimal.Decimal `json:"proratedSalary"`
	UnusedLeavePayout   decimal.Decimal `json:"unusedLeavePayout"`
	SeverancePay        decimal.Decimal `json:"severancePay"`
	OutstandingPayments decimal.Decimal `json:"outstandingPayments"`
	TotalGross          decimal.Decimal `json:"totalGross"`
	TotalNet            decimal.Decimal `json:"totalNet"`
	Tax                 tax.Breakdown   `json:"tax"`
	CreatedAt           time.Time       `json:"createdAt"`
}
