package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
)

type Period struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Name             string          `json:"name"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Status           Status          `json:"status"`
	TotalGross       decimal.Decimal `json:"totalGrossAmount"`
	TotalNet         decimal.Decimal `json:"totalNetAmount"`
	TotalTax         decimal.Decimal `json:"totalTaxAmount"`
	ProcessedWorkers int             `json:"processedWorkers"`
	ProcessedAt      *time.Time      `json:"processedAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type Transaction struct {
	ID           string          `json:"id"`
	PayPeriodID  string          `json:"payPeriodId"`
	WorkerID     string          `json:"workerId"`
	WorkerName   string          `json:"workerName"`
	GrossSalary  decimal.Decimal `json:"grossSalary"`
	NetPay       decimal.Decimal `json:"netPay"`
	Tax          tax.Breakdown   `json:"taxBreakdown"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference"`
	ProviderRef  *string         `json:"providerRef,omitempty"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Computation is one worker's pay for a period, before any disbursement.
type Computation struct {
	WorkerID    string          `json:"workerId"`
	WorkerName  string          `json:"workerName"`
	GrossSalary decimal.Decimal `json:"grossSalary"`
	Tax         tax.Breakdown   `json:"taxBreakdown"`
	NetPay      decimal.Decimal `json:"netPay"`
}

type BatchInput struct {
	PayPeriodID string   `json:"payPeriodId"`
	WorkerIDs   []string `json:"workerIds"`
}

type WorkerResult struct {
	WorkerID      string           `json:"workerId"`
	WorkerName    string           `json:"workerName"`
	Success       bool             `json:"success"`
	GrossSalary   *decimal.Decimal `json:"grossSalary,omitempty"`
	NetPay        *decimal.Decimal `json:"netPay,omitempty"`
	TransactionID string           `json:"transactionId,omitempty"`
	Error         string           `json:"error,omitempty"`
}

type BatchResult struct {
	PayPeriodID     string          `json:"payPeriodId"`
	TotalWorkers    int             `json:"totalWorkers"`
	SuccessCount    int             `json:"successCount"`
	FailureCount    int             `json:"failureCount"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	TaxSubmissionID string          `json:"taxSubmissionId"`
	Results         []WorkerResult  `json:"results"`
	ProcessedAt     time.Time       `json:"processedAt"`
}

// PeriodTotals are the aggregates persisted on the period when a batch
// closes it.
type PeriodTotals struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
	Tax   decimal.Decimal
}

type Statistics struct {
	PayPeriodID     string          `json:"payPeriodId"`
	TotalWorkers    int             `json:"totalWorkers"`
	SuccessCount    int             `json:"successCount"`
	FailureCount    int             `json:"failureCount"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
}
