package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SubmissionStatusPending = "PENDING"
	SubmissionStatusFiled   = "FILED"
)

// Submission is the per-period statutory filing record. One is created at
// the end of every batch run with the totals accumulated over successful
// disbursements, then marked filed once remitted to the authority.
type Submission struct {
	ID               string          `json:"id"`
	PayPeriodID      string          `json:"payPeriodId"`
	TotalPAYE        decimal.Decimal `json:"totalPaye"`
	TotalNSSF        decimal.Decimal `json:"totalNssf"`
	TotalNHIF        decimal.Decimal `json:"totalNhif"`
	TotalHousingLevy decimal.Decimal `json:"totalHousingLevy"`
	Status           string          `json:"status"`
	FilingDate       *time.Time      `json:"filingDate,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// SubmissionTotals are the accumulated deduction sums handed over by the
// batch processor.
type SubmissionTotals struct {
	PAYE        decimal.Decimal
	NSSF        decimal.Decimal
	NHIF        decimal.Decimal
	HousingLevy decimal.Decimal
}
