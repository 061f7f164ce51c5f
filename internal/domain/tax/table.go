package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NSSF is the two-tier retirement contribution configuration. Tier I covers
// gross pay up to TierILimit, tier II the slice between TierILimit and
// TierIILimit. Both tiers contribute at the same flat rate.
type NSSF struct {
	TierILimit  decimal.Decimal `json:"tierILimit"`
	TierIILimit decimal.Decimal `json:"tierIILimit"`
	Rate        decimal.Decimal `json:"rate"`
}

// Band is one graduated PAYE band. A nil UpperBound marks the final,
// open-ended band.
type Band struct {
	UpperBound *decimal.Decimal `json:"upperBound"`
	Rate       decimal.Decimal  `json:"rate"`
}

// Table is one immutable version of the statutory deduction configuration.
// The engine selects the latest version whose EffectiveFrom is on or before
// the computation date.
type Table struct {
	ID              string          `json:"id,omitempty"`
	EffectiveFrom   time.Time       `json:"effectiveFrom"`
	NSSF            NSSF            `json:"nssf"`
	NHIFRate        decimal.Decimal `json:"nhifRate"`
	HousingLevyRate decimal.Decimal `json:"housingLevyRate"`
	PAYEBands       []Band          `json:"payeBands"`
	PersonalRelief  decimal.Decimal `json:"personalRelief"`
}

func (t Table) Validate() error {
	if t.NSSF.TierILimit.IsNegative() || t.NSSF.TierIILimit.LessThanOrEqual(t.NSSF.TierILimit) {
		return fmt.Errorf("nssf tier limits must satisfy 0 <= tierI < tierII")
	}
	if t.NSSF.Rate.IsNegative() || t.NHIFRate.IsNegative() || t.HousingLevyRate.IsNegative() {
		return fmt.Errorf("deduction rates must not be negative")
	}
	if t.PersonalRelief.IsNegative() {
		return fmt.Errorf("personal relief must not be negative")
	}
	if len(t.PAYEBands) == 0 {
		return fmt.Errorf("at least one PAYE band is required")
	}
	prev := decimal.Zero
	for i, band := range t.PAYEBands {
		if band.Rate.IsNegative() {
			return fmt.Errorf("PAYE band %d: rate must not be negative", i)
		}
		last := i == len(t.PAYEBands)-1
		if last {
			if band.UpperBound != nil {
				return fmt.Errorf("final PAYE band must be unbounded")
			}
			continue
		}
		if band.UpperBound == nil {
			return fmt.Errorf("PAYE band %d: only the final band may be unbounded", i)
		}
		if band.UpperBound.LessThanOrEqual(prev) {
			return fmt.Errorf("PAYE band %d: upper bounds must be strictly increasing", i)
		}
		prev = *band.UpperBound
	}
	return nil
}

// DefaultTable is the built-in fallback used when no configured table covers
// the computation date. Constants are the 2024 Kenyan statutory values:
// NSSF tiers at 7,000 and 36,000 shillings at 6%, SHIF at 2.75%, housing
// levy at 1.5%, PAYE bands of 10% to 24,000 and 25% to 32,333 then 30%,
// with a 2,400 monthly personal relief.
func DefaultTable() Table {
	band1 := decimal.NewFromInt(24000)
	band2 := decimal.NewFromInt(32333)
	return Table{
		EffectiveFrom: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		NSSF: NSSF{
			TierILimit:  decimal.NewFromInt(7000),
			TierIILimit: decimal.NewFromInt(36000),
			Rate:        decimal.RequireFromString("0.06"),
		},
		NHIFRate:        decimal.RequireFromString("0.0275"),
		HousingLevyRate: decimal.RequireFromString("0.015"),
		PAYEBands: []Band{
			{UpperBound: &band1, Rate: decimal.RequireFromString("0.10")},
			{UpperBound: &band2, Rate: decimal.RequireFromString("0.25")},
			{UpperBound: nil, Rate: decimal.RequireFromString("0.30")},
		},
		PersonalRelief: decimal.NewFromInt(2400),
	}
}
