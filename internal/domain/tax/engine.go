package tax

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"paykey/internal/faults"
)

// Breakdown is the statutory deduction set for one gross amount. Every field
// is rounded to two decimal places, half away from zero.
type Breakdown struct {
	NSSF            decimal.Decimal `json:"nssf"`
	NHIF            decimal.Decimal `json:"nhif"`
	HousingLevy     decimal.Decimal `json:"housingLevy"`
	PAYE            decimal.Decimal `json:"paye"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
}

// Provider resolves the tax table effective on a given date. A nil table
// with a nil error means no configured version covers the date and the
// caller should fall back to DefaultTable.
type Provider interface {
	EffectiveTable(ctx context.Context, asOf time.Time) (*Table, error)
}

// StaticProvider always serves the same table.
type StaticProvider struct {
	Table Table
}

func (p StaticProvider) EffectiveTable(ctx context.Context, asOf time.Time) (*Table, error) {
	t := p.Table
	return &t, nil
}

type Engine struct {
	provider Provider
}

func NewEngine(provider Provider) *Engine {
	return &Engine{provider: provider}
}

// Calculate resolves the table effective at asOf and computes the deduction
// breakdown for gross. Falls back to the built-in default table when the
// provider has no version covering the date.
func (e *Engine) Calculate(ctx context.Context, gross decimal.Decimal, asOf time.Time) (Breakdown, error) {
	table, err := e.provider.EffectiveTable(ctx, asOf)
	if err != nil {
		return Breakdown{}, err
	}
	if table == nil {
		slog.Warn("no tax table covers date, using default", "asOf", asOf.Format("2006-01-02"))
		fallback := DefaultTable()
		table = &fallback
	}
	return Compute(gross, *table)
}

// Compute applies a table to a gross amount.
func Compute(gross decimal.Decimal, table Table) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, &faults.ValidationError{Field: "grossSalary", Reason: "must not be negative"}
	}

	nssf := computeNSSF(gross, table.NSSF)
	nhif := gross.Mul(table.NHIFRate).Round(2)
	levy := gross.Mul(table.HousingLevyRate).Round(2)
	paye := computePAYE(gross.Sub(nssf), table)

	return Breakdown{
		NSSF:            nssf,
		NHIF:            nhif,
		HousingLevy:     levy,
		PAYE:            paye,
		TotalDeductions: nssf.Add(nhif).Add(levy).Add(paye),
	}, nil
}

func computeNSSF(gross decimal.Decimal, cfg NSSF) decimal.Decimal {
	tierI := decimal.Min(gross, cfg.TierILimit).Mul(cfg.Rate)
	tierII := decimal.Zero
	if gross.GreaterThan(cfg.TierILimit) {
		pensionable := decimal.Min(gross.Sub(cfg.TierILimit), cfg.TierIILimit.Sub(cfg.TierILimit))
		tierII = pensionable.Mul(cfg.Rate)
	}
	return tierI.Add(tierII).Round(2)
}

func computePAYE(taxable decimal.Decimal, table Table) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := taxable
	prev := decimal.Zero
	for _, band := range table.PAYEBands {
		var amount decimal.Decimal
		if band.UpperBound == nil {
			amount = remaining
		} else {
			amount = decimal.Min(remaining, band.UpperBound.Sub(prev))
			prev = *band.UpperBound
		}
		tax = tax.Add(amount.Mul(band.Rate))
		remaining = remaining.Sub(amount)
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}

	paye := tax.Sub(table.PersonalRelief)
	if paye.IsNegative() {
		return decimal.Zero
	}
	return paye.Round(2)
}
