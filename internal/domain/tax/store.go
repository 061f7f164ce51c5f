package tax

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// EffectiveTable returns the latest active table whose effective date is on
// or before asOf, or nil when no version covers the date. Implements
// Provider.
func (s *Store) EffectiveTable(ctx context.Context, asOf time.Time) (*Table, error) {
	var (
		table                      Table
		tierI, tierII, nssfRate    string
		nhifRate, levyRate, relief string
		bandsJSON                  []byte
	)
	err := s.DB.QueryRow(ctx, `
    SELECT id, effective_from,
           nssf_tier_i_limit::text, nssf_tier_ii_limit::text, nssf_rate::text,
           nhif_rate::text, housing_levy_rate::text, paye_bands, personal_relief::text
    FROM tax_tables
    WHERE is_active AND effective_from <= $1
    ORDER BY effective_from DESC
    LIMIT 1
  `, asOf).Scan(&table.ID, &table.EffectiveFrom, &tierI, &tierII, &nssfRate, &nhifRate, &levyRate, &bandsJSON, &relief)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if table.NSSF.TierILimit, err = decimal.NewFromString(tierI); err != nil {
		return nil, err
	}
	if table.NSSF.TierIILimit, err = decimal.NewFromString(tierII); err != nil {
		return nil, err
	}
	if table.NSSF.Rate, err = decimal.NewFromString(nssfRate); err != nil {
		return nil, err
	}
	if table.NHIFRate, err = decimal.NewFromString(nhifRate); err != nil {
		return nil, err
	}
	if table.HousingLevyRate, err = decimal.NewFromString(levyRate); err != nil {
		return nil, err
	}
	if table.PersonalRelief, err = decimal.NewFromString(relief); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bandsJSON, &table.PAYEBands); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *Store) InsertTable(ctx context.Context, table Table) (string, error) {
	bandsJSON, err := json.Marshal(table.PAYEBands)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO tax_tables (effective_from, nssf_tier_i_limit, nssf_tier_ii_limit, nssf_rate,
                            nhif_rate, housing_levy_rate, paye_bands, personal_relief)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, table.EffectiveFrom, table.NSSF.TierILimit, table.NSSF.TierIILimit, table.NSSF.Rate,
		table.NHIFRate, table.HousingLevyRate, bandsJSON, table.PersonalRelief).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListTables(ctx context.Context) ([]Table, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, effective_from,
           nssf_tier_i_limit::text, nssf_tier_ii_limit::text, nssf_rate::text,
           nhif_rate::text, housing_levy_rate::text, paye_bands, personal_relief::text
    FROM tax_tables
    WHERE is_active
    ORDER BY effective_from DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var (
			table                      Table
			tierI, tierII, nssfRate    string
			nhifRate, levyRate, relief string
			bandsJSON                  []byte
		)
		if err := rows.Scan(&table.ID, &table.EffectiveFrom, &tierI, &tierII, &nssfRate, &nhifRate, &levyRate, &bandsJSON, &relief); err != nil {
			return nil, err
		}
		if table.NSSF.TierILimit, err = decimal.NewFromString(tierI); err != nil {
			return nil, err
		}
		if table.NSSF.TierIILimit, err = decimal.NewFromString(tierII); err != nil {
			return nil, err
		}
		if table.NSSF.Rate, err = decimal.NewFromString(nssfRate); err != nil {
			return nil, err
		}
		if table.NHIFRate, err = decimal.NewFromString(nhifRate); err != nil {
			return nil, err
		}
		if table.HousingLevyRate, err = decimal.NewFromString(levyRate); err != nil {
			return nil, err
		}
		if table.PersonalRelief, err = decimal.NewFromString(relief); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(bandsJSON, &table.PAYEBands); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (s *Store) CreateSubmission(ctx context.Context, employerID, payPeriodID string, totals SubmissionTotals) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tax_submissions (user_id, pay_period_id, total_paye, total_nssf, total_nhif, total_housing_levy)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, employerID, payPeriodID, totals.PAYE, totals.NSSF, totals.NHIF, totals.HousingLevy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListSubmissions(ctx context.Context, employerID string) ([]Submission, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, pay_period_id, total_paye::text, total_nssf::text, total_nhif::text,
           total_housing_levy::text, status, filing_date, created_at
    FROM tax_submissions
    WHERE user_id = $1
    ORDER BY created_at DESC
  `, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var (
			sub                       Submission
			paye, nssf, nhif, housing string
		)
		if err := rows.Scan(&sub.ID, &sub.PayPeriodID, &paye, &nssf, &nhif, &housing, &sub.Status, &sub.FilingDate, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if sub.TotalPAYE, err = decimal.NewFromString(paye); err != nil {
			return nil, err
		}
		if sub.TotalNSSF, err = decimal.NewFromString(nssf); err != nil {
			return nil, err
		}
		if sub.TotalNHIF, err = decimal.NewFromString(nhif); err != nil {
			return nil, err
		}
		if sub.TotalHousingLevy, err = decimal.NewFromString(housing); err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, rows.Err()
}

func (s *Store) MarkFiled(ctx context.Context, employerID, submissionID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tax_submissions
    SET status = $1, filing_date = now()
    WHERE id = $2 AND user_id = $3 AND status = $4
  `, SubmissionStatusFiled, submissionID, employerID, SubmissionStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}
