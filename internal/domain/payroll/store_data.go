package payroll

import (
	"context"
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

const periodColumns = `
  id, user_id, name, start_date, end_date, status,
  total_gross_amount::text, total_net_amount::text, total_tax_amount::text,
  processed_workers, processed_at, created_at`

func scanPeriod(row pgx.Row) (*Period, error) {
	var (
		period         Period
		gross, net, tx string
	)
	err := row.Scan(&period.ID, &period.UserID, &period.Name, &period.StartDate, &period.EndDate,
		&period.Status, &gross, &net, &tx, &period.ProcessedWorkers, &period.ProcessedAt, &period.CreatedAt)
	if err != nil {
		return nil, err
	}
	if period.TotalGross, err = decimal.NewFromString(gross); err != nil {
		return nil, err
	}
	if period.TotalNet, err = decimal.NewFromString(net); err != nil {
		return nil, err
	}
	if period.TotalTax, err = decimal.NewFromString(tx); err != nil {
		return nil, err
	}
	return &period, nil
}

func (s *Store) CreatePeriod(ctx context.Context, employerID string, period Period) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO pay_periods (user_id, name, start_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, employerID, period.Name, period.StartDate, period.EndDate, period.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListPeriods(ctx context.Context, employerID string) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+periodColumns+`
    FROM pay_periods
    WHERE user_id = $1
    ORDER BY start_date DESC
  `, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *period)
	}
	return periods, rows.Err()
}

func (s *Store) PeriodByID(ctx context.Context, employerID, periodID string) (*Period, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+periodColumns+`
    FROM pay_periods
    WHERE id = $1 AND user_id = $2
  `, periodID, employerID)
	period, err := scanPeriod(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	return period, nil
}

func (s *Store) DeletePeriod(ctx context.Context, employerID, periodID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM pay_periods
    WHERE id = $1 AND user_id = $2
  `, periodID, employerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (s *Store) HasOverlappingPeriod(ctx context.Context, employerID string, start, end time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM pay_periods
    WHERE user_id = $1 AND start_date <= $3 AND end_date >= $2
  `, employerID, start, end).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) TransitionStatus(ctx context.Context, employerID, periodID string, from, to Status) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_periods
    SET status = $1, updated_at = now()
    WHERE id = $2 AND user_id = $3 AND status = $4
  `, to, periodID, employerID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ClosePeriod(ctx context.Context, employerID, periodID string, totals PeriodTotals, processedWorkers int, processedAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pay_periods
    SET status = $1, total_gross_amount = $2, total_net_amount = $3, total_tax_amount = $4,
        processed_workers = $5, processed_at = $6, updated_at = now()
    WHERE id = $7 AND user_id = $8 AND status = $9
  `, StatusClosed, totals.Gross, totals.Net, totals.Tax, processedWorkers, processedAt, periodID, employerID, StatusProcessing)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, employerID string, tx Transaction) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_transactions (user_id, pay_period_id, worker_id, worker_name,
                                      gross_salary, net_pay, nssf, nhif, housing_levy, paye,
                                      total_deductions, status, reference)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, employerID, tx.PayPeriodID, tx.WorkerID, tx.WorkerName,
		tx.GrossSalary, tx.NetPay, tx.Tax.NSSF, tx.Tax.NHIF, tx.Tax.HousingLevy, tx.Tax.PAYE,
		tx.Tax.TotalDeductions, TxStatusPending, tx.Reference).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) MarkTransactionSuccess(ctx context.Context, txID, providerRef string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_transactions
    SET status = $1, provider_ref = $2, updated_at = now()
    WHERE id = $3 AND status = $4
  `, TxStatusSuccess, providerRef, txID, TxStatusPending)
	return err
}

func (s *Store) MarkTransactionFailed(ctx context.Context, txID, message string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_transactions
    SET status = $1, error_message = $2, updated_at = now()
    WHERE id = $3 AND status = $4
  `, TxStatusFailed, message, txID, TxStatusPending)
	return err
}

func (s *Store) TransactionByID(ctx context.Context, employerID, txID string) (*Transaction, error) {
	var (
		tx                             Transaction
		gross, net                     string
		nssf, nhif, housing, paye, ded string
	)
	err := s.DB.QueryRow(ctx, `
    SELECT id, pay_period_id, worker_id, worker_name,
           gross_salary::text, net_pay::text, nssf::text, nhif::text,
           housing_levy::text, paye::text, total_deductions::text,
           status, reference, provider_ref, error_message, created_at
    FROM payroll_transactions
    WHERE id = $1 AND user_id = $2
  `, txID, employerID).Scan(&tx.ID, &tx.PayPeriodID, &tx.WorkerID, &tx.WorkerName,
		&gross, &net, &nssf, &nhif, &housing, &paye, &ded,
		&tx.Status, &tx.Reference, &tx.ProviderRef, &tx.ErrorMessage, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	if tx.GrossSalary, err = decimal.NewFromString(gross); err != nil {
		return nil, err
	}
	if tx.NetPay, err = decimal.NewFromString(net); err != nil {
		return nil, err
	}
	if tx.Tax.NSSF, err = decimal.NewFromString(nssf); err != nil {
		return nil, err
	}
	if tx.Tax.NHIF, err = decimal.NewFromString(nhif); err != nil {
		return nil, err
	}
	if tx.Tax.HousingLevy, err = decimal.NewFromString(housing); err != nil {
		return nil, err
	}
	if tx.Tax.PAYE, err = decimal.NewFromString(paye); err != nil {
		return nil, err
	}
	if tx.Tax.TotalDeductions, err = decimal.NewFromString(ded); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) CountTransactions(ctx context.Context, periodID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM payroll_transactions WHERE pay_period_id = $1
  `, periodID).Scan(&count)
	return count, err
}

func (s *Store) SuccessTotals(ctx context.Context, periodID string) (PeriodTotals, int, error) {
	var (
		totals          PeriodTotals
		gross, net, tax string
		count           int
	)
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(gross_salary), 0)::text, COALESCE(SUM(net_pay), 0)::text,
           COALESCE(SUM(total_deductions), 0)::text, COUNT(1)
    FROM payroll_transactions
    WHERE pay_period_id = $1 AND status = $2
  `, periodID, TxStatusSuccess).Scan(&gross, &net, &tax, &count)
	if err != nil {
		return PeriodTotals{}, 0, err
	}
	if totals.Gross, err = decimal.NewFromString(gross); err != nil {
		return PeriodTotals{}, 0, err
	}
	if totals.Net, err = decimal.NewFromString(net); err != nil {
		return PeriodTotals{}, 0, err
	}
	if totals.Tax, err = decimal.NewFromString(tax); err != nil {
		return PeriodTotals{}, 0, err
	}
	return totals, count, nil
}

func (s *Store) BackfillProviderRef(ctx context.Context, reference, providerRef string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_transactions
    SET provider_ref = $1, updated_at = now()
    WHERE reference = $2 AND provider_ref IS NULL
  `, providerRef, reference)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) PeriodStatistics(ctx context.Context, employerID, periodID string) (*Statistics, error) {
	var (
		stats           Statistics
		gross, net, tax string
	)
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = $3),
           COUNT(1) FILTER (WHERE status = $4),
           COALESCE(SUM(gross_salary) FILTER (WHERE status = $3), 0)::text,
           COALESCE(SUM(net_pay) FILTER (WHERE status = $3), 0)::text,
           COALESCE(SUM(total_deductions) FILTER (WHERE status = $3), 0)::text
    FROM payroll_transactions
    WHERE pay_period_id = $1 AND user_id = $2
  `, periodID, employerID, TxStatusSuccess, TxStatusFailed).Scan(
		&stats.TotalWorkers, &stats.SuccessCount, &stats.FailureCount, &gross, &net, &tax)
	if err != nil {
		return nil, err
	}
	stats.PayPeriodID = periodID
	if stats.TotalGross, err = decimal.NewFromString(gross); err != nil {
		return nil, err
	}
	if stats.TotalNet, err = decimal.NewFromString(net); err != nil {
		return nil, err
	}
	if stats.TotalDeductions, err = decimal.NewFromString(tax); err != nil {
		return nil, err
	}
	return &stats, nil
}
