package workers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"paykey/internal/domain/tax"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const workerColumns = `
  id, user_id, name, phone_number, employment_type,
  salary_gross::text, COALESCE(hourly_rate, 0)::text, is_active,
  leave_balance::text, start_date, terminated_at, termination_id`

func scanWorker(row pgx.Row) (*Worker, error) {
	var (
		worker                    Worker
		salary, hourlyRate, leave string
	)
	err := row.Scan(&worker.ID, &worker.UserID, &worker.Name, &worker.PhoneNumber,
		&worker.EmploymentType, &salary, &hourlyRate, &worker.IsActive,
		&leave, &worker.StartDate, &worker.TerminatedAt, &worker.TerminationID)
	if err != nil {
		return nil, err
	}
	if worker.SalaryGross, err = decimal.NewFromString(salary); err != nil {
		return nil, err
	}
	if worker.HourlyRate, err = decimal.NewFromString(hourlyRate); err != nil {
		return nil, err
	}
	if worker.LeaveBalance, err = decimal.NewFromString(leave); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (s *Store) WorkerByID(ctx context.Context, employerID, workerID string) (*Worker, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+workerColumns+`
    FROM workers
    WHERE id = $1 AND user_id = $2
  `, workerID, employerID)
	worker, err := scanWorker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func (s *Store) ListWorkers(ctx context.Context, employerID string, activeOnly bool) ([]Worker, error) {
	query := `
    SELECT` + workerColumns + `
    FROM workers
    WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.DB.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *worker)
	}
	return list, rows.Err()
}

type terminationExtras struct {
	OutstandingPayments decimal.Decimal `json:"outstandingPayments"`
	Tax                 tax.Breakdown   `json:"tax"`
}

func (s *Store) SaveTermination(ctx context.Context, employerID string, termination Termination) (string, error) {
	breakdownJSON, err := json.Marshal(terminationExtras{
		OutstandingPayments: termination.OutstandingPayments,
		Tax:                 termination.Tax,
	})
	if err != nil {
		return "", err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO terminations (user_id, worker_id, reason, termination_date,
                              prorated_salary, unused_leave_payout, severance_pay,
                              total_gross, total_net, breakdown)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, employerID, termination.WorkerID, termination.Reason, termination.TerminationDate,
		termination.ProratedSalary, termination.UnusedLeavePayout, termination.SeverancePay,
		termination.TotalGross, termination.TotalNet, breakdownJSON).Scan(&id)
	if err != nil {
		return "", err
	}

	tag, err := tx.Exec(ctx, `
    UPDATE workers
    SET is_active = false, terminated_at = $1, termination_id = $2, updated_at = now()
    WHERE id = $3 AND user_id = $4 AND is_active
  `, termination.TerminationDate, id, termination.WorkerID, employerID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrWorkerNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListTerminations(ctx context.Context, employerID string) ([]Termination, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, worker_id, reason, termination_date,
           prorated_salary::text, unused_leave_payout::text, severance_pay::text,
           total_gross::text, total_net::text, breakdown, created_at
    FROM terminations
    WHERE user_id = $1
    ORDER BY created_at DESC
  `, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Termination
	for rows.Next() {
		var (
			termination                Termination
			prorated, leave, severance string
			gross, net                 string
			breakdownJSON              []byte
		)
		if err := rows.Scan(&termination.ID, &termination.WorkerID, &termination.Reason,
			&termination.TerminationDate, &prorated, &leave, &severance, &gross, &net,
			&breakdownJSON, &termination.CreatedAt); err != nil {
			return nil, err
		}
		if termination.ProratedSalary, err = decimal.NewFromString(prorated); err != nil {
			return nil, err
		}
		if termination.UnusedLeavePayout, err = decimal.NewFromString(leave); err != nil {
			return nil, err
		}
		if termination.SeverancePay, err = decimal.NewFromString(severance); err != nil {
			return nil, err
		}
		if termination.TotalGross, err = decimal.NewFromString(gross); err != nil {
			return nil, err
		}
		if termination.TotalNet, err = decimal.NewFromString(net); err != nil {
			return nil, err
		}
		var extras terminationExtras
		if err := json.Unmarshal(breakdownJSON, &extras); err != nil {
			return nil, err
		}
		termination.OutstandingPayments = extras.OutstandingPayments
		termination.Tax = extras.Tax
		list = append(list, termination)
	}
	return list, rows.Err()
}
