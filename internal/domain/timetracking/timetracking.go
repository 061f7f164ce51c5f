// Package timetracking supplies total hours worked for hourly workers. Only
// entries that finished review (COMPLETED or ADJUSTED) count toward pay.
package timetracking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	EntryStatusInProgress = "IN_PROGRESS"
	EntryStatusCompleted  = "COMPLETED"
	EntryStatusAdjusted   = "ADJUSTED"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) HoursWorked(ctx context.Context, employerID, workerID string, start, end time.Time) (decimal.Decimal, error) {
	var total string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(total_hours), 0)::text
    FROM time_entries
    WHERE user_id = $1 AND worker_id = $2
      AND status IN ($3, $4)
      AND clock_in >= $5 AND clock_in < $6
  `, employerID, workerID, EntryStatusCompleted, EntryStatusAdjusted, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}
