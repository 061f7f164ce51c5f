package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paykey/internal/faults"
)

// Service owns the pay period lifecycle outside batch processing: CRUD,
// administrative transitions and statistics.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

type PeriodInput struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func (s *Service) CreatePeriod(ctx context.Context, employerID string, input PeriodInput) (*Period, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, &faults.ValidationError{Field: "startDate", Reason: "start and end dates are required"}
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, &faults.ValidationError{Field: "endDate", Reason: "must be after startDate"}
	}

	overlaps, err := s.store.HasOverlappingPeriod(ctx, employerID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, &faults.ValidationError{Field: "startDate", Reason: "overlaps an existing pay period"}
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("%s Payroll", input.StartDate.Format("January 2006"))
	}

	period := Period{
		Name:      name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    StatusDraft,
	}
	id, err := s.store.CreatePeriod(ctx, employerID, period)
	if err != nil {
		return nil, err
	}

	slog.Info("pay period created", "id", id, "name", name)
	return s.store.PeriodByID(ctx, employerID, id)
}

func (s *Service) ListPeriods(ctx context.Context, employerID string) ([]Period, error) {
	return s.store.ListPeriods(ctx, employerID)
}

func (s *Service) Period(ctx context.Context, employerID, periodID string) (*Period, error) {
	return s.store.PeriodByID(ctx, employerID, periodID)
}

// DeletePeriod removes a period that never processed pay. Periods with
// transactions, or past ACTIVE, must be kept for the audit trail.
func (s *Service) DeletePeriod(ctx context.Context, employerID, periodID string) error {
	period, err := s.store.PeriodByID(ctx, employerID, periodID)
	if err != nil {
		return err
	}
	if period.Status != StatusDraft && period.Status != StatusActive {
		return &faults.ValidationError{Field: "payPeriodId", Reason: "only DRAFT or ACTIVE periods can be deleted"}
	}
	count, err := s.store.CountTransactions(ctx, periodID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &faults.ValidationError{Field: "payPeriodId", Reason: "period has payroll transactions"}
	}
	return s.store.DeletePeriod(ctx, employerID, periodID)
}

func (s *Service) Activate(ctx context.Context, employerID, periodID string) (*Period, error) {
	return s.transition(ctx, employerID, periodID, "activate", StatusDraft, StatusActive)
}

func (s *Service) Complete(ctx context.Context, employerID, periodID string) (*Period, error) {
	return s.transition(ctx, employerID, periodID, "complete", StatusProcessing, StatusCompleted)
}

func (s *Service) Close(ctx context.Context, employerID, periodID string) (*Period, error) {
	return s.transition(ctx, employerID, periodID, "close", StatusCompleted, StatusClosed)
}

func (s *Service) transition(ctx context.Context, employerID, periodID, action string, from, to Status) (*Period, error) {
	moved, err := s.store.TransitionStatus(ctx, employerID, periodID, from, to)
	if err != nil {
		return nil, err
	}
	period, err := s.store.PeriodByID(ctx, employerID, periodID)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, transitionError(action, period.Status)
	}
	slog.Info("pay period transitioned", "id", periodID, "to", to)
	return period, nil
}

func (s *Service) Statistics(ctx context.Context, employerID, periodID string) (*Statistics, error) {
	if _, err := s.store.PeriodByID(ctx, employerID, periodID); err != nil {
		return nil, err
	}
	return s.store.PeriodStatistics(ctx, employerID, periodID)
}

func (s *Service) Transaction(ctx context.Context, employerID, txID string) (*Transaction, error) {
	return s.store.TransactionByID(ctx, employerID, txID)
}

// BackfillProviderRef records the provider's tracking id for the
// transaction matching a webhook's api_ref. The only mutation allowed after
// a transaction reaches a terminal status.
func (s *Service) BackfillProviderRef(ctx context.Context, reference, providerRef string) error {
	matched, err := s.store.BackfillProviderRef(ctx, reference, providerRef)
	if err != nil {
		return err
	}
	if !matched {
		return ErrTransactionNotFound
	}
	slog.Info("provider reference backfilled", "reference", reference)
	return nil
}
