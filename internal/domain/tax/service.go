package tax

import (
	"context"
	"log/slog"

	"paykey/internal/faults"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) CreateTable(ctx context.Context, table Table) (string, error) {
	if err := table.Validate(); err != nil {
		return "", &faults.ValidationError{Field: "taxTable", Reason: err.Error()}
	}
	id, err := s.store.InsertTable(ctx, table)
	if err != nil {
		return "", err
	}
	slog.Info("tax table created", "id", id, "effectiveFrom", table.EffectiveFrom.Format("2006-01-02"))
	return id, nil
}

func (s *Service) ListTables(ctx context.Context) ([]Table, error) {
	return s.store.ListTables(ctx)
}

func (s *Service) Submissions(ctx context.Context, employerID string) ([]Submission, error) {
	return s.store.ListSubmissions(ctx, employerID)
}

// MarkFiled records that a PENDING submission was remitted to the authority.
func (s *Service) MarkFiled(ctx context.Context, employerID, submissionID string) error {
	if err := s.store.MarkFiled(ctx, employerID, submissionID); err != nil {
		return err
	}
	slog.Info("tax submission filed", "id", submissionID)
	return nil
}
