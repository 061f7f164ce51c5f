package shared

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"paykey/internal/domain/payroll"
	"paykey/internal/domain/tax"
	"paykey/internal/domain/workers"
	"paykey/internal/faults"
	"paykey/internal/transport/http/api"
	"paykey/internal/transport/http/middleware"
)

func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return parsed, nil
}

// WriteError maps the domain error taxonomy onto HTTP statuses: validation
// and malformed input to 400, missing entities to 404, lifecycle conflicts
// to 409, gateway trouble to 502, everything else to 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var verr *faults.ValidationError
	if errors.As(err, &verr) {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", verr.Reason, map[string]string{"field": verr.Field}, requestID)
		return
	}

	var serr *faults.StateError
	if errors.As(err, &serr) {
		api.FailWithDetails(w, http.StatusConflict, "invalid_state", serr.Error(), map[string]string{
			"transition": serr.Transition,
			"current":    serr.Current,
		}, requestID)
		return
	}

	var eerr *faults.ExternalServiceError
	if errors.As(err, &eerr) {
		api.Fail(w, http.StatusBadGateway, "gateway_error", eerr.Error(), requestID)
		return
	}

	switch {
	case errors.Is(err, payroll.ErrPeriodNotFound),
		errors.Is(err, payroll.ErrTransactionNotFound),
		errors.Is(err, workers.ErrWorkerNotFound),
		errors.Is(err, tax.ErrSubmissionNotFound),
		errors.Is(err, tax.ErrTableNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
