package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"paykey/internal/domain/payroll"
	"paykey/internal/faults"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.Year() != 2024 || parsed.Day() != 15 {
		t.Fatalf("unexpected date: %v", parsed)
	}

	empty, err := ParseDate("")
	if err != nil || !empty.IsZero() {
		t.Fatalf("empty date should parse to zero, got %v, %v", empty, err)
	}

	if _, err := ParseDate("15/06/2024"); err == nil {
		t.Fatal("expected error for wrong format")
	}
}

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &faults.ValidationError{Field: "workerIds", Reason: "must not be empty"}, http.StatusBadRequest},
		{"state", &faults.StateError{Transition: "process", Current: "DRAFT"}, http.StatusConflict},
		{"external", &faults.ExternalServiceError{Op: "send-money"}, http.StatusBadGateway},
		{"not found", payroll.ErrPeriodNotFound, http.StatusNotFound},
		{"integrity", &faults.DataIntegrityError{Detail: "totals mismatch"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		WriteError(rec, req, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
