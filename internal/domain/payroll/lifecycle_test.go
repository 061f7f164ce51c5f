package payroll

import "testing"

func TestTransitionTable(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusDraft, StatusActive},
		{StatusActive, StatusProcessing},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusClosed},
		{StatusCompleted, StatusClosed},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusDraft, StatusProcessing},
		{StatusDraft, StatusClosed},
		{StatusActive, StatusDraft},
		{StatusActive, StatusCompleted},
		{StatusProcessing, StatusDraft},
		{StatusClosed, StatusActive},
		{StatusClosed, StatusDraft},
		{StatusCompleted, StatusProcessing},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	for _, to := range []Status{StatusDraft, StatusActive, StatusProcessing, StatusCompleted, StatusClosed} {
		if CanTransition(StatusClosed, to) {
			t.Fatalf("CLOSED must not transition to %s", to)
		}
	}
}

func TestTransitionError(t *testing.T) {
	err := transitionError("process", StatusDraft)
	if err.Transition != "process" || err.Current != "DRAFT" {
		t.Fatalf("unexpected state error: %+v", err)
	}
	if err.Error() == "" {
		t.Fatal("expected error message")
	}
}
