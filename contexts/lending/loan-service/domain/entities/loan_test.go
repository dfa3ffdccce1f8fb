package entities

import (
	"testing"
	"time"

	"bibliotheque/kernel/workflow"
)

func openLoan(start time.Time, days int) Loan {
	return Loan{
		LoanID:     "l-1",
		WorkID:     "w-1",
		BorrowerID: "b-1",
		State:      StateOpen,
		StartedAt:  start,
		DueAt:      start.Add(time.Duration(days) * workflow.Day),
		Version:    1,
	}
}

func TestDerivedStatusAcrossLoanLifetime(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	loan := openLoan(start, 14)
	window := 72 * time.Hour

	cases := []struct {
		at        time.Time
		remaining int
		status    Status
	}{
		{start, 14, StatusOnTime},
		{start.Add(11 * workflow.Day), 3, StatusDueSoon},
		{start.Add(14 * workflow.Day), 0, StatusDueSoon},
		{start.Add(14*workflow.Day + time.Minute), 0, StatusOverdue},
		{start.Add(15 * workflow.Day), -1, StatusOverdue},
	}
	for _, tc := range cases {
		if got := loan.DaysRemaining(tc.at); got != tc.remaining {
			t.Fatalf("at %s: expected %d days remaining, got %d", tc.at, tc.remaining, got)
		}
		if got := loan.Status(tc.at, window); got != tc.status {
			t.Fatalf("at %s: expected status %s, got %s", tc.at, tc.status, got)
		}
	}
}

func TestReturnedLoanIsNeverOverdue(t *testing.T) {
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	loan := openLoan(start, 1)
	loan.State = StateReturned
	at := start.Add(30 * workflow.Day)
	if loan.IsOverdue(at) {
		t.Fatalf("expected returned loan not to be overdue")
	}
	view := loan.View(at, time.Hour)
	if view.Status != StatusReturned || view.DaysRemaining != 0 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Delay != 30*workflow.Day {
		t.Fatalf("expected 30 day delay, got %s", view.Delay)
	}
}

func TestPolicyNormalize(t *testing.T) {
	policy := Policy{MaxRenewals: -2}.Normalize()
	if policy != DefaultPolicy() {
		t.Fatalf("expected defaults, got %+v", policy)
	}
	if policy.RenewalsExhausted(50) {
		t.Fatalf("expected unbounded renewals")
	}
	if !(Policy{MaxRenewals: 2}).RenewalsExhausted(2) {
		t.Fatalf("expected cap of 2 to be exhausted")
	}
}
