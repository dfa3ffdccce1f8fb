package entities

import (
	"strings"
	"time"

	"bibliotheque/kernel/workflow"
)

const EntityKind = "loan"

const (
	StateOpen     workflow.State = "open"
	StateReturned workflow.State = "returned"
)

const (
	ActionBorrow workflow.Action = "borrow"
	ActionRenew  workflow.Action = "renew"
	ActionReturn workflow.Action = "return"
)

// Machine is the loan table. Renewing keeps the loan open; ownership of
// renew and return is checked by guards.
var Machine = workflow.NewMachine(EntityKind,
	workflow.Transition{
		Action: ActionBorrow,
		From:   []workflow.State{workflow.Initial},
		To:     StateOpen,
		Roles:  []workflow.Role{workflow.RoleMember},
	},
	workflow.Transition{
		Action: ActionRenew,
		From:   []workflow.State{StateOpen},
		Roles:  []workflow.Role{workflow.RoleMember, workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionReturn,
		From:   []workflow.State{StateOpen},
		To:     StateReturned,
		Roles:  []workflow.Role{workflow.RoleMember, workflow.RoleLibrarian},
	},
)

// Status is the derived condition of a loan at a given instant.
type Status string

const (
	StatusOnTime   Status = "on_time"
	StatusDueSoon  Status = "due_soon"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

type Loan struct {
	LoanID       string         `json:"loan_id"`
	WorkID       string         `json:"work_id"`
	WorkTitle    string         `json:"work_title"`
	BorrowerID   string         `json:"borrower_id"`
	State        workflow.State `json:"state"`
	StartedAt    time.Time      `json:"started_at"`
	DueAt        time.Time      `json:"due_at"`
	ReturnedAt   *time.Time     `json:"returned_at,omitempty"`
	RenewalCount int            `json:"renewal_count"`
	Version      int64          `json:"version"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (l Loan) IsOpen() bool {
	return l.State == StateOpen
}

func (l Loan) IsBorrowedBy(userID string) bool {
	return strings.TrimSpace(userID) != "" && l.BorrowerID == userID
}

// DaysRemaining is ceil((due - now) / 24h). It goes negative once the loan
// is overdue.
func (l Loan) DaysRemaining(now time.Time) int {
	return workflow.DaysCeil(l.DueAt.Sub(now))
}

func (l Loan) IsOverdue(now time.Time) bool {
	return l.IsOpen() && now.After(l.DueAt)
}

func (l Loan) Status(now time.Time, dueSoonWindow time.Duration) Status {
	if !l.IsOpen() {
		return StatusReturned
	}
	remaining := l.DueAt.Sub(now)
	switch {
	case remaining < 0:
		return StatusOverdue
	case remaining <= dueSoonWindow:
		return StatusDueSoon
	default:
		return StatusOnTime
	}
}

func (l Loan) Delay(now time.Time) time.Duration {
	return workflow.Delay(l.StartedAt, now)
}

// View is a loan together with the fields derived at read time.
type View struct {
	Loan
	DaysRemaining int
	Status        Status
	Delay         time.Duration
}

func (l Loan) View(now time.Time, dueSoonWindow time.Duration) View {
	view := View{
		Loan:   l,
		Status: l.Status(now, dueSoonWindow),
		Delay:  l.Delay(now),
	}
	if l.IsOpen() {
		view.DaysRemaining = l.DaysRemaining(now)
	}
	return view
}
