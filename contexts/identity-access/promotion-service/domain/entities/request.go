package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"bibliotheque/kernel/workflow"
)

const EntityKind = "promotion_request"

const (
	MinMotivationRunes = 10
	MinRefusalRunes    = 5
)

const (
	StatePending   workflow.State = "pending"
	StateApproved  workflow.State = "approved"
	StateRefused   workflow.State = "refused"
	StateCancelled workflow.State = "cancelled"
)

const (
	ActionSubmit  workflow.Action = "submit"
	ActionCancel  workflow.Action = "cancel"
	ActionApprove workflow.Action = "approve"
	ActionRefuse  workflow.Action = "refuse"
)

// Machine is the promotion table. Every decision leaves pending for good.
var Machine = workflow.NewMachine(EntityKind,
	workflow.Transition{
		Action: ActionSubmit,
		From:   []workflow.State{workflow.Initial},
		To:     StatePending,
		Roles:  []workflow.Role{workflow.RoleMember},
	},
	workflow.Transition{
		Action: ActionCancel,
		From:   []workflow.State{StatePending},
		To:     StateCancelled,
		Roles:  []workflow.Role{workflow.RoleMember},
	},
	workflow.Transition{
		Action: ActionApprove,
		From:   []workflow.State{StatePending},
		To:     StateApproved,
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionRefuse,
		From:   []workflow.State{StatePending},
		To:     StateRefused,
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
)

func ParseState(raw string) (workflow.State, bool) {
	switch state := workflow.State(strings.ToLower(strings.TrimSpace(raw))); state {
	case StatePending, StateApproved, StateRefused, StateCancelled:
		return state, true
	default:
		return "", false
	}
}

type Request struct {
	RequestID    string         `json:"request_id"`
	RequesterID  string         `json:"requester_id"`
	Motivation   string         `json:"motivation"`
	State        workflow.State `json:"state"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	DecidedAt    *time.Time     `json:"decided_at,omitempty"`
	DecidedBy    string         `json:"decided_by,omitempty"`
	RefusalMotif string         `json:"refusal_motif,omitempty"`
	Version      int64          `json:"version"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (r Request) IsPending() bool {
	return r.State == StatePending
}

// IsDecided reports whether a librarian approved or refused the request.
func (r Request) IsDecided() bool {
	return r.State == StateApproved || r.State == StateRefused
}

func (r Request) Delay(now time.Time) time.Duration {
	return workflow.Delay(r.SubmittedAt, now)
}

// ProcessingTime is the time a decided request waited for its decision.
func (r Request) ProcessingTime() (time.Duration, bool) {
	if !r.IsDecided() || r.DecidedAt == nil {
		return 0, false
	}
	return workflow.Delay(r.SubmittedAt, *r.DecidedAt), true
}

// LongEnough reports whether the trimmed text holds at least min runes.
func LongEnough(text string, minimum int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= minimum
}
