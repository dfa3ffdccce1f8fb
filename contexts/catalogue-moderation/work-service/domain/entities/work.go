package entities

import (
	"strings"
	"time"

	"bibliotheque/kernel/workflow"
)

const EntityKind = "work"

const (
	StateSubmitted workflow.State = "submitted"
	StateInReview  workflow.State = "in_review"
	StateValidated workflow.State = "validated"
	StateRejected  workflow.State = "rejected"
)

const (
	ActionSubmit      workflow.Action = "submit"
	ActionStartReview workflow.Action = "start_review"
	ActionValidate    workflow.Action = "validate"
	ActionReject      workflow.Action = "reject"
	ActionReconvert   workflow.Action = "reconvert"
	ActionClassify    workflow.Action = "classify"
)

type Destination string

const (
	DestinationFondCommun Destination = "fond_commun"
	DestinationSequestre  Destination = "sequestre"
)

func ParseDestination(raw string) (Destination, bool) {
	switch Destination(strings.ToLower(strings.TrimSpace(raw))) {
	case DestinationFondCommun:
		return DestinationFondCommun, true
	case DestinationSequestre:
		return DestinationSequestre, true
	default:
		return "", false
	}
}

func ParseState(raw string) (workflow.State, bool) {
	switch state := workflow.State(strings.ToLower(strings.TrimSpace(raw))); state {
	case StateSubmitted, StateInReview, StateValidated, StateRejected:
		return state, true
	default:
		return "", false
	}
}

// Machine is the moderation table. Nothing leaves validated or rejected, and
// no action reaches a decision without passing through review.
var Machine = workflow.NewMachine(EntityKind,
	workflow.Transition{
		Action: ActionSubmit,
		From:   []workflow.State{workflow.Initial},
		To:     StateSubmitted,
		Roles:  []workflow.Role{workflow.RoleMember},
	},
	workflow.Transition{
		Action: ActionStartReview,
		From:   []workflow.State{StateSubmitted},
		To:     StateInReview,
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionValidate,
		From:   []workflow.State{StateInReview},
		To:     StateValidated,
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionReject,
		From:   []workflow.State{StateInReview},
		To:     StateRejected,
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionReconvert,
		From:   []workflow.State{StateSubmitted, StateInReview},
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
	workflow.Transition{
		Action: ActionClassify,
		From:   []workflow.State{StateSubmitted, StateInReview},
		Roles:  []workflow.Role{workflow.RoleLibrarian},
	},
)

type Work struct {
	WorkID          string         `json:"work_id"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	Content         string         `json:"content"`
	SubmitterID     string         `json:"submitter_id"`
	State           workflow.State `json:"state"`
	Destination     Destination    `json:"destination,omitempty"`
	Categories      []Category     `json:"categories,omitempty"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	ReviewStartedAt *time.Time     `json:"review_started_at,omitempty"`
	DecidedAt       *time.Time     `json:"decided_at,omitempty"`
	DecidedBy       string         `json:"decided_by,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Version         int64          `json:"version"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (w Work) IsTerminal() bool {
	return w.State == StateValidated || w.State == StateRejected
}

// IsLendable reports whether the work is published in a collection.
func (w Work) IsLendable() bool {
	return w.State == StateValidated
}

func (w Work) HasCategory(category Category) bool {
	for _, item := range w.Categories {
		if item == category {
			return true
		}
	}
	return false
}

func (w Work) Delay(now time.Time) time.Duration {
	return workflow.Delay(w.SubmittedAt, now)
}

// Count is the number of works sharing one state and destination.
type Count struct {
	State       workflow.State
	Destination Destination
	Works       int
}
