// Package workflow is the finite-state-machine substrate shared by the work,
// loan and promotion lifecycles.
//
// A Machine is declared once per entity kind as a table of transitions. Each
// transition names the states it may fire from, the state it leads to and the
// roles allowed to trigger it. Fire validates a requested action against that
// table and returns the resulting Step together with its audit record; callers
// persist the step atomically with an optimistic version check.
package workflow

import (
	"fmt"
	"strings"
	"time"
)

type State string

// Initial is the pseudo-state an entity is created from. Creation actions
// list it as their only source state.
const Initial State = ""

type Action string

// Transition is one row of a machine table. An empty To keeps the entity in
// the state it fired from. An empty Roles set admits any identified actor.
type Transition struct {
	Action Action
	From   []State
	To     State
	Roles  []Role
}

// Guard is an action-specific precondition evaluated after the table checks.
type Guard func() error

// Request describes an attempted transition on one entity.
type Request struct {
	EntityID string
	From     State
	Action   Action
	Actor    Actor
	At       time.Time
	Guards   []Guard
}

// Step is the outcome of an accepted transition.
type Step struct {
	From  State
	To    State
	Audit AuditRecord
}

type Machine struct {
	kind        string
	transitions map[Action]Transition
}

// NewMachine builds a machine for one entity kind. It panics on a malformed
// table since tables are package-level declarations.
func NewMachine(kind string, transitions ...Transition) *Machine {
	m := &Machine{
		kind:        kind,
		transitions: make(map[Action]Transition, len(transitions)),
	}
	for _, transition := range transitions {
		if strings.TrimSpace(string(transition.Action)) == "" {
			panic(fmt.Sprintf("workflow: %s transition without action", kind))
		}
		if len(transition.From) == 0 {
			panic(fmt.Sprintf("workflow: %s transition %q has no source state", kind, transition.Action))
		}
		if _, exists := m.transitions[transition.Action]; exists {
			panic(fmt.Sprintf("workflow: %s transition %q declared twice", kind, transition.Action))
		}
		m.transitions[transition.Action] = transition
	}
	return m
}

func (m *Machine) Kind() string {
	return m.kind
}

// Authorize checks the role table for action without looking at state.
func (m *Machine) Authorize(action Action, actor Actor) error {
	transition, ok := m.transitions[action]
	if !ok {
		return fmt.Errorf("%w: %s does not support action %q", ErrInvalidTransition, m.kind, action)
	}
	if !actor.HasAny(transition.Roles...) {
		return fmt.Errorf("%w: action %q on %s requires role %s", ErrForbidden, action, m.kind, joinRoles(transition.Roles))
	}
	return nil
}

// Can reports whether action is defined from state.
func (m *Machine) Can(from State, action Action) bool {
	transition, ok := m.transitions[action]
	if !ok {
		return false
	}
	return transition.allows(from)
}

// Fire validates req against the table and returns the resulting step.
func (m *Machine) Fire(req Request) (Step, error) {
	if err := m.Authorize(req.Action, req.Actor); err != nil {
		return Step{}, err
	}
	transition := m.transitions[req.Action]
	if !transition.allows(req.From) {
		return Step{}, fmt.Errorf("%w: %s cannot %q from state %q", ErrInvalidTransition, m.kind, req.Action, req.From)
	}
	for _, guard := range req.Guards {
		if guard == nil {
			continue
		}
		if err := guard(); err != nil {
			if Classified(err) {
				return Step{}, err
			}
			return Step{}, fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
		}
	}

	to := transition.To
	if to == "" {
		to = req.From
	}
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}
	return Step{
		From: req.From,
		To:   to,
		Audit: AuditRecord{
			EntityKind: m.kind,
			EntityID:   req.EntityID,
			Action:     req.Action,
			FromState:  req.From,
			ToState:    to,
			ActorID:    req.Actor.ID,
			OccurredAt: at.UTC(),
		},
	}, nil
}

func (t Transition) allows(from State) bool {
	for _, state := range t.From {
		if state == from {
			return true
		}
	}
	return false
}

func joinRoles(roles []Role) string {
	if len(roles) == 0 {
		return "any"
	}
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, string(role))
	}
	return strings.Join(parts, "|")
}
