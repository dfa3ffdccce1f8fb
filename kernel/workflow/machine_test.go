package workflow

import (
	"errors"
	"testing"
	"time"
)

const (
	stateDraft    State = "draft"
	stateReady    State = "ready"
	stateArchived State = "archived"
)

func testMachine() *Machine {
	return NewMachine("document",
		Transition{Action: "prepare", From: []State{stateDraft}, To: stateReady, Roles: []Role{RoleLibrarian}},
		Transition{Action: "touch", From: []State{stateDraft, stateReady}},
		Transition{Action: "archive", From: []State{stateReady}, To: stateArchived, Roles: []Role{RoleMember, RoleLibrarian}},
	)
}

func TestFireAcceptsDeclaredTransition(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	step, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateDraft,
		Action:   "prepare",
		Actor:    Actor{ID: "lib-1", Roles: []Role{RoleMember, RoleLibrarian}},
		At:       at,
	})
	if err != nil {
		t.Fatalf("expected transition to succeed, got %v", err)
	}
	if step.To != stateReady || step.From != stateDraft {
		t.Fatalf("expected draft -> ready, got %s -> %s", step.From, step.To)
	}
	if step.Audit.EntityID != "doc-1" || step.Audit.ActorID != "lib-1" || !step.Audit.OccurredAt.Equal(at) {
		t.Fatalf("unexpected audit record: %+v", step.Audit)
	}
	if step.Audit.EntityKind != "document" || step.Audit.Action != "prepare" {
		t.Fatalf("unexpected audit identity: %+v", step.Audit)
	}
}

func TestFireRejectsMissingRole(t *testing.T) {
	_, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateDraft,
		Action:   "prepare",
		Actor:    Actor{ID: "member-1", Roles: []Role{RoleMember}},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestFireRejectsUndefinedSourceState(t *testing.T) {
	_, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateArchived,
		Action:   "archive",
		Actor:    Actor{ID: "member-1", Roles: []Role{RoleMember}},
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFireRejectsUnknownAction(t *testing.T) {
	_, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateDraft,
		Action:   "publish",
		Actor:    Actor{ID: "lib-1", Roles: []Role{RoleLibrarian}},
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestFireKeepsStateWhenTargetIsEmpty(t *testing.T) {
	step, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateReady,
		Action:   "touch",
		Actor:    Actor{ID: "anyone"},
	})
	if err != nil {
		t.Fatalf("expected self transition, got %v", err)
	}
	if step.To != stateReady {
		t.Fatalf("expected state to stay ready, got %s", step.To)
	}
}

func TestOpenRoleSetRequiresIdentifiedActor(t *testing.T) {
	_, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateReady,
		Action:   "touch",
		Actor:    Actor{},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for anonymous actor, got %v", err)
	}
}

func TestGuardErrorsArePreconditionFailures(t *testing.T) {
	plain := errors.New("quota exhausted")
	_, err := testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateDraft,
		Action:   "touch",
		Actor:    Actor{ID: "member-1"},
		Guards:   []Guard{func() error { return plain }},
	})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected precondition failed, got %v", err)
	}

	_, err = testMachine().Fire(Request{
		EntityID: "doc-1",
		From:     stateDraft,
		Action:   "touch",
		Actor:    Actor{ID: "member-1"},
		Guards:   []Guard{func() error { return ErrForbidden }},
	})
	if !errors.Is(err, ErrForbidden) || errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected classified guard error to pass through, got %v", err)
	}
}

func TestNewMachinePanicsOnDuplicateAction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate action")
		}
	}()
	NewMachine("broken",
		Transition{Action: "a", From: []State{stateDraft}},
		Transition{Action: "a", From: []State{stateReady}},
	)
}

func TestVersionConflictIsConflict(t *testing.T) {
	if !errors.Is(ErrVersionConflict, ErrConflict) {
		t.Fatalf("expected version conflict to classify as conflict")
	}
}

func TestDaysCeil(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int
	}{
		{14 * Day, 14},
		{13*Day + time.Hour, 14},
		{time.Minute, 1},
		{0, 0},
		{-Day, -1},
		{-Day - 12*time.Hour, -1},
		{-2 * Day, -2},
	}
	for _, tc := range cases {
		if got := DaysCeil(tc.in); got != tc.want {
			t.Fatalf("DaysCeil(%s): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestDelay(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := Delay(created, created.Add(36*time.Hour)); got != 36*time.Hour {
		t.Fatalf("expected 36h delay, got %s", got)
	}
	if got := Delay(created, created.Add(-time.Hour)); got != 0 {
		t.Fatalf("expected clamped delay, got %s", got)
	}
}

func TestCreationFiresFromInitialState(t *testing.T) {
	machine := NewMachine("document",
		Transition{Action: "create", From: []State{Initial}, To: stateDraft, Roles: []Role{RoleMember}},
	)
	step, err := machine.Fire(Request{
		EntityID: "doc-9",
		From:     Initial,
		Action:   "create",
		Actor:    Actor{ID: "member-1", Roles: []Role{RoleMember}},
	})
	if err != nil {
		t.Fatalf("expected creation to succeed, got %v", err)
	}
	if step.Audit.FromState != Initial || step.To != stateDraft {
		t.Fatalf("unexpected creation step %+v", step)
	}
	if !machine.Can(Initial, "create") || machine.Can(stateDraft, "create") {
		t.Fatalf("expected create to be allowed only from the initial state")
	}
}
