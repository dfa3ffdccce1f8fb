package entities

import (
	"errors"
	"testing"

	"bibliotheque/kernel/workflow"
)

func TestMachineNeverSkipsReview(t *testing.T) {
	librarian := workflow.Actor{ID: "lib-1", Roles: []workflow.Role{workflow.RoleMember, workflow.RoleLibrarian}}
	for _, action := range []workflow.Action{ActionValidate, ActionReject} {
		_, err := Machine.Fire(workflow.Request{EntityID: "w-1", From: StateSubmitted, Action: action, Actor: librarian})
		if !errors.Is(err, workflow.ErrInvalidTransition) {
			t.Fatalf("expected %s from submitted to be invalid, got %v", action, err)
		}
	}
}

func TestMachineTerminalStatesAcceptNothing(t *testing.T) {
	librarian := workflow.Actor{ID: "lib-1", Roles: []workflow.Role{workflow.RoleLibrarian}}
	actions := []workflow.Action{ActionStartReview, ActionValidate, ActionReject, ActionReconvert, ActionClassify}
	for _, state := range []workflow.State{StateValidated, StateRejected} {
		for _, action := range actions {
			if Machine.Can(state, action) {
				t.Fatalf("expected %s to be impossible from %s", action, state)
			}
			_, err := Machine.Fire(workflow.Request{EntityID: "w-1", From: state, Action: action, Actor: librarian})
			if !errors.Is(err, workflow.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition for %s from %s, got %v", action, state, err)
			}
		}
	}
}

func TestParseDestination(t *testing.T) {
	if got, ok := ParseDestination(" Fond_Commun "); !ok || got != DestinationFondCommun {
		t.Fatalf("expected fond_commun, got %q %v", got, ok)
	}
	if _, ok := ParseDestination("archive"); ok {
		t.Fatalf("expected unknown destination to be rejected")
	}
}

func TestParseCategoriesOrdersAndReportsUnknown(t *testing.T) {
	known, unknown := ParseCategories([]string{"video_sf", "LIVRE_BD", "LIVRE_BD", "POESIE"})
	if len(known) != 2 || known[0] != "LIVRE_BD" || known[1] != "VIDEO_SF" {
		t.Fatalf("expected LIVRE_BD then VIDEO_SF, got %v", known)
	}
	if len(unknown) != 1 || unknown[0] != "POESIE" {
		t.Fatalf("expected POESIE to be reported, got %v", unknown)
	}
}
