package commands

import (
	"context"

	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/domain/services"
	"bibliotheque/contexts/identity-access/identity-service/ports"
	"bibliotheque/kernel/workflow"
)

// SystemActor grants roles without a human grantor (bootstrap seeding).
const SystemActor = "system"

func ensureActorIsLibrarian(ctx context.Context, repository ports.Repository, actorID string) error {
	if actorID == SystemActor {
		return nil
	}
	assignments, err := repository.ListRoleAssignments(ctx, actorID)
	if err != nil {
		return err
	}
	for _, role := range services.EffectiveRoles(assignments) {
		if role == workflow.RoleLibrarian {
			return nil
		}
	}
	return domainerrors.ErrForbidden
}
