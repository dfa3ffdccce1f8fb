package queries

import (
	"context"
	"strings"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/ports"
)

type ListUserRolesUseCase struct {
	Repository ports.Repository
}

func (u ListUserRolesUseCase) Execute(ctx context.Context, userID string) ([]entities.RoleAssignment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidUserID
	}
	if _, err := u.Repository.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return u.Repository.ListRoleAssignments(ctx, userID)
}
