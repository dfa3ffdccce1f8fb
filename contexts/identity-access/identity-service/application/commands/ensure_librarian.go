package commands

import (
	"context"
	"errors"
	"strings"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/kernel/workflow"
)

// EnsureLibrarianUseCase seeds the first librarian account at startup.
// Running it again for the same email only re-grants the role.
type EnsureLibrarianUseCase struct {
	Register RegisterUserUseCase
	Grant    GrantRoleUseCase
}

func (u EnsureLibrarianUseCase) Execute(ctx context.Context, email string, password string) (entities.User, error) {
	normalized, err := entities.NormalizeEmail(email)
	if err != nil {
		return entities.User{}, err
	}
	user, err := u.Register.Repository.GetUserByEmail(ctx, normalized)
	if errors.Is(err, domainerrors.ErrUserNotFound) {
		user, err = u.Register.Execute(ctx, RegisterUserCommand{
			Email:       normalized,
			Password:    password,
			DisplayName: strings.SplitN(normalized, "@", 2)[0],
		})
	}
	if err != nil {
		return entities.User{}, err
	}
	if _, err := u.Grant.Execute(ctx, GrantRoleCommand{
		UserID:    user.UserID,
		Role:      string(workflow.RoleLibrarian),
		GrantedBy: SystemActor,
	}); err != nil {
		return entities.User{}, err
	}
	return user, nil
}
