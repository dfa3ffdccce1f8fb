package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	"bibliotheque/contexts/identity-access/identity-service/ports"
	"bibliotheque/kernel/workflow"
)

type RegisterUserCommand struct {
	Email       string
	Password    string
	DisplayName string
}

// RegisterUserUseCase creates a member account.
type RegisterUserUseCase struct {
	Repository  ports.Repository
	Hasher      ports.PasswordHasher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	email, err := entities.NormalizeEmail(cmd.Email)
	if err != nil {
		return entities.User{}, err
	}
	if err := entities.ValidatePassword(cmd.Password); err != nil {
		return entities.User{}, err
	}
	hash, err := u.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.User{}, err
	}
	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.User{}, err
	}

	now := u.now()
	displayName := strings.TrimSpace(cmd.DisplayName)
	if displayName == "" {
		displayName = email
	}
	user := entities.User{
		UserID:       userID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := u.Repository.CreateUser(ctx, user, entities.RoleAssignment{
		UserID:    userID,
		Role:      workflow.RoleMember,
		GrantedBy: SystemActor,
		GrantedAt: now,
	}); err != nil {
		logger.Warn("register user failed",
			"event", "identity_register_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"email", email,
			"error", err.Error(),
		)
		return entities.User{}, err
	}

	logger.Info("user registered",
		"event", "identity_user_registered",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", userID,
	)
	return user, nil
}

func (u RegisterUserUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
