package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/domain/services"
	"bibliotheque/contexts/identity-access/identity-service/ports"
)

// ResolveCallerUseCase turns a bearer token into a caller with its current
// role set.
type ResolveCallerUseCase struct {
	Repository ports.Repository
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u ResolveCallerUseCase) Execute(ctx context.Context, token string) (entities.Caller, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(token) == "" {
		return entities.Caller{}, domainerrors.ErrInvalidToken
	}

	claims, err := u.Tokens.Verify(token, u.now())
	if err != nil {
		logger.Debug("token verification failed",
			"event", "identity_token_rejected",
			"module", "identity-access/identity-service",
			"layer", "application",
			"error", err.Error(),
		)
		return entities.Caller{}, domainerrors.ErrInvalidToken
	}

	user, err := u.Repository.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return entities.Caller{}, domainerrors.ErrInvalidToken
		}
		return entities.Caller{}, err
	}
	assignments, err := u.Repository.ListRoleAssignments(ctx, user.UserID)
	if err != nil {
		return entities.Caller{}, err
	}
	return entities.Caller{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       services.EffectiveRoles(assignments),
	}, nil
}

func (u ResolveCallerUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
