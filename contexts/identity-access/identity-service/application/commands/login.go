package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/ports"
)

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	User      entities.User
	Token     string
	ExpiresAt time.Time
}

// LoginUseCase exchanges credentials for a bearer token.
type LoginUseCase struct {
	Repository ports.Repository
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	logger := application.ResolveLogger(u.Logger)

	email, err := entities.NormalizeEmail(cmd.Email)
	if err != nil {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}
	user, err := u.Repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return LoginResult{}, domainerrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := u.Hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		logger.Warn("login rejected",
			"event", "identity_login_rejected",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
		)
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := u.Tokens.Issue(user.UserID, user.Email, u.now())
	if err != nil {
		return LoginResult{}, err
	}
	logger.Info("login succeeded",
		"event", "identity_login_succeeded",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (u LoginUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
