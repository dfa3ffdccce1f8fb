package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/ports"
)

// RefreshTokenUseCase exchanges a token that still verifies for a fresh one.
// The user must still exist; roles are not embedded in tokens, so nothing
// else is carried over.
type RefreshTokenUseCase struct {
	Repository ports.Repository
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u RefreshTokenUseCase) Execute(ctx context.Context, token string) (LoginResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(token) == "" {
		return LoginResult{}, domainerrors.ErrInvalidToken
	}
	now := u.now()
	claims, err := u.Tokens.Verify(token, now)
	if err != nil {
		return LoginResult{}, domainerrors.ErrInvalidToken
	}
	user, err := u.Repository.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return LoginResult{}, domainerrors.ErrInvalidToken
		}
		return LoginResult{}, err
	}

	fresh, expiresAt, err := u.Tokens.Issue(user.UserID, user.Email, now)
	if err != nil {
		return LoginResult{}, err
	}
	logger.Info("token refreshed",
		"event", "identity_token_refreshed",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", user.UserID,
	)
	return LoginResult{User: user, Token: fresh, ExpiresAt: expiresAt}, nil
}

func (u RefreshTokenUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
