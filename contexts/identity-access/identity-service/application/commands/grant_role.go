package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
	"bibliotheque/contexts/identity-access/identity-service/ports"
	"bibliotheque/kernel/workflow"
)

// GrantRoleCommand contains transport-agnostic input for role assignment.
type GrantRoleCommand struct {
	UserID    string
	Role      string
	GrantedBy string
}

// GrantRoleResult reports the assignment and whether it was newly created.
type GrantRoleResult struct {
	Assignment entities.RoleAssignment `json:"assignment"`
	Created    bool                    `json:"created"`
}

// GrantRoleUseCase assigns a role to a user. Granting a role the user already
// holds succeeds without writing.
type GrantRoleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u GrantRoleUseCase) Execute(ctx context.Context, cmd GrantRoleCommand) (GrantRoleResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Info("grant role started",
		"event", "identity_grant_role_started",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", cmd.UserID,
		"granted_by", cmd.GrantedBy,
		"role", cmd.Role,
	)

	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return GrantRoleResult{}, domainerrors.ErrInvalidUserID
	}
	role, ok := workflow.ParseRole(cmd.Role)
	if !ok {
		return GrantRoleResult{}, domainerrors.ErrInvalidRole
	}
	grantedBy := strings.TrimSpace(cmd.GrantedBy)
	if grantedBy == "" {
		return GrantRoleResult{}, domainerrors.ErrForbidden
	}
	if err := ensureActorIsLibrarian(ctx, u.Repository, grantedBy); err != nil {
		return GrantRoleResult{}, err
	}
	if _, err := u.Repository.GetUser(ctx, userID); err != nil {
		return GrantRoleResult{}, err
	}

	assignment := entities.RoleAssignment{
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
		GrantedAt: u.now(),
	}
	created, err := u.Repository.GrantRole(ctx, assignment)
	if err != nil {
		logger.Error("grant role write failed",
			"event", "identity_grant_role_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", userID,
			"granted_by", grantedBy,
			"role", string(role),
			"error", err.Error(),
		)
		return GrantRoleResult{}, err
	}

	logger.Info("grant role completed",
		"event", "identity_grant_role_completed",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", userID,
		"granted_by", grantedBy,
		"role", string(role),
		"created", created,
	)
	return GrantRoleResult{Assignment: assignment, Created: created}, nil
}

func (u GrantRoleUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
