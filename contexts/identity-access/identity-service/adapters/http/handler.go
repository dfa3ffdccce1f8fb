package httpadapter

import (
	"context"
	"log/slog"

	application "bibliotheque/contexts/identity-access/identity-service/application"
	"bibliotheque/contexts/identity-access/identity-service/application/commands"
	"bibliotheque/contexts/identity-access/identity-service/application/queries"
	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
	httptransport "bibliotheque/contexts/identity-access/identity-service/transport/http"
	"bibliotheque/kernel/workflow"
)

// Handler maps HTTP DTOs to identity commands and queries.
type Handler struct {
	Register      commands.RegisterUserUseCase
	Login         commands.LoginUseCase
	Refresh       commands.RefreshTokenUseCase
	GrantRole     commands.GrantRoleUseCase
	ResolveCaller queries.ResolveCallerUseCase
	ListRoles     queries.ListUserRolesUseCase
	Logger        *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, request httptransport.RegisterRequest) (httptransport.RegisterResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	user, err := h.Register.Execute(ctx, commands.RegisterUserCommand{
		Email:       request.Email,
		Password:    request.Password,
		DisplayName: request.DisplayName,
	})
	if err != nil {
		logger.Warn("http register failed",
			"event", "identity_http_register_failed",
			"module", "identity-access/identity-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{
		User:  toUserDTO(user),
		Roles: []string{string(workflow.RoleMember)},
	}, nil
}

func (h Handler) LoginHandler(ctx context.Context, request httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	result, err := h.Login.Execute(ctx, commands.LoginCommand{
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        toUserDTO(result.User),
	}, nil
}

func (h Handler) RefreshHandler(ctx context.Context, token string) (httptransport.LoginResponse, error) {
	result, err := h.Refresh.Execute(ctx, token)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        toUserDTO(result.User),
	}, nil
}

// ResolveCallerHandler is used by the HTTP server to authenticate every
// protected request.
func (h Handler) ResolveCallerHandler(ctx context.Context, token string) (entities.Caller, error) {
	return h.ResolveCaller.Execute(ctx, token)
}

func (h Handler) MeHandler(caller entities.Caller) httptransport.CallerResponse {
	roles := make([]string, 0, len(caller.Roles))
	for _, role := range caller.Roles {
		roles = append(roles, string(role))
	}
	return httptransport.CallerResponse{
		UserID:      caller.UserID,
		Email:       caller.Email,
		DisplayName: caller.DisplayName,
		Roles:       roles,
	}
}

func (h Handler) GrantRoleHandler(
	ctx context.Context,
	actorID string,
	userID string,
	request httptransport.GrantRoleRequest,
) (httptransport.GrantRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http grant role received",
		"event", "identity_http_grant_role_received",
		"module", "identity-access/identity-service",
		"layer", "transport",
		"actor_id", actorID,
		"user_id", userID,
		"role", request.Role,
	)
	result, err := h.GrantRole.Execute(ctx, commands.GrantRoleCommand{
		UserID:    userID,
		Role:      request.Role,
		GrantedBy: actorID,
	})
	if err != nil {
		return httptransport.GrantRoleResponse{}, err
	}
	return httptransport.GrantRoleResponse{
		Assignment: toAssignmentDTO(result.Assignment),
		Created:    result.Created,
	}, nil
}

func (h Handler) ListUserRolesHandler(ctx context.Context, userID string) (httptransport.ListUserRolesResponse, error) {
	items, err := h.ListRoles.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListUserRolesResponse{}, err
	}
	roles := make([]httptransport.RoleAssignmentDTO, 0, len(items))
	for _, item := range items {
		roles = append(roles, toAssignmentDTO(item))
	}
	return httptransport.ListUserRolesResponse{UserID: userID, Roles: roles}, nil
}

func toUserDTO(user entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

func toAssignmentDTO(item entities.RoleAssignment) httptransport.RoleAssignmentDTO {
	return httptransport.RoleAssignmentDTO{
		UserID:    item.UserID,
		Role:      string(item.Role),
		GrantedBy: item.GrantedBy,
		GrantedAt: item.GrantedAt,
	}
}
