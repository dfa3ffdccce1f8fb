package httptransport

import "time"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RegisterResponse struct {
	User  UserDTO  `json:"user"`
	Roles []string `json:"roles"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// CallerResponse describes the identity behind a bearer token.
type CallerResponse struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

type GrantRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member librarian"`
}

type RoleAssignmentDTO struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

type GrantRoleResponse struct {
	Assignment RoleAssignmentDTO `json:"assignment"`
	Created    bool              `json:"created"`
}

type ListUserRolesResponse struct {
	UserID string              `json:"user_id"`
	Roles  []RoleAssignmentDTO `json:"roles"`
}
