package ports

import (
	"context"
	"time"

	"bibliotheque/contexts/identity-access/identity-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for users.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository persists users and their role assignments.
//
// GrantRole must join an ambient transaction carried by ctx when the runtime
// provides one, so a grant can commit atomically with another aggregate.
type Repository interface {
	CreateUser(ctx context.Context, user entities.User, initial entities.RoleAssignment) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	ListRoleAssignments(ctx context.Context, userID string) ([]entities.RoleAssignment, error)
	GrantRole(ctx context.Context, assignment entities.RoleAssignment) (bool, error)
}

// PasswordHasher hides the password hashing scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// TokenIssuer issues and verifies bearer tokens.
type TokenIssuer interface {
	Issue(subject string, email string, now time.Time) (string, time.Time, error)
	Verify(token string, now time.Time) (TokenClaims, error)
}
