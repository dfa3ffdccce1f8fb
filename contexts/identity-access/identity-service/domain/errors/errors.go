package errors

import (
	"fmt"

	"bibliotheque/kernel/workflow"
)

var (
	ErrInvalidEmail        = fmt.Errorf("%w: a valid email is required", workflow.ErrValidation)
	ErrWeakPassword        = fmt.Errorf("%w: password must contain at least 8 characters", workflow.ErrValidation)
	ErrInvalidUserID       = fmt.Errorf("%w: invalid user id", workflow.ErrValidation)
	ErrInvalidRole         = fmt.Errorf("%w: unknown role", workflow.ErrValidation)
	ErrEmailTaken          = fmt.Errorf("%w: email already registered", workflow.ErrConflict)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", workflow.ErrNotFound)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", workflow.ErrUnauthorized)
	ErrInvalidToken        = fmt.Errorf("%w: invalid or expired token", workflow.ErrUnauthorized)
	ErrForbidden           = fmt.Errorf("%w: librarian role required", workflow.ErrForbidden)
	ErrTokenSecretRequired = fmt.Errorf("%w: token secret is required", workflow.ErrValidation)
)
