package workflow

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every lifecycle. Context-level sentinels wrap one
// of these so transports can classify failures with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrConversionFailed   = errors.New("conversion failed")

	// ErrVersionConflict reports a write against a stale entity version.
	ErrVersionConflict = fmt.Errorf("%w: entity was modified concurrently", ErrConflict)
)

var taxonomy = []error{
	ErrValidation,
	ErrUnauthorized,
	ErrForbidden,
	ErrInvalidTransition,
	ErrPreconditionFailed,
	ErrConflict,
	ErrNotFound,
	ErrConversionFailed,
}

// Classified reports whether err already belongs to the taxonomy.
func Classified(err error) bool {
	for _, target := range taxonomy {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
