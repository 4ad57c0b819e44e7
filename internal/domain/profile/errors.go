package profile

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrOwnerNotFound        = fmt.Errorf("owner %w", apperr.ErrProfileNotFound)
	ErrSitterProfileMissing = fmt.Errorf("sitter %w", apperr.ErrProfileNotFound)
	ErrSitterNotFound       = fmt.Errorf("sitter %w", apperr.ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("service %w", apperr.ErrNotFound)
	ErrAlreadySitter        = fmt.Errorf("user is already registered as a sitter: %w", apperr.ErrConflict)
	ErrInvalidLocation      = fmt.Errorf("invalid coordinates: %w", apperr.ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("price per day must be positive: %w", apperr.ErrValidation)
)
