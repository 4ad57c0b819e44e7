package discovery

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrInvalidCoordinates = fmt.Errorf("invalid coordinates: %w", apperr.ErrValidation)
	ErrInvalidRadius      = fmt.Errorf("radius must be positive and at most 100km: %w", apperr.ErrValidation)
	ErrEmptyArea          = fmt.Errorf("area must not be empty: %w", apperr.ErrValidation)
)
