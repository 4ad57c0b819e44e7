package notification

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrNotFound     = fmt.Errorf("notification %w", apperr.ErrNotFound)
	ErrInvalidType  = fmt.Errorf("unknown notification type: %w", apperr.ErrValidation)
	ErrInvalidInput = fmt.Errorf("notification needs a user and content: %w", apperr.ErrValidation)
)
