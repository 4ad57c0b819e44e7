package chat

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrChannelNotFound = fmt.Errorf("channel %w", apperr.ErrNotFound)
	ErrChannelExists   = fmt.Errorf("channel already exists: %w", apperr.ErrConflict)
	ErrInvalidMembers  = fmt.Errorf("a booking channel needs exactly two distinct members: %w", apperr.ErrValidation)
)
