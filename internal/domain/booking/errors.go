package booking

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrBookingNotFound     = fmt.Errorf("booking %w", apperr.ErrNotFound)
	ErrNotBookingParty     = fmt.Errorf("booking belongs to other parties: %w", apperr.ErrUnauthorized)
	ErrNotBookingSitter    = fmt.Errorf("only the booked sitter can accept: %w", apperr.ErrUnauthorized)
	ErrNotBookingOwner     = fmt.Errorf("only the booking owner can review: %w", apperr.ErrUnauthorized)
	ErrAlreadyAccepted     = fmt.Errorf("booking already accepted: %w", apperr.ErrConflict)
	ErrNotAccepted         = fmt.Errorf("booking has not been accepted: %w", apperr.ErrConflict)
	ErrDuplicateCode       = fmt.Errorf("booking code already used: %w", apperr.ErrConflict)
	ErrInvalidBooking      = fmt.Errorf("sitter_id, service_id and a positive total_price are required: %w", apperr.ErrValidation)
	ErrSelfBooking         = fmt.Errorf("cannot book yourself: %w", apperr.ErrValidation)
	ErrNoActiveService     = fmt.Errorf("sitter has no active service: %w", apperr.ErrValidation)
	ErrServiceNotOffered   = fmt.Errorf("service is not an active service of this sitter: %w", apperr.ErrValidation)
	ErrInvalidRating       = fmt.Errorf("rating must be between 1 and 5: %w", apperr.ErrValidation)
	ErrInvalidStatusFilter = fmt.Errorf("status must be all, pending or accepted: %w", apperr.ErrValidation)
)
