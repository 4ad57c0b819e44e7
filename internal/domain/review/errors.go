package review

import (
	"fmt"

	"petsitter/internal/pkg/apperr"
)

var (
	ErrReviewNotFound  = fmt.Errorf("review %w", apperr.ErrNotFound)
	ErrNotReviewSitter = fmt.Errorf("review belongs to another sitter: %w", apperr.ErrUnauthorized)
	ErrAlreadyReplied  = fmt.Errorf("review already has a reply: %w", apperr.ErrConflict)
	ErrEmptyReply      = fmt.Errorf("reply text is required: %w", apperr.ErrValidation)
	ErrDuplicateReview = fmt.Errorf("booking already reviewed: %w", apperr.ErrConflict)
)
