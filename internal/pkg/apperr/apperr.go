package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petsitter/internal/pkg/response"
)

// Client-facing error classes. Domain packages wrap these with %w so handlers
// can map any domain error to a status code with errors.Is.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("not allowed to act on this resource")
	ErrConflict               = errors.New("conflict")
	ErrRateLimited            = errors.New("too many requests, try again later")
)

// Classify returns the HTTP status and envelope code for err.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound, "PROFILE_NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// Respond writes err using the standard envelope and aborts the chain.
// Internal errors are attached to the gin context for the request logger and
// hidden from the client.
func Respond(c *gin.Context, err error) {
	RespondWithDetails(c, err, nil)
}

// RespondWithDetails is Respond with a details payload, such as per-field
// validation messages.
func RespondWithDetails(c *gin.Context, err error, details any) {
	status, code := Classify(err)
	p := response.Problem{Code: code, Message: err.Error(), Details: details}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		p.Message = "Internal server error"
		p.Details = nil
	}
	response.Fail(c, status, p)
}
