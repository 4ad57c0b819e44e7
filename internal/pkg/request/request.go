package request

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"petsitter/internal/pkg/apperr"
	"petsitter/internal/pkg/validator"
)

// UserID returns the authenticated caller or writes a 401.
func UserID(c *gin.Context) (int64, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		apperr.Respond(c, apperr.ErrAuthenticationRequired)
		return 0, false
	}
	return userID, true
}

// BindJSON decodes and validates the body, writing a 400 on failure.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apperr.Respond(c, fmt.Errorf("invalid request body: %w", apperr.ErrValidation))
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		apperr.RespondWithDetails(c, fmt.Errorf("invalid request: %w", apperr.ErrValidation), errs)
		return false
	}
	return true
}

// IDParam parses a positive int64 path parameter, writing a 400 on failure.
func IDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apperr.Respond(c, fmt.Errorf("invalid %s: %w", name, apperr.ErrValidation))
		return 0, false
	}
	return id, true
}
