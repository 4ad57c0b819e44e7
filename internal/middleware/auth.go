package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"petsitter/internal/pkg/apperr"
	jwtsvc "petsitter/internal/pkg/jwt"
)

var (
	errMissingHeader = fmt.Errorf("missing Authorization header: %w", apperr.ErrAuthenticationRequired)
	errBadScheme     = fmt.Errorf("bearer token required in Authorization header: %w", apperr.ErrAuthenticationRequired)
	errEmptyToken    = fmt.Errorf("empty token: %w", apperr.ErrAuthenticationRequired)
	errInvalidToken  = fmt.Errorf("invalid or expired token: %w", apperr.ErrAuthenticationRequired)
)

// JWTAuth resolves the caller identity from a bearer token and stores it as
// "user_id". Requests without a valid token are rejected with 401.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apperr.Respond(c, errMissingHeader)
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			apperr.Respond(c, errBadScheme)
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			apperr.Respond(c, errEmptyToken)
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			apperr.Respond(c, errInvalidToken)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
