package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrAuthenticationRequired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("owner %w", ErrProfileNotFound), http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{fmt.Errorf("rating: %w", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("booking %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("already accepted: %w", ErrConflict), http.StatusConflict, "CONFLICT"},
		{ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestRespondHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("pq: connection refused"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Len(t, c.Errors, 1)
}

func TestRespondWithDetailsWritesEnvelopeAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithDetails(c, fmt.Errorf("invalid request: %w", ErrValidation), map[string]string{"rating": "max"})

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "invalid request: validation error", body.Error.Message)
	assert.Equal(t, "max", body.Error.Details["rating"])
	assert.True(t, c.IsAborted())
}
