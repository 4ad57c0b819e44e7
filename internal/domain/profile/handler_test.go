package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(NewRepository(setupTestDB(t)), fakeCounter{pending: 1}, zap.NewNop())
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User-ID"); raw != "" {
			id, _ := strconv.ParseInt(raw, 10, 64)
			c.Set("user_id", id)
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any, userID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestProfileEndpoints_Unauthorized(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/api/v1/owners/me", "/api/v1/sitters/me", "/api/v1/sitters/me/dashboard"} {
		rr := doJSONRequest(r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestProfileEndpoints_SitterFlow(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/sitters/me", nil, "7")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "PROFILE_NOT_FOUND")

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/sitters/me", map[string]any{"display_name": "Rina"}, "7")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "area is required")

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/sitters/me", map[string]any{
		"display_name": "Rina",
		"area":         "Gulshan",
		"latitude":     23.79,
		"longitude":    90.41,
	}, "7")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/sitters/me/services", map[string]any{
		"service_type":  "boarding",
		"price_per_day": 500,
	}, "7")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPut, "/api/v1/sitters/me/availability", map[string]any{"is_available": false}, "7")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/sitters/me/dashboard", nil, "7")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Success bool      `json:"success"`
		Data    Dashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Data.IsAvailable)
	assert.Equal(t, int64(1), resp.Data.PendingCount)
	assert.Equal(t, 1, resp.Data.ActiveServices)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/sitters/me", map[string]any{
		"display_name": "Rina",
		"area":         "Gulshan",
	}, "7")
	assert.Equal(t, http.StatusConflict, rr.Code)
}
