package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petsitter/internal/pkg/apperr"
	"petsitter/internal/pkg/request"
	"petsitter/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListChannels returns the booking channels the caller belongs to.
func (h *Handler) ListChannels(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	channels, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"channels": channels})
}
