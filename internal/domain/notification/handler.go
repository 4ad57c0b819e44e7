package notification

import (
	"net/http"
	"strconv"

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

// GetNotifications returns the newest entries first. limit defaults to 20,
// capped at 100.
func (h *Handler) GetNotifications(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
			if limit > 100 {
				limit = 100
			}
		}
	}

	offset := 0
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	page, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread_count": n})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkAsRead(c.Request.Context(), userID, id); err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "is_read": true})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	n, err := h.service.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) ClearAll(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	n, err := h.service.Clear(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": n})
}
