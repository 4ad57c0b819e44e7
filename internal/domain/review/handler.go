package review

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

func (h *Handler) GetBySitter(c *gin.Context) {
	sitterID, ok := request.IDParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	page, err := h.service.ListForSitter(c.Request.Context(), sitterID, limit, offset)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) Reply(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	reviewID, ok := request.IDParam(c, "id")
	if !ok {
		return
	}
	var req ReplyRequest
	if !request.BindJSON(c, &req) {
		return
	}

	rev, err := h.service.Reply(c.Request.Context(), userID, reviewID, req.Reply)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rev})
}
