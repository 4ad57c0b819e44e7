package profile

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

// POST /owners/me
func (h *Handler) SaveOwner(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	var req SaveOwnerRequest
	if !request.BindJSON(c, &req) {
		return
	}
	owner, err := h.service.SetupOwner(c.Request.Context(), userID, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, owner)
}

// GET /owners/me
func (h *Handler) GetOwner(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	owner, err := h.service.GetOwner(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, owner)
}

// POST /sitters/me
func (h *Handler) BecomeSitter(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	var req BecomeSitterRequest
	if !request.BindJSON(c, &req) {
		return
	}
	sitter, err := h.service.BecomeSitter(c.Request.Context(), userID, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sitter)
}

// GET /sitters/me
func (h *Handler) GetMySitter(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	sitter, err := h.service.GetMySitter(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, sitter)
}

// POST /sitters/me/services
func (h *Handler) AddService(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	var req AddServiceRequest
	if !request.BindJSON(c, &req) {
		return
	}
	svc, err := h.service.AddService(c.Request.Context(), userID, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

// GET /sitters/me/services
func (h *Handler) ListServices(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	services, err := h.service.ListMyServices(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

// PUT /sitters/me/availability
func (h *Handler) SetAvailability(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	var req SetAvailabilityRequest
	if !request.BindJSON(c, &req) {
		return
	}
	avail, err := h.service.SetAvailability(c.Request.Context(), userID, *req.IsAvailable)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, avail)
}

// GET /sitters/me/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	d, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// GET /sitters/me/earnings
func (h *Handler) Earnings(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	e, err := h.service.Earnings(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}
