package booking

import (
	"context"
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

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !request.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, CreateInput{
		SitterID:       req.SitterID,
		ServiceID:      req.ServiceID,
		TotalPrice:     req.TotalPrice,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusCreated, BookingResponse{Booking: b, State: b.State(), Role: RoleOwner})
}

// GetOwnerBookings lists the caller's bookings as owner. ?status=all|pending|accepted
func (h *Handler) GetOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

// GetSitterBookings lists the caller's bookings as sitter. ?status=all|pending|accepted
func (h *Handler) GetSitterBookings(c *gin.Context) {
	h.list(c, h.service.ListForSitter)
}

func (h *Handler) list(c *gin.Context, fn func(context.Context, int64, StatusFilter) ([]Booking, error)) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	filter, err := ParseStatusFilter(c.Query("status"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	bookings, err := fn(c.Request.Context(), userID, filter)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings, "status": filter})
}

func (h *Handler) GetHistory(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	items, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": items})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}

	b, role, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, BookingResponse{Booking: b, State: b.State(), Role: role})
}

func (h *Handler) AcceptBooking(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.Accept(c.Request.Context(), userID, id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, BookingResponse{Booking: b, State: b.State(), Role: RoleSitter})
}

// DeleteBooking cancels (owner) or declines (sitter) a pending booking.
func (h *Handler) DeleteBooking(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}

	removal, err := h.service.Remove(c.Request.Context(), userID, id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"booking_id":   removal.Booking.ID,
		"booking_code": removal.Booking.BookingCode,
		"outcome":      removal.Outcome,
	})
}

func (h *Handler) SubmitReview(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}
	var req SubmitReviewRequest
	if !request.BindJSON(c, &req) {
		return
	}

	rev, err := h.service.SubmitReview(c.Request.Context(), userID, id, req.Rating, req.Comment)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rev})
}

func (h *Handler) InitializeChat(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}
	id, ok := request.IDParam(c, "id")
	if !ok {
		return
	}

	ch, err := h.service.InitializeChat(c.Request.Context(), userID, id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"channel": ch})
}
