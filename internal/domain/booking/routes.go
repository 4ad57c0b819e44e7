package booking

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	bookings := protected.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/owner", h.GetOwnerBookings)
		bookings.GET("/sitter", h.GetSitterBookings)
		bookings.GET("/history", h.GetHistory)

		// Lifecycle
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id/accept", h.AcceptBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.POST("/:id/review", h.SubmitReview)
		bookings.POST("/:id/chat", h.InitializeChat)
	}
}
