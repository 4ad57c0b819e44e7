package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the read side of the feed. Entries are only created
// by booking side effects.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", h.GetNotifications)
		notifGroup.GET("/unread-count", h.GetUnreadCount)
		notifGroup.PATCH("/read-all", h.MarkAllAsRead)
		notifGroup.PATCH("/:id/read", h.MarkAsRead)
		notifGroup.DELETE("", h.ClearAll)
	}
}
