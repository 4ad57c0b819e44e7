package review

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/sitters/:id/reviews", h.GetBySitter)
	protected.POST("/reviews/:id/reply", h.Reply)
}
