package profile

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	owners := rg.Group("/owners")
	{
		owners.POST("/me", h.SaveOwner)
		owners.GET("/me", h.GetOwner)
	}

	sitters := rg.Group("/sitters/me")
	{
		sitters.POST("", h.BecomeSitter)
		sitters.GET("", h.GetMySitter)
		sitters.POST("/services", h.AddService)
		sitters.GET("/services", h.ListServices)
		sitters.PUT("/availability", h.SetAvailability)
		sitters.GET("/dashboard", h.Dashboard)
		sitters.GET("/earnings", h.Earnings)
	}
}
