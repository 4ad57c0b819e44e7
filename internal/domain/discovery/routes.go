package discovery

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the read-only search surface. Extra middleware, such
// as a rate limiter, applies to these routes only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	sitters := rg.Group("/sitters", mw...)
	{
		sitters.GET("/search", h.SearchRadius)
		sitters.GET("/area", h.SearchArea)
	}
}
