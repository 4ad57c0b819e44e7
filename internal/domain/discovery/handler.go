package discovery

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

// GET /sitters/search?lat=..&lng=..&radius=..
func (h *Handler) SearchRadius(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		apperr.Respond(c, ErrInvalidCoordinates)
		return
	}

	q := RadiusQuery{Lat: lat, Lng: lng}
	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			apperr.Respond(c, ErrInvalidRadius)
			return
		}
		q.RadiusMeters = &radius
	}

	results, err := h.service.SearchRadius(c.Request.Context(), userID, q)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sitters": results, "count": len(results)})
}

// GET /sitters/area?area=..
func (h *Handler) SearchArea(c *gin.Context) {
	userID, ok := request.UserID(c)
	if !ok {
		return
	}

	results, err := h.service.SearchArea(c.Request.Context(), userID, c.Query("area"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sitters": results, "count": len(results)})
}
