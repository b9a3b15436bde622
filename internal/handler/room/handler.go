package room

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/handler"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/occupancy"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *occupancy.Service
	loc     *time.Location
}

func NewHandler(service *occupancy.Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("/occupancy", h.OccupancyMap)
	}
}

// OccupancyMap renders the per-room slot schedule for one calendar day.
// Defaults to today when no date is given.
func (h *Handler) OccupancyMap(c *gin.Context) {
	date := time.Now().In(h.loc)
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation(dateLayout, q, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date"})
			return
		}
		date = parsed
	}

	occupancies, err := h.service.OccupancyMap(c.Request.Context(), date)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": occupancies})
}
