package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/handler"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/appointment"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *appointment.Service
	loc     *time.Location
}

func NewHandler(service *appointment.Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.POST("/block", h.CreateBlock)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/report", h.Report)
		appointments.GET("/occupied-rooms", h.OccupiedRooms)
		appointments.GET("/renewable", h.ListRenewable)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
		appointments.POST("/:id/renew", h.RenewBlock)
		appointments.POST("/:id/dismiss-renewal", h.DismissRenewal)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": created})
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var req model.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	created, err := h.service.CreateBlock(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": created})
}

// ListAppointments returns one calendar day's appointments, optionally
// filtered by professional.
func (h *Handler) ListAppointments(c *gin.Context) {
	date, err := time.ParseInLocation(dateLayout, c.Query("date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date"})
		return
	}

	var appointments []*model.Appointment
	if id := c.Query("professional_id"); id != "" {
		professionalID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid professional ID"})
			return
		}
		appointments, err = h.service.GetByProfessionalAndDate(c.Request.Context(), professionalID, date)
		if err != nil {
			c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
			return
		}
	} else {
		appointments, err = h.service.GetByDate(c.Request.Context(), date)
		if err != nil {
			c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

func (h *Handler) Report(c *gin.Context) {
	professionalID, err := uuid.Parse(c.Query("professional_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid professional ID"})
		return
	}

	startDate, err := time.ParseInLocation(dateLayout, c.Query("start_date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start date"})
		return
	}
	endDate, err := time.ParseInLocation(dateLayout, c.Query("end_date"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end date"})
		return
	}

	appointments, err := h.service.GetForReport(c.Request.Context(), professionalID, startDate, endDate)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

// OccupiedRooms lists rooms in use during [start, end); the scheduling
// form uses it to warn before assigning a room.
func (h *Handler) OccupiedRooms(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start time"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end time"})
		return
	}

	rooms, err := h.service.GetOccupiedRooms(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}
	if rooms == nil {
		rooms = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": rooms})
}

func (h *Handler) ListRenewable(c *gin.Context) {
	appointments, err := h.service.GetRenewable(c.Request.Context())
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": found})
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": updated})
}

// DeleteAppointment removes one appointment; with ?future=true it also
// removes every later session in the same block.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	if c.Query("future") == "true" {
		err = h.service.DeleteFutureInBlock(c.Request.Context(), id)
	} else {
		err = h.service.Delete(c.Request.Context(), id)
	}
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) RenewBlock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.RenewBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	created, err := h.service.Renew(c.Request.Context(), id, req.Sessions)
	if err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": created})
}

func (h *Handler) DismissRenewal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	if err := h.service.Dismiss(c.Request.Context(), id); err != nil {
		c.JSON(handler.ErrorStatus(err), gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
