package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/IagoLeal1/GestaoLibelle-sub000/pkg/errors"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"status": "healthy",
		},
	})
}

// ErrorStatus maps service errors to HTTP statuses; anything without an
// application error code is a 500.
func ErrorStatus(err error) int {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}
