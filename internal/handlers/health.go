// Package handlers contains the gin HTTP handlers for the admin API, the
// customer proof portal, and the scheduled-job endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proofdeck-backend/internal/models"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check godoc
//
//	@Summary		Health check
//	@Description	Returns ok when the server is accepting requests
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	models.HealthResponse
//	@Router			/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}
