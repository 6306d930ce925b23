package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
)

type RemindersHandler struct {
	service *services.ReminderService
}

func NewRemindersHandler(service *services.ReminderService) *RemindersHandler {
	return &RemindersHandler{service: service}
}

// Run godoc
//
//	@Summary		Run the reminder pass
//	@Description	Sends due reminder emails to customers who have not yet decided
//	@Tags			cron
//	@Produce		json
//	@Success		200	{object}	models.ReminderRunResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/api/cron/reminders [get]
func (h *RemindersHandler) Run(c *gin.Context) {
	result, err := h.service.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Reminder pass failed"})
		return
	}

	if !result.Enabled {
		c.JSON(http.StatusOK, models.ReminderRunResponse{Message: "Reminders are disabled"})
		return
	}

	c.JSON(http.StatusOK, models.ReminderRunResponse{
		Message: fmt.Sprintf("Sent %d of %d due reminders", result.Sent, result.Checked),
		Sent:    result.Sent,
		Total:   result.Checked,
		Errors:  result.Errors,
	})
}
