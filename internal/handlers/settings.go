package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/store"
	"proofdeck-backend/internal/validation"
)

type SettingsHandler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewSettingsHandler(st *store.Store, validate *validator.Validate) *SettingsHandler {
	return &SettingsHandler{store: st, validate: validate}
}

func settingsResponse(s *models.AppSettings) models.SettingsResponse {
	resp := models.SettingsResponse{
		CompanyName:    s.CompanyName,
		AccentColor:    s.AccentColor,
		EmailFromName:  s.EmailFromName,
		EmailFromEmail: s.EmailFromEmail,
		ReminderConfig: s.Reminders(),
		UpdatedAt:      s.UpdatedAt,
	}
	if s.LogoDataURL.Valid {
		resp.LogoDataURL = s.LogoDataURL.String
	}
	if s.StaffNotifyEmail.Valid {
		resp.StaffNotifyEmail = s.StaffNotifyEmail.String
	}
	return resp
}

// Get godoc
//
//	@Summary		Get settings
//	@Description	Returns branding, email, and reminder configuration
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	models.SettingsResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/api/admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settingsResponse(settings))
}

// Update godoc
//
//	@Summary		Update settings
//	@Description	Applies partial updates to branding, email, and reminder configuration
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.UpdateSettingsRequest	true	"Settings fields"
//	@Success		200		{object}	models.SettingsResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/api/admin/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	settings, err := h.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load settings"})
		return
	}

	if req.CompanyName != "" {
		settings.CompanyName = req.CompanyName
	}
	if req.AccentColor != "" {
		settings.AccentColor = req.AccentColor
	}
	if req.LogoDataURL != nil {
		// An explicit empty string clears the logo.
		settings.LogoDataURL.String = *req.LogoDataURL
		settings.LogoDataURL.Valid = *req.LogoDataURL != ""
	}
	if req.EmailFromName != "" {
		settings.EmailFromName = req.EmailFromName
	}
	if req.EmailFromEmail != "" {
		settings.EmailFromEmail = req.EmailFromEmail
	}
	if req.StaffNotifyEmail != "" {
		settings.StaffNotifyEmail.String = req.StaffNotifyEmail
		settings.StaffNotifyEmail.Valid = true
	}
	if req.ReminderConfig != nil {
		raw, err := json.Marshal(req.ReminderConfig)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: "Invalid reminder configuration"})
			return
		}
		settings.ReminderConfig = raw
	}

	if err := h.store.UpsertSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to save settings"})
		return
	}

	saved, err := h.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settingsResponse(saved))
}
