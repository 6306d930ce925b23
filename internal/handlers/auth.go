package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"proofdeck-backend/internal/middleware"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/validation"
)

type AuthHandler struct {
	adminPassword string
	sessionSecret string
	secureCookies bool
	validate      *validator.Validate
}

func NewAuthHandler(adminPassword, sessionSecret string, secureCookies bool, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		adminPassword: adminPassword,
		sessionSecret: sessionSecret,
		secureCookies: secureCookies,
		validate:      validate,
	}
}

// Login godoc
//
//	@Summary		Staff login
//	@Description	Verifies the admin password and sets a session cookie
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	map[string]bool
//	@Failure		401		{object}	models.ErrorResponse
//	@Router			/api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	if h.adminPassword == "" || h.sessionSecret == "" {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "auth_disabled",
			Message: "Admin authentication is not configured",
		})
		return
	}

	var req models.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Incorrect password",
		})
		return
	}

	token, err := middleware.MintSessionToken(h.sessionSecret, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "session_error",
			Message: "Failed to create session",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token,
		int(middleware.SessionDuration.Seconds()), "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout godoc
//
//	@Summary		Staff logout
//	@Description	Clears the session cookie
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	map[string]bool
//	@Router			/api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
