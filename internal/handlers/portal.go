package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"proofdeck-backend/internal/magiclink"
	"proofdeck-backend/internal/middleware"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
	"proofdeck-backend/internal/store"
	"proofdeck-backend/internal/validation"
)

type PortalHandler struct {
	store    *store.Store
	decision *services.DecisionService
	validate *validator.Validate
}

func NewPortalHandler(st *store.Store, decision *services.DecisionService, validate *validator.Validate) *PortalHandler {
	return &PortalHandler{store: st, decision: decision, validate: validate}
}

// View godoc
//
//	@Summary		Customer proof portal
//	@Description	Returns the order, its proof versions, and branding for the portal page
//	@Tags			portal
//	@Produce		json
//	@Param			token	path		string	true	"Magic link token"
//	@Success		200		{object}	models.PortalResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		410		{object}	models.ErrorResponse
//	@Router			/p/{token} [get]
func (h *PortalHandler) View(c *gin.Context) {
	token := c.Param("token")
	// Malformed tokens never reach the database.
	if !magiclink.ValidFormat(token) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Proof link not found"})
		return
	}

	link, err := h.store.GetMagicLinkByHash(magiclink.HashToken(token))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load proof link"})
		return
	}
	if link == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Proof link not found"})
		return
	}
	if time.Now().UTC().After(link.ExpiresAt) {
		c.JSON(http.StatusGone, models.ErrorResponse{Error: "expired", Message: "This proof link has expired"})
		return
	}

	order, err := h.store.GetOrder(link.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Order not found"})
		return
	}

	if err := h.store.TouchCustomerViewed(order.ID, time.Now().UTC()); err != nil {
		log.Printf("failed to stamp portal view for order %s: %v", order.ID, err)
	}

	versions, err := proofVersions(h.store, order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load proof versions"})
		return
	}

	branding := models.Branding{CompanyName: "Proofs", AccentColor: "#1d3161"}
	if settings, err := h.store.GetSettings(); err == nil {
		branding.CompanyName = settings.CompanyName
		branding.AccentColor = settings.AccentColor
		if settings.LogoDataURL.Valid {
			branding.LogoDataURL = settings.LogoDataURL.String
		}
	}

	c.JSON(http.StatusOK, models.PortalResponse{
		Order:    orderSummary(order),
		Decided:  models.IsDecided(order.Status),
		Versions: versions,
		Branding: branding,
	})
}

// Submit godoc
//
//	@Summary		Submit a proof decision
//	@Description	Records the customer's approval or change request for the order behind the token
//	@Tags			portal
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.SubmitDecisionRequest	true	"Decision"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		410		{object}	models.ErrorResponse
//	@Router			/api/actions/submit [post]
func (h *PortalHandler) Submit(c *gin.Context) {
	var req models.SubmitDecisionRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if !magiclink.ValidFormat(req.Token) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Proof link not found"})
		return
	}

	order, err := h.decision.Submit(req.Token, req.Decision, req.Note,
		middleware.ClientIP(c), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLinkNotFound), errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "Proof link not found"})
		case errors.Is(err, services.ErrLinkExpired):
			c.JSON(http.StatusGone, models.ErrorResponse{Error: "expired", Message: "This proof link has expired"})
		case errors.Is(err, services.ErrAlreadyDecided):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "already_decided", Message: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to record decision"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": order.Status})
}
