package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"proofdeck-backend/internal/config"
	"proofdeck-backend/internal/middleware"
	"proofdeck-backend/internal/models"
	"proofdeck-backend/internal/services"
	"proofdeck-backend/internal/shipstation"
	"proofdeck-backend/internal/store"
	"proofdeck-backend/internal/validation"
)

type SyncHandler struct {
	service  *services.SyncService
	store    *store.Store
	client   *shipstation.Client
	cfg      *config.Config
	validate *validator.Validate
}

func NewSyncHandler(service *services.SyncService, st *store.Store, client *shipstation.Client, cfg *config.Config, validate *validator.Validate) *SyncHandler {
	return &SyncHandler{service: service, store: st, client: client, cfg: cfg, validate: validate}
}

// Trigger godoc
//
//	@Summary		Run an order sync
//	@Description	Fetches recently modified orders from the shipping platform and reconciles them locally
//	@Tags			sync
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.SyncRequest	false	"Sync options"
//	@Success		200		{object}	models.SyncResponse
//	@Failure		400		{object}	models.SyncResponse
//	@Failure		502		{object}	models.SyncResponse
//	@Router			/api/shipstation/sync [post]
func (h *SyncHandler) Trigger(c *gin.Context) {
	if !h.service.Configured() {
		c.JSON(http.StatusBadRequest, models.SyncResponse{
			Success:        false,
			Configured:     false,
			Error:          "not_configured",
			Message:        "ShipStation credentials are not configured",
			MissingEnvVars: h.cfg.MissingSyncEnvVars(),
		})
		return
	}

	syncType := "incremental"
	if c.Request.Method == http.MethodPost && c.Request.ContentLength > 0 {
		var req models.SyncRequest
		if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_request", Message: err.Error()})
			return
		}
		if req.SyncType != "" {
			syncType = req.SyncType
		}
	}

	triggeredBy := "admin"
	if actor := c.GetString(middleware.AuthActorKey); actor != "" {
		triggeredBy = actor
	}

	result, err := h.service.Run(syncType, triggeredBy)
	if err != nil {
		log.Printf("sync failed: %v", err)
		resp := models.SyncResponse{Success: false, Configured: true, Error: err.Error()}
		switch {
		case errors.Is(err, shipstation.ErrInvalidCredentials):
			resp.Message = "ShipStation rejected the API credentials"
			c.JSON(http.StatusBadGateway, resp)
		case errors.Is(err, shipstation.ErrRateLimited):
			resp.Message = "ShipStation rate limit exceeded, try again later"
			c.JSON(http.StatusBadGateway, resp)
		default:
			resp.Message = "Sync failed"
			c.JSON(http.StatusBadGateway, resp)
		}
		return
	}

	c.JSON(http.StatusOK, models.SyncResponse{
		Success:    true,
		Configured: true,
		RunID:      result.RunID.String(),
		Stats:      &result.Stats,
	})
}

// Status godoc
//
//	@Summary		Sync status
//	@Description	Reports configuration state, last sync outcome, and recent runs
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	models.SyncStatusResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/api/shipstation/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	settings, err := h.store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load sync status"})
		return
	}

	total, err := h.store.CountOrdersByPlatform(models.PlatformShipStation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to count orders"})
		return
	}

	runs, err := h.store.RecentSyncRuns(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Failed to load sync runs"})
		return
	}

	resp := models.SyncStatusResponse{
		Configured:     h.cfg.SyncConfigured(),
		MissingEnvVars: h.cfg.MissingSyncEnvVars(),
		TotalOrders:    total,
		RecentRuns:     make([]models.SyncRunSummary, 0, len(runs)),
	}
	if settings.LastSync.Valid {
		t := settings.LastSync.Time
		resp.LastSuccessfulSync = &t
	}
	if settings.LastSyncAttempt.Valid {
		t := settings.LastSyncAttempt.Time
		resp.LastSyncAttempt = &t
	}
	if settings.LastSyncError.Valid {
		resp.LastSyncError = settings.LastSyncError.String
	}
	for _, run := range runs {
		summary := models.SyncRunSummary{
			ID:          run.ID.String(),
			StartedAt:   run.StartedAt,
			Status:      run.Status,
			SyncType:    run.SyncType,
			TriggeredBy: run.TriggeredBy,
			Fetched:     run.FetchedCount,
			Inserted:    run.InsertedCount,
			Updated:     run.UpdatedCount,
			Skipped:     run.SkippedCount,
			Errors:      run.ErrorCount,
		}
		if run.FinishedAt.Valid {
			t := run.FinishedAt.Time
			summary.FinishedAt = &t
		}
		if run.ErrorSummary.Valid {
			summary.ErrorSummary = run.ErrorSummary.String
		}
		resp.RecentRuns = append(resp.RecentRuns, summary)
	}
	c.JSON(http.StatusOK, resp)
}

// Test godoc
//
//	@Summary		Verify ShipStation credentials
//	@Description	Performs a non-destructive credentials check against the stores endpoint
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	shipstation.CredentialCheck
//	@Router			/api/shipstation/test [post]
func (h *SyncHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.VerifyCredentials())
}
