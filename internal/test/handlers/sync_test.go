package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"proofdeck-backend/internal/config"
	"proofdeck-backend/internal/handlers"
	"proofdeck-backend/internal/services"
	"proofdeck-backend/internal/shipstation"
	"proofdeck-backend/internal/validation"
)

func TestSyncTrigger_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := shipstation.NewClient("https://ssapi.test", "", "")
	svc := services.NewSyncService(nil, client)
	handler := handlers.NewSyncHandler(svc, nil, client, &config.Config{}, validation.New())

	router := gin.New()
	router.POST("/api/shipstation/sync", handler.Trigger)

	req, _ := http.NewRequest("POST", "/api/shipstation/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"configured":false`)
	assert.Contains(t, w.Body.String(), `"error":"not_configured"`)
	assert.Contains(t, w.Body.String(), "SHIPSTATION_API_KEY")
}
