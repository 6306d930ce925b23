package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"proofdeck-backend/internal/middleware"
)

func limitedRouter(limit middleware.Limit) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(), "test", limit))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	router := limitedRouter(middleware.Limit{Requests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	router := limitedRouter(middleware.Limit{Requests: 2, Window: time.Minute})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestRateLimit_SeparateClients(t *testing.T) {
	router := limitedRouter(middleware.Limit{Requests: 1, Window: time.Minute})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second request from the same client is blocked.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client is unaffected.
	req2, _ := http.NewRequest("GET", "/test", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req2)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_WindowResets(t *testing.T) {
	rl := middleware.NewRateLimiter()
	limit := middleware.Limit{Requests: 1, Window: 10 * time.Millisecond}

	allowed, _ := rl.Allow("k", limit)
	assert.True(t, allowed)
	allowed, _ = rl.Allow("k", limit)
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)
	allowed, _ = rl.Allow("k", limit)
	assert.True(t, allowed)
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got string
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		got = middleware.ClientIP(c)
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", got)

	req, _ = http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.9")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "198.51.100.9", got)

	req, _ = http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.1", got)
}
