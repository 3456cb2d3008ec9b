package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(UnlockRateLimitMiddleware(rps, burst, logger))
	router.POST("/unlock", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func doUnlockRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/unlock", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestUnlockRateLimitMiddleware_BurstExhausted(t *testing.T) {
	router := setupRateLimitRouter(1.0, 2)

	// First two requests consume the burst
	assert.Equal(t, http.StatusOK, doUnlockRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, doUnlockRequest(router, "10.0.0.1:1234").Code)

	// Third request exceeds the limit
	w := doUnlockRequest(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestUnlockRateLimitMiddleware_PerIPIsolation(t *testing.T) {
	router := setupRateLimitRouter(1.0, 1)

	// Exhaust the first client's budget
	assert.Equal(t, http.StatusOK, doUnlockRequest(router, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doUnlockRequest(router, "10.0.0.1:1234").Code)

	// A different client is unaffected
	assert.Equal(t, http.StatusOK, doUnlockRequest(router, "10.0.0.2:1234").Code)
}
