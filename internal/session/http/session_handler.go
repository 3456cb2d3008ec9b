// Package http provides HTTP handlers for session lifecycle operations.
// Sessions hold a tenant's unlocked key material in process memory only.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlock/ledgerlock/internal/httputil"
	"github.com/ledgerlock/ledgerlock/internal/session/http/dto"
	sessionUseCase "github.com/ledgerlock/ledgerlock/internal/session/usecase"
	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// SessionHandler handles HTTP requests for session lifecycle operations.
type SessionHandler struct {
	sessionUseCase sessionUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(
	sessionUC sessionUseCase.SessionUseCase,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUC,
		logger:         logger,
	}
}

// UnlockHandler unlocks a session by deriving the tenant's key encryption key
// from the supplied passphrase.
// POST /v1/sessions/unlock
// Returns 200 OK with session status. A wrong passphrase returns 401 and is
// recorded on the tenant's audit chain.
func (h *SessionHandler) UnlockHandler(c *gin.Context) {
	var req dto.UnlockRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	status, err := h.sessionUseCase.Unlock(c.Request.Context(), sessionUseCase.UnlockInput{
		SessionID:  req.SessionID,
		TenantID:   req.TenantID,
		Passphrase: req.Passphrase,
		Actor:      req.Actor,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionStatusToResponse(status))
}

// StatusHandler reports the state of an unlocked session.
// GET /v1/sessions/status?session_id=...
// Returns 200 OK with session status, or 401 when the session is unknown or
// expired.
func (h *SessionHandler) StatusHandler(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("session_id query parameter is required"),
			h.logger,
		)
		return
	}

	status, err := h.sessionUseCase.Status(c.Request.Context(), sessionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionStatusToResponse(status))
}

// LockHandler locks a session, wiping its cached key material. Locking an
// unknown or already expired session succeeds.
// POST /v1/sessions/lock
// Returns 204 No Content.
func (h *SessionHandler) LockHandler(c *gin.Context) {
	var req dto.LockRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.sessionUseCase.Lock(c.Request.Context(), req.SessionID, req.Actor); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
