// Package http provides HTTP handlers for audit chain inspection: integrity
// verification and event listing. The chain itself is append-only; nothing
// here mutates it.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	"github.com/ledgerlock/ledgerlock/internal/audit/http/dto"
	auditUseCase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	"github.com/ledgerlock/ledgerlock/internal/httputil"
)

// AuditHandler handles HTTP requests for audit chain inspection.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(
	auditUC auditUseCase.AuditUseCase,
	logger *slog.Logger,
) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUC,
		logger:       logger,
	}
}

// parseTenantID extracts the tenant id from the URL parameter.
func parseTenantID(c *gin.Context) (uuid.UUID, error) {
	tenantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant id: must be a valid UUID")
	}
	return tenantID, nil
}

// VerifyHandler walks the tenant's audit chain recomputing every hash link.
// GET /v1/tenants/:id/audit/verify
// Returns 200 OK in both outcomes: valid=true with the chain summary, or
// valid=false localizing the first broken link. A successful verification
// clears a fork halt for the tenant.
func (h *AuditHandler) VerifyHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.auditUseCase.Verify(c.Request.Context(), tenantID)
	if err != nil {
		var brokenErr *auditDomain.ChainBrokenError
		if apperrors.As(err, &brokenErr) {
			h.logger.Warn("audit chain verification failed",
				slog.String("tenant_id", tenantID.String()),
				slog.Uint64("sequence", brokenErr.Sequence),
				slog.String("reason", brokenErr.Reason))
			c.JSON(http.StatusOK, dto.MapChainBrokenToResponse(brokenErr))
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerifyResultToResponse(result))
}

// EventsHandler lists a tenant's audit events newest first.
// GET /v1/tenants/:id/audit/events?offset=0&limit=50&created_at_from=...&created_at_to=...
// Time bounds are optional RFC 3339 timestamps, inclusive on both ends.
// Returns 200 OK with the paginated event list.
func (h *AuditHandler) EventsHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	createdAtFrom, err := parseTimeQuery(c, "created_at_from")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	createdAtTo, err := parseTimeQuery(c, "created_at_to")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	events, err := h.auditUseCase.List(
		c.Request.Context(), tenantID, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToListResponse(events))
}

// parseTimeQuery parses an optional RFC 3339 time query parameter.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be an RFC 3339 timestamp", name)
	}
	return &parsed, nil
}
