// Package http provides HTTP handlers for tenant provisioning.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerlock/ledgerlock/internal/httputil"
	"github.com/ledgerlock/ledgerlock/internal/tenant/http/dto"
	tenantUseCase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// TenantHandler handles HTTP requests for tenant provisioning.
type TenantHandler struct {
	tenantUseCase tenantUseCase.TenantUseCase
	logger        *slog.Logger
}

// NewTenantHandler creates a new tenant handler with required dependencies.
func NewTenantHandler(
	tenantUC tenantUseCase.TenantUseCase,
	logger *slog.Logger,
) *TenantHandler {
	return &TenantHandler{
		tenantUseCase: tenantUC,
		logger:        logger,
	}
}

// CreateHandler provisions a tenant: a fresh DEK wrapped under the passphrase
// and under a one-time recovery code, plus the tenant's audit chain.
// POST /v1/tenants
// Returns 201 Created. The recovery code in the response is shown exactly once.
func (h *TenantHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateTenantRequest

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

	output, err := h.tenantUseCase.Create(c.Request.Context(), tenantUseCase.CreateTenantInput{
		Name:       req.Name,
		Passphrase: req.Passphrase,
		Actor:      req.Actor,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateOutputToResponse(output))
}
