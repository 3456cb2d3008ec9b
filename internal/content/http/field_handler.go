// Package http provides HTTP handlers for encrypted field operations.
// Field values are sealed under the session tenant's DEK; plaintext never
// touches storage.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/content/http/dto"
	contentUseCase "github.com/ledgerlock/ledgerlock/internal/content/usecase"
	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	"github.com/ledgerlock/ledgerlock/internal/httputil"
	customValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// FieldHandler handles HTTP requests for encrypted field operations.
type FieldHandler struct {
	contentUseCase contentUseCase.ContentUseCase
	logger         *slog.Logger
}

// NewFieldHandler creates a new field handler with required dependencies.
func NewFieldHandler(
	contentUC contentUseCase.ContentUseCase,
	logger *slog.Logger,
) *FieldHandler {
	return &FieldHandler{
		contentUseCase: contentUC,
		logger:         logger,
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

// EncryptHandler encrypts a field value under the session tenant's DEK and
// stores the envelope, replacing any previous value for the same field.
// POST /v1/tenants/:id/fields/encrypt
// Returns 201 Created with field metadata. Requires an unlocked session
// belonging to the addressed tenant.
func (h *FieldHandler) EncryptHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.EncryptFieldRequest

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

	// Decode base64 value
	value, err := base64.StdEncoding.DecodeString(req.Value)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid base64 value: %w", err),
			h.logger,
		)
		return
	}

	field, err := h.contentUseCase.EncryptField(c.Request.Context(), contentUseCase.EncryptFieldInput{
		SessionID: req.SessionID,
		TenantID:  tenantID,
		EntityID:  req.EntityID,
		FieldName: req.FieldName,
		Plaintext: value,
		Actor:     req.Actor,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFieldToEncryptResponse(field))
}

// DecryptHandler opens the stored envelope for a field and returns its
// plaintext. SECURITY: Plaintext is zeroed after the response is written.
// POST /v1/tenants/:id/fields/decrypt
// Returns 200 OK with the base64-encoded value.
func (h *FieldHandler) DecryptHandler(c *gin.Context) {
	tenantID, err := parseTenantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.DecryptFieldRequest

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

	plaintext, err := h.contentUseCase.DecryptField(c.Request.Context(), contentUseCase.DecryptFieldInput{
		SessionID: req.SessionID,
		TenantID:  tenantID,
		EntityID:  req.EntityID,
		FieldName: req.FieldName,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// SECURITY: Zero plaintext after mapping to response
	defer cryptoDomain.Zero(plaintext)

	c.JSON(http.StatusOK, dto.DecryptFieldResponse{Value: plaintext})
}
