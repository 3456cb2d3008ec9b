package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
	auditUsecase "github.com/ledgerlock/ledgerlock/internal/audit/usecase"
	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoService "github.com/ledgerlock/ledgerlock/internal/crypto/service"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	appValidation "github.com/ledgerlock/ledgerlock/internal/validation"
)

// contentUseCase implements the ContentUseCase interface.
type contentUseCase struct {
	txManager  database.TxManager
	fieldRepo  FieldRepository
	sessions   SessionKeys
	keyManager cryptoService.KeyManager
	auditUC    auditUsecase.AuditUseCase
}

func (c *contentUseCase) validateFieldTarget(sessionID string, entityID uuid.UUID, fieldName string) error {
	err := validation.Errors{
		"session_id": validation.Validate(sessionID,
			validation.Required.Error("session_id is required"), appValidation.NotBlank),
		"field_name": validation.Validate(fieldName,
			validation.Required.Error("field_name is required"), appValidation.NotBlank,
			validation.Length(1, 255).Error("field_name must be between 1 and 255 characters")),
	}.Filter()
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	if entityID == uuid.Nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "entity_id is required")
	}
	return nil
}

// checkTenant rejects a session that belongs to a different tenant than the
// one the request addressed. A nil expected tenant skips the check.
func checkTenant(expected, actual uuid.UUID) error {
	if expected != uuid.Nil && expected != actual {
		return apperrors.Wrap(apperrors.ErrForbidden, "session does not belong to tenant")
	}
	return nil
}

// EncryptField seals the plaintext and stores the envelope with its audit event.
func (c *contentUseCase) EncryptField(
	ctx context.Context,
	input EncryptFieldInput,
) (*contentDomain.EncryptedField, error) {
	if err := c.validateFieldTarget(input.SessionID, input.EntityID, input.FieldName); err != nil {
		return nil, err
	}
	if len(input.Plaintext) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "plaintext is required")
	}

	dek, tenantID, err := c.sessions.TenantDek(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)
	if err := checkTenant(input.TenantID, tenantID); err != nil {
		return nil, err
	}

	envelope, err := c.keyManager.SealField(dek, input.Plaintext, tenantID, input.EntityID, input.FieldName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	field := &contentDomain.EncryptedField{
		ID:        uuid.Must(uuid.NewV7()),
		TenantID:  tenantID,
		EntityID:  input.EntityID,
		FieldName: input.FieldName,
		Envelope:  envelope,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := c.fieldRepo.Upsert(txCtx, field); err != nil {
			return err
		}
		_, err := c.auditUC.Record(
			txCtx,
			tenantID,
			auditDomain.EventFieldEncrypted,
			input.Actor,
			auditDomain.FieldEncryptedData(input.EntityID, input.FieldName),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return field, nil
}

// DecryptField opens the stored envelope for a (entity, field name).
func (c *contentUseCase) DecryptField(
	ctx context.Context,
	input DecryptFieldInput,
) ([]byte, error) {
	if err := c.validateFieldTarget(input.SessionID, input.EntityID, input.FieldName); err != nil {
		return nil, err
	}

	dek, tenantID, err := c.sessions.TenantDek(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(dek)
	if err := checkTenant(input.TenantID, tenantID); err != nil {
		return nil, err
	}

	field, err := c.fieldRepo.Get(ctx, tenantID, input.EntityID, input.FieldName)
	if err != nil {
		return nil, err
	}

	return c.keyManager.OpenField(dek, field.Envelope, tenantID, input.EntityID, input.FieldName)
}

// NewContentUseCase creates a new content use case instance with the provided dependencies.
func NewContentUseCase(
	txManager database.TxManager,
	fieldRepo FieldRepository,
	sessions SessionKeys,
	keyManager cryptoService.KeyManager,
	auditUC auditUsecase.AuditUseCase,
) ContentUseCase {
	return &contentUseCase{
		txManager:  txManager,
		fieldRepo:  fieldRepo,
		sessions:   sessions,
		keyManager: keyManager,
		auditUC:    auditUC,
	}
}
