// Package usecase implements content field encryption business logic. Fields
// are sealed under the session tenant's DEK, bound to their
// (tenant, entity, field name) identity, and every encryption is appended to
// the tenant's audit chain.
package usecase

import (
	"context"

	"github.com/google/uuid"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
)

// FieldRepository defines the interface for EncryptedField persistence operations.
type FieldRepository interface {
	Upsert(ctx context.Context, field *contentDomain.EncryptedField) error
	Get(ctx context.Context, tenantID, entityID uuid.UUID, fieldName string) (*contentDomain.EncryptedField, error)
}

// SessionKeys resolves an unlocked session to its tenant's plaintext DEK.
// Implemented by the session use case.
type SessionKeys interface {
	TenantDek(ctx context.Context, sessionID string) ([]byte, uuid.UUID, error)
}

// EncryptFieldInput contains the input data for a field encryption. TenantID
// is optional; when set, the session must belong to that tenant.
type EncryptFieldInput struct {
	SessionID string    `json:"session_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	EntityID  uuid.UUID `json:"entity_id"`
	FieldName string    `json:"field_name"`
	Plaintext []byte    `json:"plaintext"`
	Actor     string    `json:"actor"`
}

// DecryptFieldInput contains the input data for a field decryption. TenantID
// is optional; when set, the session must belong to that tenant.
type DecryptFieldInput struct {
	SessionID string    `json:"session_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	EntityID  uuid.UUID `json:"entity_id"`
	FieldName string    `json:"field_name"`
}

// ContentUseCase defines the interface for content field business logic.
type ContentUseCase interface {
	// EncryptField seals the plaintext under the session tenant's DEK and
	// stores the envelope, replacing any previous envelope for the same
	// (entity, field name). The write and its audit event share a transaction.
	EncryptField(ctx context.Context, input EncryptFieldInput) (*contentDomain.EncryptedField, error)

	// DecryptField opens the stored envelope. Tampered ciphertext and an
	// envelope moved between fields both return ErrAuthFailure.
	DecryptField(ctx context.Context, input DecryptFieldInput) ([]byte, error)
}
