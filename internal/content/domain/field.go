// Package domain defines the encrypted content field domain models. A field
// is the unit of envelope encryption: one (ciphertext, nonce, tag) triple per
// (tenant, entity, field name), sealed under the tenant DEK.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	"github.com/ledgerlock/ledgerlock/internal/errors"
)

// ErrFieldNotFound indicates no encrypted field exists for the requested
// (tenant, entity, field name).
var ErrFieldNotFound = errors.Wrap(errors.ErrNotFound, "encrypted field")

// EncryptedField is one stored envelope. Re-encrypting the same
// (tenant, entity, field name) replaces the envelope in place.
type EncryptedField struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	EntityID  uuid.UUID
	FieldName string
	Envelope  cryptoDomain.Envelope
	CreatedAt time.Time
	UpdatedAt time.Time
}
