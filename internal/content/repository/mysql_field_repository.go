package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// MySQLFieldRepository implements EncryptedField persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLFieldRepository struct {
	db *sql.DB
}

// Upsert inserts the encrypted field, replacing the envelope when the
// (tenant, entity, field name) already exists.
func (m *MySQLFieldRepository) Upsert(
	ctx context.Context,
	field *contentDomain.EncryptedField,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := field.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal field id")
	}
	tenantID, err := field.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}
	entityID, err := field.EntityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity id")
	}

	query := `INSERT INTO encrypted_fields (id, tenant_id, entity_id, field_name,
				ciphertext, nonce, tag, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE ciphertext = VALUES(ciphertext),
									  nonce = VALUES(nonce),
									  tag = VALUES(tag),
									  updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		entityID,
		field.FieldName,
		field.Envelope.Ciphertext,
		field.Envelope.Nonce,
		field.Envelope.Tag,
		field.CreatedAt,
		field.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert encrypted field")
	}

	return nil
}

// Get retrieves the encrypted field for a (tenant, entity, field name).
func (m *MySQLFieldRepository) Get(
	ctx context.Context,
	tenantID, entityID uuid.UUID,
	fieldName string,
) (*contentDomain.EncryptedField, error) {
	querier := database.GetTx(ctx, m.db)

	tenantIDBinary, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}
	entityIDBinary, err := entityID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal entity id")
	}

	query := `SELECT id, tenant_id, entity_id, field_name, ciphertext, nonce, tag,
				created_at, updated_at
			  FROM encrypted_fields
			  WHERE tenant_id = ? AND entity_id = ? AND field_name = ?`

	var field contentDomain.EncryptedField
	var idBinary, tenantBinary, entityBinary []byte
	err = querier.QueryRowContext(ctx, query, tenantIDBinary, entityIDBinary, fieldName).Scan(
		&idBinary,
		&tenantBinary,
		&entityBinary,
		&field.FieldName,
		&field.Envelope.Ciphertext,
		&field.Envelope.Nonce,
		&field.Envelope.Tag,
		&field.CreatedAt,
		&field.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, contentDomain.ErrFieldNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get encrypted field")
	}

	if err := field.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal field id")
	}
	if err := field.TenantID.UnmarshalBinary(tenantBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}
	if err := field.EntityID.UnmarshalBinary(entityBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal entity id")
	}

	return &field, nil
}

// NewMySQLFieldRepository creates a new MySQL EncryptedField repository instance.
func NewMySQLFieldRepository(db *sql.DB) *MySQLFieldRepository {
	return &MySQLFieldRepository{db: db}
}
