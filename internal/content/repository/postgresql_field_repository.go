// Package repository implements encrypted field persistence for PostgreSQL
// and MySQL. The (ciphertext, nonce, tag) triple is one row, written
// atomically; a re-encryption replaces the triple in place.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
)

// PostgreSQLFieldRepository implements EncryptedField persistence for PostgreSQL.
type PostgreSQLFieldRepository struct {
	db *sql.DB
}

// Upsert inserts the encrypted field, replacing the envelope when the
// (tenant, entity, field name) already exists.
func (p *PostgreSQLFieldRepository) Upsert(
	ctx context.Context,
	field *contentDomain.EncryptedField,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_fields (id, tenant_id, entity_id, field_name,
				ciphertext, nonce, tag, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (tenant_id, entity_id, field_name)
			  DO UPDATE SET ciphertext = EXCLUDED.ciphertext,
							nonce = EXCLUDED.nonce,
							tag = EXCLUDED.tag,
							updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		field.ID,
		field.TenantID,
		field.EntityID,
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
func (p *PostgreSQLFieldRepository) Get(
	ctx context.Context,
	tenantID, entityID uuid.UUID,
	fieldName string,
) (*contentDomain.EncryptedField, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, entity_id, field_name, ciphertext, nonce, tag,
				created_at, updated_at
			  FROM encrypted_fields
			  WHERE tenant_id = $1 AND entity_id = $2 AND field_name = $3`

	var field contentDomain.EncryptedField
	err := querier.QueryRowContext(ctx, query, tenantID, entityID, fieldName).Scan(
		&field.ID,
		&field.TenantID,
		&field.EntityID,
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

	return &field, nil
}

// NewPostgreSQLFieldRepository creates a new PostgreSQL EncryptedField repository instance.
func NewPostgreSQLFieldRepository(db *sql.DB) *PostgreSQLFieldRepository {
	return &PostgreSQLFieldRepository{db: db}
}
