// Package repository implements tenant persistence for PostgreSQL and MySQL.
// The wrapped DEK envelopes are stored as their (ciphertext, nonce, tag)
// triple in separate columns; the triple is written and read atomically with
// the rest of the tenant row.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	"github.com/ledgerlock/ledgerlock/internal/database"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
)

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new tenant into the PostgreSQL database.
func (p *PostgreSQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenants (id, name, algorithm, kdf_salt, cost_version,
				wrapped_dek_ciphertext, wrapped_dek_nonce, wrapped_dek_tag,
				recovery_salt, recovery_wrapped_dek_ciphertext, recovery_wrapped_dek_nonce, recovery_wrapped_dek_tag,
				recovery_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenant.ID,
		tenant.Name,
		string(tenant.Algorithm),
		tenant.KDFSalt,
		tenant.CostVersion,
		tenant.WrappedDek.Ciphertext,
		tenant.WrappedDek.Nonce,
		tenant.WrappedDek.Tag,
		tenant.RecoverySalt,
		tenant.RecoveryWrappedDek.Ciphertext,
		tenant.RecoveryWrappedDek.Nonce,
		tenant.RecoveryWrappedDek.Tag,
		tenant.RecoveryHash,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		if isTenantUniqueViolation(err) {
			return tenantDomain.ErrTenantExists
		}
		return apperrors.Wrap(err, "failed to create tenant")
	}

	return nil
}

// GetByID retrieves a tenant by its id.
func (p *PostgreSQLTenantRepository) GetByID(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, algorithm, kdf_salt, cost_version,
				wrapped_dek_ciphertext, wrapped_dek_nonce, wrapped_dek_tag,
				recovery_salt, recovery_wrapped_dek_ciphertext, recovery_wrapped_dek_nonce, recovery_wrapped_dek_tag,
				recovery_hash, created_at, updated_at
			  FROM tenants
			  WHERE id = $1`

	var tenant tenantDomain.Tenant
	var algorithm string
	err := querier.QueryRowContext(ctx, query, tenantID).Scan(
		&tenant.ID,
		&tenant.Name,
		&algorithm,
		&tenant.KDFSalt,
		&tenant.CostVersion,
		&tenant.WrappedDek.Ciphertext,
		&tenant.WrappedDek.Nonce,
		&tenant.WrappedDek.Tag,
		&tenant.RecoverySalt,
		&tenant.RecoveryWrappedDek.Ciphertext,
		&tenant.RecoveryWrappedDek.Nonce,
		&tenant.RecoveryWrappedDek.Tag,
		&tenant.RecoveryHash,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant by id")
	}

	tenant.Algorithm = cryptoDomain.Algorithm(algorithm)
	return &tenant, nil
}

// UpdateWrapping replaces the tenant's derivation inputs and wrapped DEK
// envelopes after a passphrase rotation.
func (p *PostgreSQLTenantRepository) UpdateWrapping(
	ctx context.Context,
	tenant *tenantDomain.Tenant,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE tenants
			  SET kdf_salt = $1, cost_version = $2,
				  wrapped_dek_ciphertext = $3, wrapped_dek_nonce = $4, wrapped_dek_tag = $5,
				  recovery_salt = $6, recovery_wrapped_dek_ciphertext = $7,
				  recovery_wrapped_dek_nonce = $8, recovery_wrapped_dek_tag = $9,
				  recovery_hash = $10, updated_at = $11
			  WHERE id = $12`

	result, err := querier.ExecContext(
		ctx,
		query,
		tenant.KDFSalt,
		tenant.CostVersion,
		tenant.WrappedDek.Ciphertext,
		tenant.WrappedDek.Nonce,
		tenant.WrappedDek.Tag,
		tenant.RecoverySalt,
		tenant.RecoveryWrappedDek.Ciphertext,
		tenant.RecoveryWrappedDek.Nonce,
		tenant.RecoveryWrappedDek.Tag,
		tenant.RecoveryHash,
		tenant.UpdatedAt,
		tenant.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update tenant wrapping")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check tenant update result")
	}
	if affected == 0 {
		return tenantDomain.ErrTenantNotFound
	}

	return nil
}

// isTenantUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isTenantUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL Tenant repository instance.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}
