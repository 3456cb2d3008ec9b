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

// MySQLTenantRepository implements Tenant persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLTenantRepository struct {
	db *sql.DB
}

// Create inserts a new tenant into the MySQL database.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `INSERT INTO tenants (id, name, algorithm, kdf_salt, cost_version,
				wrapped_dek_ciphertext, wrapped_dek_nonce, wrapped_dek_tag,
				recovery_salt, recovery_wrapped_dek_ciphertext, recovery_wrapped_dek_nonce, recovery_wrapped_dek_tag,
				recovery_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		if isMySQLTenantUniqueViolation(err) {
			return tenantDomain.ErrTenantExists
		}
		return apperrors.Wrap(err, "failed to create tenant")
	}

	return nil
}

// GetByID retrieves a tenant by its id, unmarshaling the BINARY(16) UUID.
func (m *MySQLTenantRepository) GetByID(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `SELECT id, name, algorithm, kdf_salt, cost_version,
				wrapped_dek_ciphertext, wrapped_dek_nonce, wrapped_dek_tag,
				recovery_salt, recovery_wrapped_dek_ciphertext, recovery_wrapped_dek_nonce, recovery_wrapped_dek_tag,
				recovery_hash, created_at, updated_at
			  FROM tenants
			  WHERE id = ?`

	var tenant tenantDomain.Tenant
	var idBinary []byte
	var algorithm string
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBinary,
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

	if err := tenant.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	tenant.Algorithm = cryptoDomain.Algorithm(algorithm)
	return &tenant, nil
}

// UpdateWrapping replaces the tenant's derivation inputs and wrapped DEK
// envelopes after a passphrase rotation.
func (m *MySQLTenantRepository) UpdateWrapping(
	ctx context.Context,
	tenant *tenantDomain.Tenant,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	query := `UPDATE tenants
			  SET kdf_salt = ?, cost_version = ?,
				  wrapped_dek_ciphertext = ?, wrapped_dek_nonce = ?, wrapped_dek_tag = ?,
				  recovery_salt = ?, recovery_wrapped_dek_ciphertext = ?,
				  recovery_wrapped_dek_nonce = ?, recovery_wrapped_dek_tag = ?,
				  recovery_hash = ?, updated_at = ?
			  WHERE id = ?`

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
		id,
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

// isMySQLTenantUniqueViolation checks if the error is a MySQL unique constraint violation.
func isMySQLTenantUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}

// NewMySQLTenantRepository creates a new MySQL Tenant repository instance.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}
