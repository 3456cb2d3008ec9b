// Package usecase defines the interfaces and implementations for tenant
// lifecycle business logic: provisioning the per-tenant key hierarchy and
// rotating the passphrase that protects it.
package usecase

import (
	"context"

	"github.com/google/uuid"

	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
)

// TenantRepository defines the interface for Tenant persistence operations.
type TenantRepository interface {
	Create(ctx context.Context, tenant *tenantDomain.Tenant) error
	GetByID(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error)
	UpdateWrapping(ctx context.Context, tenant *tenantDomain.Tenant) error
}

// DekEvictor drops cached plaintext DEKs for a tenant. Implemented by the
// session key cache; rotation evicts so stale unwrapped keys cannot outlive
// the wrapping they came from.
type DekEvictor interface {
	EvictTenantDek(tenantID uuid.UUID)
}

// CreateTenantInput contains the input data for tenant creation.
type CreateTenantInput struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
	Actor      string `json:"actor"`
}

// CreateTenantOutput is the result of tenant creation. RecoveryCode is shown
// exactly once; only its hash is retained.
type CreateTenantOutput struct {
	Tenant       *tenantDomain.Tenant
	RecoveryCode string
}

// RotatePassphraseInput contains the input data for passphrase rotation.
// Exactly one of CurrentPassphrase and RecoveryCode must be provided.
type RotatePassphraseInput struct {
	TenantID          uuid.UUID `json:"tenant_id"`
	CurrentPassphrase string    `json:"current_passphrase"`
	RecoveryCode      string    `json:"recovery_code"`
	NewPassphrase     string    `json:"new_passphrase"`
	Actor             string    `json:"actor"`
}

// RotatePassphraseOutput is the result of a passphrase rotation. Rotation
// always issues a fresh recovery code; the previous one stops working.
type RotatePassphraseOutput struct {
	RecoveryCode string
}

// TenantUseCase defines the interface for tenant lifecycle business logic.
type TenantUseCase interface {
	// Create provisions a tenant: generates the DEK, wraps it under the
	// passphrase-derived KEK and under a recovery-code-derived KEK, and
	// initializes the tenant's audit chain.
	Create(ctx context.Context, input CreateTenantInput) (*CreateTenantOutput, error)

	// Get retrieves a tenant by id.
	Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error)

	// RotatePassphrase re-wraps the DEK under a new passphrase. Access is
	// proven with the current passphrase or the recovery code; content is
	// never re-encrypted because the DEK itself does not change.
	RotatePassphrase(ctx context.Context, input RotatePassphraseInput) (*RotatePassphraseOutput, error)
}
