// Package usecase defines the interfaces and implementations for the audit
// chain use cases: appending events, verifying chain integrity, listing, and
// retention purges.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// AuditEventRepository defines the interface for audit chain persistence.
type AuditEventRepository interface {
	CreateHead(ctx context.Context, tenantID uuid.UUID, genesisHash []byte) error
	GetTailForUpdate(ctx context.Context, tenantID uuid.UUID) (*auditDomain.ChainTail, error)
	Append(ctx context.Context, event *auditDomain.AuditEvent) error
	UpdateTail(ctx context.Context, tenantID uuid.UUID, sequence uint64, hash []byte) error
	ListAsc(ctx context.Context, tenantID uuid.UUID, afterSequence uint64, limit int) ([]*auditDomain.AuditEvent, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int, createdAtFrom, createdAtTo *time.Time) ([]*auditDomain.AuditEvent, error)
	DeleteThrough(ctx context.Context, tenantID uuid.UUID, throughSequence uint64) (int64, error)
}

// AuditUseCase defines the interface for audit chain business logic.
type AuditUseCase interface {
	// InitChain creates the chain head for a new tenant. Must run inside the
	// tenant creation transaction.
	InitChain(ctx context.Context, tenantID uuid.UUID) error

	// Record appends an event to the tenant's chain. Serializes against
	// concurrent appends for the same tenant via the chain head lock. Returns
	// auditDomain.ErrChainHalted when a previously detected fork has not been
	// cleared.
	Record(
		ctx context.Context,
		tenantID uuid.UUID,
		eventType, actor string,
		data auditDomain.EventData,
	) (*auditDomain.AuditEvent, error)

	// Verify walks the tenant's chain in ascending sequence order recomputing
	// every hash link. Returns *auditDomain.ChainBrokenError describing the
	// first broken link, or a summary on success. A successful verification
	// clears a fork halt for the tenant.
	Verify(ctx context.Context, tenantID uuid.UUID) (*auditDomain.VerifyResult, error)

	// Purge removes all events up to and including throughSequence, after
	// appending a summary event that anchors the removed prefix.
	Purge(
		ctx context.Context,
		tenantID uuid.UUID,
		throughSequence uint64,
		actor string,
	) (*auditDomain.PurgeResult, error)

	// List retrieves events newest first with pagination and optional
	// inclusive time bounds.
	List(
		ctx context.Context,
		tenantID uuid.UUID,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditEvent, error)
}
