package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/metrics"
	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
)

// tenantUseCaseWithMetrics decorates TenantUseCase with metrics instrumentation.
type tenantUseCaseWithMetrics struct {
	next    TenantUseCase
	metrics metrics.BusinessMetrics
}

// NewTenantUseCaseWithMetrics wraps a TenantUseCase with metrics recording.
func NewTenantUseCaseWithMetrics(useCase TenantUseCase, m metrics.BusinessMetrics) TenantUseCase {
	return &tenantUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for tenant creation operations.
func (t *tenantUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateTenantInput,
) (*CreateTenantOutput, error) {
	start := time.Now()
	output, err := t.next.Create(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tenant", "tenant_create", status)
	t.metrics.RecordDuration(ctx, "tenant", "tenant_create", time.Since(start), status)

	return output, err
}

// Get forwards without recording.
func (t *tenantUseCaseWithMetrics) Get(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	return t.next.Get(ctx, tenantID)
}

// RotatePassphrase records metrics for passphrase rotation operations.
func (t *tenantUseCaseWithMetrics) RotatePassphrase(
	ctx context.Context,
	input RotatePassphraseInput,
) (*RotatePassphraseOutput, error) {
	start := time.Now()
	output, err := t.next.RotatePassphrase(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "tenant", "passphrase_rotate", status)
	t.metrics.RecordDuration(ctx, "tenant", "passphrase_rotate", time.Since(start), status)

	return output, err
}
