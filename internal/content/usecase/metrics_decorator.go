package usecase

import (
	"context"
	"time"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	"github.com/ledgerlock/ledgerlock/internal/metrics"
)

// contentUseCaseWithMetrics decorates ContentUseCase with metrics instrumentation.
type contentUseCaseWithMetrics struct {
	next    ContentUseCase
	metrics metrics.BusinessMetrics
}

// NewContentUseCaseWithMetrics wraps a ContentUseCase with metrics recording.
func NewContentUseCaseWithMetrics(useCase ContentUseCase, m metrics.BusinessMetrics) ContentUseCase {
	return &contentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// EncryptField records metrics for field encryption operations.
func (c *contentUseCaseWithMetrics) EncryptField(
	ctx context.Context,
	input EncryptFieldInput,
) (*contentDomain.EncryptedField, error) {
	start := time.Now()
	field, err := c.next.EncryptField(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "content", "field_encrypt", status)
	c.metrics.RecordDuration(ctx, "content", "field_encrypt", time.Since(start), status)

	return field, err
}

// DecryptField records metrics for field decryption operations.
func (c *contentUseCaseWithMetrics) DecryptField(
	ctx context.Context,
	input DecryptFieldInput,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := c.next.DecryptField(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "content", "field_decrypt", status)
	c.metrics.RecordDuration(ctx, "content", "field_decrypt", time.Since(start), status)

	return plaintext, err
}
