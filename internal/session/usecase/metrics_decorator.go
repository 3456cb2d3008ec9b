package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlock/ledgerlock/internal/metrics"
	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Unlock records metrics for session unlock operations.
func (s *sessionUseCaseWithMetrics) Unlock(
	ctx context.Context,
	input UnlockInput,
) (*sessionDomain.SessionStatus, error) {
	start := time.Now()
	status, err := s.next.Unlock(ctx, input)

	result := "success"
	if err != nil {
		result = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "session_unlock", result)
	s.metrics.RecordDuration(ctx, "session", "session_unlock", time.Since(start), result)

	return status, err
}

// Status forwards without recording; it is a cache read already covered by
// request-level HTTP metrics.
func (s *sessionUseCaseWithMetrics) Status(
	ctx context.Context,
	sessionID string,
) (*sessionDomain.SessionStatus, error) {
	return s.next.Status(ctx, sessionID)
}

// Lock records metrics for session lock operations.
func (s *sessionUseCaseWithMetrics) Lock(ctx context.Context, sessionID, actor string) error {
	start := time.Now()
	err := s.next.Lock(ctx, sessionID, actor)

	result := "success"
	if err != nil {
		result = "error"
	}

	s.metrics.RecordOperation(ctx, "session", "session_lock", result)
	s.metrics.RecordDuration(ctx, "session", "session_lock", time.Since(start), result)

	return err
}

// TenantDek forwards without recording; it runs once per field operation and
// the content metrics already count those.
func (s *sessionUseCaseWithMetrics) TenantDek(
	ctx context.Context,
	sessionID string,
) ([]byte, uuid.UUID, error) {
	return s.next.TenantDek(ctx, sessionID)
}
