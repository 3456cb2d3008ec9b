package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	"github.com/ledgerlock/ledgerlock/internal/metrics"
	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
	"github.com/ledgerlock/ledgerlock/internal/session/usecase"
	"github.com/ledgerlock/ledgerlock/internal/session/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestNewSessionUseCaseWithMetrics(t *testing.T) {
	mockUseCase := &mocks.MockSessionUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)

	assert.NotNil(t, decorator)
	assert.Implements(t, (*usecase.SessionUseCase)(nil), decorator)
}

func TestSessionMetricsDecorator_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("success records success metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := usecase.UnlockInput{
			SessionID:  "session-1",
			TenantID:   uuid.Must(uuid.NewV7()),
			Passphrase: "correct horse battery staple",
			Actor:      "api",
		}
		expectedStatus := &sessionDomain.SessionStatus{
			SessionID:  input.SessionID,
			TenantID:   input.TenantID,
			UnlockedAt: time.Now().UTC(),
		}

		mockUseCase.On("Unlock", ctx, input).Return(expectedStatus, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "session", "session_unlock", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "session", "session_unlock", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)
		status, err := decorator.Unlock(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, expectedStatus, status)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("auth failure records error metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := usecase.UnlockInput{SessionID: "session-1"}

		mockUseCase.On("Unlock", ctx, input).Return(nil, domain.ErrAuthFailure).Once()
		mockMetrics.On("RecordOperation", ctx, "session", "session_unlock", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "session", "session_unlock", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)
		status, err := decorator.Unlock(ctx, input)

		assert.ErrorIs(t, err, domain.ErrAuthFailure)
		assert.Nil(t, status)
		mockMetrics.AssertExpectations(t)
	})
}

func TestSessionMetricsDecorator_Lock(t *testing.T) {
	ctx := context.Background()

	mockUseCase := &mocks.MockSessionUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("Lock", ctx, "session-1", "api").Return(nil).Once()
	mockMetrics.On("RecordOperation", ctx, "session", "session_lock", "success").
		Return().
		Once()
	mockMetrics.On("RecordDuration", ctx, "session", "session_lock", mock.AnythingOfType("time.Duration"), "success").
		Return().
		Once()

	decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)
	err := decorator.Lock(ctx, "session-1", "api")

	assert.NoError(t, err)
	mockMetrics.AssertExpectations(t)
}

func TestSessionMetricsDecorator_PassThrough(t *testing.T) {
	ctx := context.Background()

	t.Run("status does not record metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		expectedStatus := &sessionDomain.SessionStatus{SessionID: "session-1"}
		mockUseCase.On("Status", ctx, "session-1").Return(expectedStatus, nil).Once()

		decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)
		status, err := decorator.Status(ctx, "session-1")

		assert.NoError(t, err)
		assert.Equal(t, expectedStatus, status)
		mockMetrics.AssertNotCalled(t, "RecordOperation",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tenant dek does not record metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		tenantID := uuid.Must(uuid.NewV7())
		dek := []byte("dek")
		mockUseCase.On("TenantDek", ctx, "session-1").Return(dek, tenantID, nil).Once()

		decorator := usecase.NewSessionUseCaseWithMetrics(mockUseCase, mockMetrics)
		result, resultTenantID, err := decorator.TenantDek(ctx, "session-1")

		assert.NoError(t, err)
		assert.Equal(t, dek, result)
		assert.Equal(t, tenantID, resultTenantID)
		mockMetrics.AssertNotCalled(t, "RecordOperation",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
