package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	"github.com/ledgerlock/ledgerlock/internal/content/usecase"
	"github.com/ledgerlock/ledgerlock/internal/content/usecase/mocks"
	"github.com/ledgerlock/ledgerlock/internal/metrics"
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

func TestNewContentUseCaseWithMetrics(t *testing.T) {
	mockUseCase := &mocks.MockContentUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	decorator := usecase.NewContentUseCaseWithMetrics(mockUseCase, mockMetrics)

	assert.NotNil(t, decorator)
	assert.Implements(t, (*usecase.ContentUseCase)(nil), decorator)
}

func TestContentMetricsDecorator_EncryptField(t *testing.T) {
	ctx := context.Background()

	t.Run("success records success metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockContentUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := usecase.EncryptFieldInput{
			SessionID: "session-1",
			EntityID:  uuid.Must(uuid.NewV7()),
			FieldName: "document_body",
			Plaintext: []byte("plaintext"),
			Actor:     "api",
		}
		expectedField := &contentDomain.EncryptedField{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  uuid.Must(uuid.NewV7()),
			EntityID:  input.EntityID,
			FieldName: input.FieldName,
		}

		mockUseCase.On("EncryptField", ctx, input).Return(expectedField, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "content", "field_encrypt", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "content", "field_encrypt", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := usecase.NewContentUseCaseWithMetrics(mockUseCase, mockMetrics)
		field, err := decorator.EncryptField(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, expectedField, field)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("error records error metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockContentUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := usecase.EncryptFieldInput{SessionID: "session-1"}
		expectedErr := errors.New("boom")

		mockUseCase.On("EncryptField", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "content", "field_encrypt", "error").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "content", "field_encrypt", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := usecase.NewContentUseCaseWithMetrics(mockUseCase, mockMetrics)
		field, err := decorator.EncryptField(ctx, input)

		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, field)
		mockMetrics.AssertExpectations(t)
	})
}

func TestContentMetricsDecorator_DecryptField(t *testing.T) {
	ctx := context.Background()

	t.Run("success records success metrics", func(t *testing.T) {
		mockUseCase := &mocks.MockContentUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		input := usecase.DecryptFieldInput{
			SessionID: "session-1",
			EntityID:  uuid.Must(uuid.NewV7()),
			FieldName: "document_body",
		}
		plaintext := []byte("plaintext")

		mockUseCase.On("DecryptField", ctx, input).Return(plaintext, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "content", "field_decrypt", "success").
			Return().
			Once()
		mockMetrics.On("RecordDuration", ctx, "content", "field_decrypt", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := usecase.NewContentUseCaseWithMetrics(mockUseCase, mockMetrics)
		result, err := decorator.DecryptField(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, plaintext, result)
		mockMetrics.AssertExpectations(t)
	})
}
