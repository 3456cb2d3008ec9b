// Package mocks provides mock implementations for testing content use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	contentDomain "github.com/ledgerlock/ledgerlock/internal/content/domain"
	contentUsecase "github.com/ledgerlock/ledgerlock/internal/content/usecase"
)

// MockFieldRepository is a mock implementation of FieldRepository for testing.
type MockFieldRepository struct {
	mock.Mock
}

// Upsert mocks the Upsert method of FieldRepository.
func (m *MockFieldRepository) Upsert(ctx context.Context, field *contentDomain.EncryptedField) error {
	args := m.Called(ctx, field)
	return args.Error(0)
}

// Get mocks the Get method of FieldRepository.
func (m *MockFieldRepository) Get(
	ctx context.Context,
	tenantID, entityID uuid.UUID,
	fieldName string,
) (*contentDomain.EncryptedField, error) {
	args := m.Called(ctx, tenantID, entityID, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentDomain.EncryptedField), args.Error(1)
}

// MockSessionKeys is a mock implementation of SessionKeys for testing.
type MockSessionKeys struct {
	mock.Mock
}

// TenantDek mocks the TenantDek method of SessionKeys.
func (m *MockSessionKeys) TenantDek(
	ctx context.Context,
	sessionID string,
) ([]byte, uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uuid.UUID), args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(uuid.UUID), args.Error(2)
}

// MockContentUseCase is a mock implementation of ContentUseCase for testing.
type MockContentUseCase struct {
	mock.Mock
}

// EncryptField mocks the EncryptField method of ContentUseCase.
func (m *MockContentUseCase) EncryptField(
	ctx context.Context,
	input contentUsecase.EncryptFieldInput,
) (*contentDomain.EncryptedField, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentDomain.EncryptedField), args.Error(1)
}

// DecryptField mocks the DecryptField method of ContentUseCase.
func (m *MockContentUseCase) DecryptField(
	ctx context.Context,
	input contentUsecase.DecryptFieldInput,
) ([]byte, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
