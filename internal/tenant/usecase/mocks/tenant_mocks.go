// Package mocks provides mock implementations for testing tenant use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	tenantDomain "github.com/ledgerlock/ledgerlock/internal/tenant/domain"
	tenantUsecase "github.com/ledgerlock/ledgerlock/internal/tenant/usecase"
)

// MockTenantRepository is a mock implementation of TenantRepository for testing.
type MockTenantRepository struct {
	mock.Mock
}

// Create mocks the Create method of TenantRepository.
func (m *MockTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// GetByID mocks the GetByID method of TenantRepository.
func (m *MockTenantRepository) GetByID(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// UpdateWrapping mocks the UpdateWrapping method of TenantRepository.
func (m *MockTenantRepository) UpdateWrapping(ctx context.Context, tenant *tenantDomain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// MockTenantUseCase is a mock implementation of TenantUseCase for testing.
type MockTenantUseCase struct {
	mock.Mock
}

// Create mocks the Create method of TenantUseCase.
func (m *MockTenantUseCase) Create(
	ctx context.Context,
	input tenantUsecase.CreateTenantInput,
) (*tenantUsecase.CreateTenantOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantUsecase.CreateTenantOutput), args.Error(1)
}

// Get mocks the Get method of TenantUseCase.
func (m *MockTenantUseCase) Get(
	ctx context.Context,
	tenantID uuid.UUID,
) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// RotatePassphrase mocks the RotatePassphrase method of TenantUseCase.
func (m *MockTenantUseCase) RotatePassphrase(
	ctx context.Context,
	input tenantUsecase.RotatePassphraseInput,
) (*tenantUsecase.RotatePassphraseOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantUsecase.RotatePassphraseOutput), args.Error(1)
}

// MockDekEvictor is a mock implementation of DekEvictor for testing.
type MockDekEvictor struct {
	mock.Mock
}

// EvictTenantDek mocks the EvictTenantDek method of DekEvictor.
func (m *MockDekEvictor) EvictTenantDek(tenantID uuid.UUID) {
	m.Called(tenantID)
}
