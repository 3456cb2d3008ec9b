// Package mocks provides mock implementations for testing session use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
	sessionUsecase "github.com/ledgerlock/ledgerlock/internal/session/usecase"
)

// MockSessionUseCase is a mock implementation of SessionUseCase for testing.
type MockSessionUseCase struct {
	mock.Mock
}

// Unlock mocks the Unlock method of SessionUseCase.
func (m *MockSessionUseCase) Unlock(
	ctx context.Context,
	input sessionUsecase.UnlockInput,
) (*sessionDomain.SessionStatus, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.SessionStatus), args.Error(1)
}

// Status mocks the Status method of SessionUseCase.
func (m *MockSessionUseCase) Status(
	ctx context.Context,
	sessionID string,
) (*sessionDomain.SessionStatus, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.SessionStatus), args.Error(1)
}

// Lock mocks the Lock method of SessionUseCase.
func (m *MockSessionUseCase) Lock(ctx context.Context, sessionID, actor string) error {
	args := m.Called(ctx, sessionID, actor)
	return args.Error(0)
}

// TenantDek mocks the TenantDek method of SessionUseCase.
func (m *MockSessionUseCase) TenantDek(
	ctx context.Context,
	sessionID string,
) ([]byte, uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uuid.UUID), args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(uuid.UUID), args.Error(2)
}
