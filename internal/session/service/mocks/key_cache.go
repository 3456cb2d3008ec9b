// Package mocks provides mock implementations for testing session services.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
	sessionService "github.com/ledgerlock/ledgerlock/internal/session/service"
)

// MockKeyCache is a mock implementation of KeyCache for testing.
type MockKeyCache struct {
	mock.Mock
}

// Unlock mocks the Unlock method of KeyCache. On a registered nil result the
// derive function runs, so tests can exercise the derivation path.
func (m *MockKeyCache) Unlock(
	ctx context.Context,
	sessionID string,
	tenantID uuid.UUID,
	derive sessionService.KeyFunc,
) ([]byte, error) {
	args := m.Called(ctx, sessionID, tenantID, derive)
	if args.Get(0) == nil && args.Error(1) == nil {
		return derive(ctx)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// SessionKek mocks the SessionKek method of KeyCache.
func (m *MockKeyCache) SessionKek(sessionID string) ([]byte, uuid.UUID, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uuid.UUID), args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(uuid.UUID), args.Error(2)
}

// Status mocks the Status method of KeyCache.
func (m *MockKeyCache) Status(sessionID string) (*sessionDomain.SessionStatus, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.SessionStatus), args.Error(1)
}

// GetOrUnwrapDek mocks the GetOrUnwrapDek method of KeyCache. On a registered
// nil result the unwrap function runs, so tests can exercise the miss path.
func (m *MockKeyCache) GetOrUnwrapDek(
	ctx context.Context,
	tenantID uuid.UUID,
	unwrap sessionService.KeyFunc,
) ([]byte, error) {
	args := m.Called(ctx, tenantID, unwrap)
	if args.Get(0) == nil && args.Error(1) == nil {
		return unwrap(ctx)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// PutDek mocks the PutDek method of KeyCache.
func (m *MockKeyCache) PutDek(tenantID uuid.UUID, dek []byte) {
	m.Called(tenantID, dek)
}

// EvictSession mocks the EvictSession method of KeyCache.
func (m *MockKeyCache) EvictSession(sessionID string) {
	m.Called(sessionID)
}

// EvictTenantDek mocks the EvictTenantDek method of KeyCache.
func (m *MockKeyCache) EvictTenantDek(tenantID uuid.UUID) {
	m.Called(tenantID)
}
