package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// MockAuditUseCase is a mock implementation of AuditUseCase for testing.
type MockAuditUseCase struct {
	mock.Mock
}

// InitChain mocks the InitChain method of AuditUseCase.
func (m *MockAuditUseCase) InitChain(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

// Record mocks the Record method of AuditUseCase.
func (m *MockAuditUseCase) Record(
	ctx context.Context,
	tenantID uuid.UUID,
	eventType, actor string,
	data auditDomain.EventData,
) (*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, tenantID, eventType, actor, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AuditEvent), args.Error(1)
}

// Verify mocks the Verify method of AuditUseCase.
func (m *MockAuditUseCase) Verify(
	ctx context.Context,
	tenantID uuid.UUID,
) (*auditDomain.VerifyResult, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerifyResult), args.Error(1)
}

// Purge mocks the Purge method of AuditUseCase.
func (m *MockAuditUseCase) Purge(
	ctx context.Context,
	tenantID uuid.UUID,
	throughSequence uint64,
	actor string,
) (*auditDomain.PurgeResult, error) {
	args := m.Called(ctx, tenantID, throughSequence, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.PurgeResult), args.Error(1)
}

// List mocks the List method of AuditUseCase.
func (m *MockAuditUseCase) List(
	ctx context.Context,
	tenantID uuid.UUID,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, tenantID, offset, limit, createdAtFrom, createdAtTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEvent), args.Error(1)
}
