// Package mocks provides mock implementations for testing audit use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/ledgerlock/ledgerlock/internal/audit/domain"
)

// MockAuditEventRepository is a mock implementation of AuditEventRepository for testing.
type MockAuditEventRepository struct {
	mock.Mock
}

// CreateHead mocks the CreateHead method of AuditEventRepository.
func (m *MockAuditEventRepository) CreateHead(
	ctx context.Context,
	tenantID uuid.UUID,
	genesisHash []byte,
) error {
	args := m.Called(ctx, tenantID, genesisHash)
	return args.Error(0)
}

// GetTailForUpdate mocks the GetTailForUpdate method of AuditEventRepository.
func (m *MockAuditEventRepository) GetTailForUpdate(
	ctx context.Context,
	tenantID uuid.UUID,
) (*auditDomain.ChainTail, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.ChainTail), args.Error(1)
}

// Append mocks the Append method of AuditEventRepository.
func (m *MockAuditEventRepository) Append(ctx context.Context, event *auditDomain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// UpdateTail mocks the UpdateTail method of AuditEventRepository.
func (m *MockAuditEventRepository) UpdateTail(
	ctx context.Context,
	tenantID uuid.UUID,
	sequence uint64,
	hash []byte,
) error {
	args := m.Called(ctx, tenantID, sequence, hash)
	return args.Error(0)
}

// ListAsc mocks the ListAsc method of AuditEventRepository.
func (m *MockAuditEventRepository) ListAsc(
	ctx context.Context,
	tenantID uuid.UUID,
	afterSequence uint64,
	limit int,
) ([]*auditDomain.AuditEvent, error) {
	args := m.Called(ctx, tenantID, afterSequence, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditEvent), args.Error(1)
}

// List mocks the List method of AuditEventRepository.
func (m *MockAuditEventRepository) List(
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

// DeleteThrough mocks the DeleteThrough method of AuditEventRepository.
func (m *MockAuditEventRepository) DeleteThrough(
	ctx context.Context,
	tenantID uuid.UUID,
	throughSequence uint64,
) (int64, error) {
	args := m.Called(ctx, tenantID, throughSequence)
	return args.Get(0).(int64), args.Error(1)
}
