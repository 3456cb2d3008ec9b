// Package mocks provides mock implementations for testing cryptographic services.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoService "github.com/ledgerlock/ledgerlock/internal/crypto/service"
)

// MockKeyDeriver is a mock implementation of KeyDeriver for testing.
type MockKeyDeriver struct {
	mock.Mock
}

// Derive mocks the Derive method of KeyDeriver.
func (m *MockKeyDeriver) Derive(ctx context.Context, passphrase string, salt []byte) ([]byte, error) {
	args := m.Called(ctx, passphrase, salt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockKeyManager is a mock implementation of KeyManager for testing.
type MockKeyManager struct {
	mock.Mock
}

// GenerateDek mocks the GenerateDek method of KeyManager.
func (m *MockKeyManager) GenerateDek() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// WrapDek mocks the WrapDek method of KeyManager.
func (m *MockKeyManager) WrapDek(kek, dek []byte, tenantID uuid.UUID) (cryptoDomain.Envelope, error) {
	args := m.Called(kek, dek, tenantID)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}

// UnwrapDek mocks the UnwrapDek method of KeyManager.
func (m *MockKeyManager) UnwrapDek(
	kek []byte,
	envelope cryptoDomain.Envelope,
	tenantID uuid.UUID,
) ([]byte, error) {
	args := m.Called(kek, envelope, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// SealField mocks the SealField method of KeyManager.
func (m *MockKeyManager) SealField(
	dek, plaintext []byte,
	tenantID, entityID uuid.UUID,
	fieldName string,
) (cryptoDomain.Envelope, error) {
	args := m.Called(dek, plaintext, tenantID, entityID, fieldName)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}

// OpenField mocks the OpenField method of KeyManager.
func (m *MockKeyManager) OpenField(
	dek []byte,
	envelope cryptoDomain.Envelope,
	tenantID, entityID uuid.UUID,
	fieldName string,
) ([]byte, error) {
	args := m.Called(dek, envelope, tenantID, entityID, fieldName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAEAD is a mock implementation of AEAD for testing.
type MockAEAD struct {
	mock.Mock
}

// Seal mocks the Seal method of AEAD.
func (m *MockAEAD) Seal(plaintext, identity []byte) (cryptoDomain.Envelope, error) {
	args := m.Called(plaintext, identity)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}

// Open mocks the Open method of AEAD.
func (m *MockAEAD) Open(envelope cryptoDomain.Envelope, identity []byte) ([]byte, error) {
	args := m.Called(envelope, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAEADManager is a mock implementation of AEADManager for testing.
type MockAEADManager struct {
	mock.Mock
}

// CreateCipher mocks the CreateCipher method of AEADManager.
func (m *MockAEADManager) CreateCipher(
	key []byte,
	alg cryptoDomain.Algorithm,
) (cryptoService.AEAD, error) {
	args := m.Called(key, alg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.AEAD), args.Error(1)
}

// MockEnvelopeWrapper is a mock implementation of EnvelopeWrapper for testing.
type MockEnvelopeWrapper struct {
	mock.Mock
}

// WrapForStorage mocks the WrapForStorage method of EnvelopeWrapper.
func (m *MockEnvelopeWrapper) WrapForStorage(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
) (cryptoDomain.Envelope, error) {
	args := m.Called(ctx, envelope)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}

// UnwrapFromStorage mocks the UnwrapFromStorage method of EnvelopeWrapper.
func (m *MockEnvelopeWrapper) UnwrapFromStorage(
	ctx context.Context,
	envelope cryptoDomain.Envelope,
) (cryptoDomain.Envelope, error) {
	args := m.Called(ctx, envelope)
	return args.Get(0).(cryptoDomain.Envelope), args.Error(1)
}
