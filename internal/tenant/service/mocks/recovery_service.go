// Package mocks provides mock implementations for testing tenant services.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockRecoveryCodeService is a mock implementation of RecoveryCodeService for testing.
type MockRecoveryCodeService struct {
	mock.Mock
}

// Generate mocks the Generate method of RecoveryCodeService.
func (m *MockRecoveryCodeService) Generate() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// Compare mocks the Compare method of RecoveryCodeService.
func (m *MockRecoveryCodeService) Compare(plainCode string, hashedCode string) bool {
	args := m.Called(plainCode, hashedCode)
	return args.Bool(0)
}
