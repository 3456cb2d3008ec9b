// Package mocks provides mock implementations for testing transaction management.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of TxManager for testing. WithTx
// invokes the callback with the caller's context, so repository mocks see
// the same context the test passed in.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if fn != nil {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return args.Error(0)
}
