// Package mocks provides mock implementations of the database package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager runs the callback inline after recording the call.
type MockTxManager struct {
	mock.Mock
}

// WithTx records the call and, unless an error was configured, invokes fn with ctx.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// NewMockTxManager returns a MockTxManager that accepts any number of transactions.
func NewMockTxManager() *MockTxManager {
	m := &MockTxManager{}
	m.On("WithTx", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}
