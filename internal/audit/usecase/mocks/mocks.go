// Package mocks provides testify mocks for the audit use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
)

// MockAuditRepository is a mock AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

// Create mocks AuditRepository.Create.
func (m *MockAuditRepository) Create(ctx context.Context, record *auditDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// List mocks AuditRepository.List.
func (m *MockAuditRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Record), args.Error(1)
}

// DeleteOlderThan mocks AuditRepository.DeleteOlderThan.
func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditUseCase is a mock AuditUseCase.
type MockAuditUseCase struct {
	mock.Mock
}

// Create mocks AuditUseCase.Create.
func (m *MockAuditUseCase) Create(ctx context.Context, record *auditDomain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// List mocks AuditUseCase.List.
func (m *MockAuditUseCase) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Record), args.Error(1)
}

// DeleteOlderThan mocks AuditUseCase.DeleteOlderThan.
func (m *MockAuditUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
