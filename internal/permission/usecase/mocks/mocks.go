// Package mocks provides testify mocks for the permission use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// MockPermissionRepository is a mock PermissionRepository.
type MockPermissionRepository struct {
	mock.Mock
}

// Merge mocks PermissionRepository.Merge.
func (m *MockPermissionRepository) Merge(ctx context.Context, entry *permissionDomain.PermissionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Find mocks PermissionRepository.Find.
func (m *MockPermissionRepository) Find(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
) (*permissionDomain.PermissionEntry, error) {
	args := m.Called(ctx, credentialID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*permissionDomain.PermissionEntry), args.Error(1)
}

// ListByCredential mocks PermissionRepository.ListByCredential.
func (m *MockPermissionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.PermissionEntry, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*permissionDomain.PermissionEntry), args.Error(1)
}

// Delete mocks PermissionRepository.Delete.
func (m *MockPermissionRepository) Delete(ctx context.Context, credentialID uuid.UUID, actor string) error {
	args := m.Called(ctx, credentialID, actor)
	return args.Error(0)
}

// MockCredentialFinder is a mock CredentialFinder.
type MockCredentialFinder struct {
	mock.Mock
}

// FindByName mocks CredentialFinder.FindByName.
func (m *MockCredentialFinder) FindByName(ctx context.Context, name string) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// MockPermissionUseCase is a mock PermissionUseCase.
type MockPermissionUseCase struct {
	mock.Mock
}

// Grant mocks PermissionUseCase.Grant.
func (m *MockPermissionUseCase) Grant(
	ctx context.Context,
	name string,
	entries []*permissionDomain.PermissionEntry,
) error {
	args := m.Called(ctx, name, entries)
	return args.Error(0)
}

// Revoke mocks PermissionUseCase.Revoke.
func (m *MockPermissionUseCase) Revoke(ctx context.Context, name string, actor string) error {
	args := m.Called(ctx, name, actor)
	return args.Error(0)
}

// Check mocks PermissionUseCase.Check.
func (m *MockPermissionUseCase) Check(
	ctx context.Context,
	name string,
	actor string,
	op permissionDomain.Operation,
) bool {
	args := m.Called(ctx, name, actor, op)
	return args.Bool(0)
}

// ListEntries mocks PermissionUseCase.ListEntries.
func (m *MockPermissionUseCase) ListEntries(
	ctx context.Context,
	name string,
) ([]*permissionDomain.PermissionEntry, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*permissionDomain.PermissionEntry), args.Error(1)
}

// GrantCreator mocks PermissionUseCase.GrantCreator.
func (m *MockPermissionUseCase) GrantCreator(
	ctx context.Context,
	credential *credentialDomain.Credential,
	actor string,
) error {
	args := m.Called(ctx, credential, actor)
	return args.Error(0)
}
