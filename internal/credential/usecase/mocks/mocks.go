// Package mocks provides testify mocks for the credential use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// MockCredentialRepository is a mock CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// Create mocks CredentialRepository.Create.
func (m *MockCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// FindByName mocks CredentialRepository.FindByName.
func (m *MockCredentialRepository) FindByName(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// FindByID mocks CredentialRepository.FindByID.
func (m *MockCredentialRepository) FindByID(ctx context.Context, id uuid.UUID) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

// Delete mocks CredentialRepository.Delete.
func (m *MockCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVersionRepository is a mock VersionRepository.
type MockVersionRepository struct {
	mock.Mock
}

// Create mocks VersionRepository.Create.
func (m *MockVersionRepository) Create(ctx context.Context, record *credentialDomain.VersionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// FindMostRecent mocks VersionRepository.FindMostRecent.
func (m *MockVersionRepository) FindMostRecent(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.VersionRecord, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.VersionRecord), args.Error(1)
}

// FindByID mocks VersionRepository.FindByID.
func (m *MockVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*credentialDomain.VersionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.VersionRecord), args.Error(1)
}

// ListByCredential mocks VersionRepository.ListByCredential.
func (m *MockVersionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
	limit int,
) ([]*credentialDomain.VersionRecord, error) {
	args := m.Called(ctx, credentialID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.VersionRecord), args.Error(1)
}

// ListCertificateNamesByCaName mocks VersionRepository.ListCertificateNamesByCaName.
func (m *MockVersionRepository) ListCertificateNamesByCaName(ctx context.Context, caName string) ([]string, error) {
	args := m.Called(ctx, caName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPermissionService is a mock PermissionService.
type MockPermissionService struct {
	mock.Mock
}

// Check mocks PermissionService.Check.
func (m *MockPermissionService) Check(
	ctx context.Context,
	name string,
	actor string,
	op permissionDomain.Operation,
) bool {
	args := m.Called(ctx, name, actor, op)
	return args.Bool(0)
}

// GrantCreator mocks PermissionService.GrantCreator.
func (m *MockPermissionService) GrantCreator(
	ctx context.Context,
	credential *credentialDomain.Credential,
	actor string,
) error {
	args := m.Called(ctx, credential, actor)
	return args.Error(0)
}

// MockCredentialUseCase is a mock CredentialUseCase.
type MockCredentialUseCase struct {
	mock.Mock
}

// FindMostRecent mocks CredentialUseCase.FindMostRecent.
func (m *MockCredentialUseCase) FindMostRecent(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialVersion), args.Error(1)
}

// FindAllCertificateCredentialsByCaName mocks CredentialUseCase.FindAllCertificateCredentialsByCaName.
func (m *MockCredentialUseCase) FindAllCertificateCredentialsByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	args := m.Called(ctx, caName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Save mocks CredentialUseCase.Save.
func (m *MockCredentialUseCase) Save(
	ctx context.Context,
	existing credentialDomain.CredentialVersion,
	value credentialDomain.CredentialValue,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, existing, value, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialVersion), args.Error(1)
}

// Get mocks CredentialUseCase.Get.
func (m *MockCredentialUseCase) Get(ctx context.Context, name string) (credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialVersion), args.Error(1)
}

// GetVersions mocks CredentialUseCase.GetVersions.
func (m *MockCredentialUseCase) GetVersions(
	ctx context.Context,
	name string,
	limit int,
) ([]credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]credentialDomain.CredentialVersion), args.Error(1)
}

// GetByID mocks CredentialUseCase.GetByID.
func (m *MockCredentialUseCase) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialVersion), args.Error(1)
}

// Delete mocks CredentialUseCase.Delete.
func (m *MockCredentialUseCase) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
