// Package mocks provides testify mocks for the regeneration use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// MockCredentialService is a mock CredentialService.
type MockCredentialService struct {
	mock.Mock
}

// FindMostRecent mocks CredentialService.FindMostRecent.
func (m *MockCredentialService) FindMostRecent(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialVersion), args.Error(1)
}

// FindAllCertificateCredentialsByCaName mocks CredentialService.FindAllCertificateCredentialsByCaName.
func (m *MockCredentialService) FindAllCertificateCredentialsByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	args := m.Called(ctx, caName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Save mocks CredentialService.Save.
func (m *MockCredentialService) Save(
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

// MockValueGenerator is a mock ValueGenerator.
type MockValueGenerator struct {
	mock.Mock
}

// Generate mocks ValueGenerator.Generate.
func (m *MockValueGenerator) Generate(
	ctx context.Context,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialValue, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialValue), args.Error(1)
}

// MockRequestBuilder is a mock RequestBuilder.
type MockRequestBuilder struct {
	mock.Mock
}

// CreateGenerateRequest mocks RequestBuilder.CreateGenerateRequest.
func (m *MockRequestBuilder) CreateGenerateRequest(
	ctx context.Context,
	version credentialDomain.CredentialVersion,
) (credentialDomain.GenerateRequest, error) {
	args := m.Called(ctx, version)
	return args.Get(0).(credentialDomain.GenerateRequest), args.Error(1)
}

// MockAuditRecord is a mock AuditRecord.
type MockAuditRecord struct {
	mock.Mock
}

// SetVersion mocks AuditRecord.SetVersion.
func (m *MockAuditRecord) SetVersion(version credentialDomain.CredentialVersion) {
	m.Called(version)
}

// SetResource mocks AuditRecord.SetResource.
func (m *MockAuditRecord) SetResource(credential *credentialDomain.Credential) {
	m.Called(credential)
}

// AddVersion mocks AuditRecord.AddVersion.
func (m *MockAuditRecord) AddVersion(version credentialDomain.CredentialVersion) {
	m.Called(version)
}

// AddResource mocks AuditRecord.AddResource.
func (m *MockAuditRecord) AddResource(credential *credentialDomain.Credential) {
	m.Called(credential)
}

// SetRequestDetails mocks AuditRecord.SetRequestDetails.
func (m *MockAuditRecord) SetRequestDetails(details map[string]any) {
	m.Called(details)
}
