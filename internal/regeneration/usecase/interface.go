// Package usecase implements the regeneration engine: rebuilding a stored credential's
// generation request from its non-secret metadata, generating a fresh value and saving
// it as a new version, for one credential or for every certificate beneath a CA.
package usecase

import (
	"context"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// CredentialService is the part of the versioning service the engine needs.
type CredentialService interface {
	FindMostRecent(ctx context.Context, name string) (credentialDomain.CredentialVersion, error)
	FindAllCertificateCredentialsByCaName(ctx context.Context, caName string) ([]string, error)
	Save(
		ctx context.Context,
		existing credentialDomain.CredentialVersion,
		value credentialDomain.CredentialValue,
		req credentialDomain.GenerateRequest,
	) (credentialDomain.CredentialVersion, error)
}

// ValueGenerator produces a value for a request.
type ValueGenerator interface {
	Generate(ctx context.Context, req credentialDomain.GenerateRequest) (credentialDomain.CredentialValue, error)
}

// RequestBuilder rebuilds the request that reproduces a stored version.
type RequestBuilder interface {
	CreateGenerateRequest(
		ctx context.Context,
		version credentialDomain.CredentialVersion,
	) (credentialDomain.GenerateRequest, error)
}

// AuditRecord receives what a regeneration touched.
type AuditRecord interface {
	SetVersion(version credentialDomain.CredentialVersion)
	SetResource(credential *credentialDomain.Credential)
	AddVersion(version credentialDomain.CredentialVersion)
	AddResource(credential *credentialDomain.Credential)
	SetRequestDetails(details map[string]any)
}

// RegenerationUseCase regenerates credentials.
type RegenerationUseCase interface {
	// HandleRegenerate regenerates name and returns the new version.
	HandleRegenerate(ctx context.Context, name string, record AuditRecord) (credentialDomain.CredentialVersion, error)
	// HandleBulkRegenerate regenerates every certificate signed by caName, depth first,
	// and returns the regenerated names in processing order.
	HandleBulkRegenerate(ctx context.Context, caName string, record AuditRecord) ([]string, error)
}
