// Package usecase implements the credential versioning service: every write appends a
// new version under one transaction, and every read or delete is gated by the
// permission engine.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// CredentialRepository persists credential identities.
type CredentialRepository interface {
	Create(ctx context.Context, credential *credentialDomain.Credential) error
	FindByName(ctx context.Context, name string) (*credentialDomain.Credential, error)
	FindByID(ctx context.Context, id uuid.UUID) (*credentialDomain.Credential, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// VersionRepository persists credential versions.
type VersionRepository interface {
	Create(ctx context.Context, record *credentialDomain.VersionRecord) error
	FindMostRecent(ctx context.Context, credentialID uuid.UUID) (*credentialDomain.VersionRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*credentialDomain.VersionRecord, error)
	ListByCredential(
		ctx context.Context,
		credentialID uuid.UUID,
		limit int,
	) ([]*credentialDomain.VersionRecord, error)
	ListCertificateNamesByCaName(ctx context.Context, caName string) ([]string, error)
}

// PermissionService is the part of the permission engine the versioning service needs.
type PermissionService interface {
	Check(ctx context.Context, name string, actor string, op permissionDomain.Operation) bool
	GrantCreator(ctx context.Context, credential *credentialDomain.Credential, actor string) error
}

// CredentialUseCase is the credential versioning service.
type CredentialUseCase interface {
	// FindMostRecent returns the newest version without an access check. It backs
	// internal lookups such as "does this credential exist yet".
	FindMostRecent(ctx context.Context, name string) (credentialDomain.CredentialVersion, error)
	// FindAllCertificateCredentialsByCaName returns the certificates signed by caName.
	// The caller needs read on caName.
	FindAllCertificateCredentialsByCaName(ctx context.Context, caName string) ([]string, error)
	// Save appends a version built from existing (nil for a new credential) and value.
	Save(
		ctx context.Context,
		existing credentialDomain.CredentialVersion,
		value credentialDomain.CredentialValue,
		req credentialDomain.GenerateRequest,
	) (credentialDomain.CredentialVersion, error)
	Get(ctx context.Context, name string) (credentialDomain.CredentialVersion, error)
	GetVersions(ctx context.Context, name string, limit int) ([]credentialDomain.CredentialVersion, error)
	GetByID(ctx context.Context, id uuid.UUID) (credentialDomain.CredentialVersion, error)
	Delete(ctx context.Context, name string) error
}
