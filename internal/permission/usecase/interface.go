// Package usecase implements the permission engine: exact-name ACL checks plus
// grant, revoke and list operations guarded by the ACL operations themselves.
package usecase

import (
	"context"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// PermissionRepository persists permission entries.
type PermissionRepository interface {
	// Merge inserts entry or adds its operations to the stored entry for the same actor.
	Merge(ctx context.Context, entry *permissionDomain.PermissionEntry) error
	Find(ctx context.Context, credentialID uuid.UUID, actor string) (*permissionDomain.PermissionEntry, error)
	ListByCredential(ctx context.Context, credentialID uuid.UUID) ([]*permissionDomain.PermissionEntry, error)
	Delete(ctx context.Context, credentialID uuid.UUID, actor string) error
}

// CredentialFinder resolves credential names.
type CredentialFinder interface {
	FindByName(ctx context.Context, name string) (*credentialDomain.Credential, error)
}

// PermissionUseCase is the permission engine.
type PermissionUseCase interface {
	// Grant adds operations for each entry's actor on name.
	Grant(ctx context.Context, name string, entries []*permissionDomain.PermissionEntry) error
	// Revoke removes actor's entry on name.
	Revoke(ctx context.Context, name string, actor string) error
	// Check reports whether actor may perform op on name. It never errors; failures deny.
	Check(ctx context.Context, name string, actor string, op permissionDomain.Operation) bool
	// ListEntries returns the entries on name to callers holding read_acl.
	ListEntries(ctx context.Context, name string) ([]*permissionDomain.PermissionEntry, error)
	// GrantCreator gives actor every operation on a newly created credential.
	GrantCreator(ctx context.Context, credential *credentialDomain.Credential, actor string) error
}
