package usecase

import (
	"context"
	"log/slog"

	authDomain "github.com/allisson/credstore/internal/auth/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

type permissionUseCase struct {
	txManager      database.TxManager
	permissionRepo PermissionRepository
	credentials    CredentialFinder
	enforce        bool
	logger         *slog.Logger
}

// Grant validates every entry before writing any of them. The stored operation set
// becomes the union of the stored and requested operations. Callers without
// write_acl are denied before the entries are inspected.
func (p *permissionUseCase) Grant(
	ctx context.Context,
	name string,
	entries []*permissionDomain.PermissionEntry,
) error {
	credential, caller, err := p.resolve(ctx, name)
	if err != nil {
		return err
	}
	if !p.allows(ctx, credential, caller, permissionDomain.OperationWriteACL) {
		return credentialDomain.ErrAccessDenied
	}

	for _, entry := range entries {
		if entry.Actor == caller {
			return permissionDomain.ErrSelfModification
		}
		if len(entry.Operations) == 0 {
			return permissionDomain.ErrEmptyOperations
		}
	}

	return p.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, entry := range entries {
			merged := permissionDomain.NewPermissionEntry(credential.ID, entry.Actor, entry.Operations)
			if err := p.permissionRepo.Merge(ctx, merged); err != nil {
				return err
			}
			entry.CredentialID = credential.ID
			entry.CredentialName = credential.Name
		}
		return nil
	})
}

// Revoke deletes actor's whole entry on name.
func (p *permissionUseCase) Revoke(ctx context.Context, name string, actor string) error {
	credential, caller, err := p.resolve(ctx, name)
	if err != nil {
		return err
	}

	if !p.allows(ctx, credential, caller, permissionDomain.OperationWriteACL) {
		return credentialDomain.ErrAccessDenied
	}
	if actor == caller {
		return permissionDomain.ErrSelfModification
	}

	return p.permissionRepo.Delete(ctx, credential.ID, actor)
}

// Check looks up actor's entry on the exact name. With enforcement disabled it always allows.
func (p *permissionUseCase) Check(
	ctx context.Context,
	name string,
	actor string,
	op permissionDomain.Operation,
) bool {
	if !p.enforce {
		return true
	}

	credential, err := p.credentials.FindByName(ctx, credentialDomain.NormalizeName(name))
	if err != nil {
		if !apperrors.Is(err, credentialDomain.ErrCredentialNotFound) {
			p.logger.Error("permission check failed",
				slog.String("credential_name", name),
				slog.String("actor", actor),
				slog.Any("error", err))
		}
		return false
	}

	return p.allows(ctx, credential, actor, op)
}

func (p *permissionUseCase) allows(
	ctx context.Context,
	credential *credentialDomain.Credential,
	actor string,
	op permissionDomain.Operation,
) bool {
	if !p.enforce {
		return true
	}

	entry, err := p.permissionRepo.Find(ctx, credential.ID, actor)
	if err != nil {
		if !apperrors.Is(err, permissionDomain.ErrPermissionEntryNotFound) {
			p.logger.Error("permission check failed",
				slog.String("credential_name", credential.Name),
				slog.String("actor", actor),
				slog.Any("error", err))
		}
		return false
	}
	return entry.Allows(op)
}

// ListEntries hides the credential from callers without read_acl.
func (p *permissionUseCase) ListEntries(
	ctx context.Context,
	name string,
) ([]*permissionDomain.PermissionEntry, error) {
	credential, caller, err := p.resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	if !p.allows(ctx, credential, caller, permissionDomain.OperationReadACL) {
		return nil, credentialDomain.ErrCredentialNotFound
	}

	entries, err := p.permissionRepo.ListByCredential(ctx, credential.ID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.CredentialName = credential.Name
	}
	return entries, nil
}

// GrantCreator stores a full-rights entry for the creator.
func (p *permissionUseCase) GrantCreator(
	ctx context.Context,
	credential *credentialDomain.Credential,
	actor string,
) error {
	entry := permissionDomain.NewPermissionEntry(credential.ID, actor, permissionDomain.AllOperations)
	return p.permissionRepo.Merge(ctx, entry)
}

// resolve loads the credential and the calling actor.
func (p *permissionUseCase) resolve(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, string, error) {
	caller, ok := authDomain.ActorFromContext(ctx)
	if !ok {
		return nil, "", apperrors.ErrUnauthorized
	}

	credential, err := p.credentials.FindByName(ctx, credentialDomain.NormalizeName(name))
	if err != nil {
		return nil, "", err
	}
	return credential, caller, nil
}

// NewPermissionUseCase creates the permission engine. When enforce is false every
// check passes.
func NewPermissionUseCase(
	txManager database.TxManager,
	permissionRepo PermissionRepository,
	credentials CredentialFinder,
	enforce bool,
	logger *slog.Logger,
) PermissionUseCase {
	return &permissionUseCase{
		txManager:      txManager,
		permissionRepo: permissionRepo,
		credentials:    credentials,
		enforce:        enforce,
		logger:         logger,
	}
}
