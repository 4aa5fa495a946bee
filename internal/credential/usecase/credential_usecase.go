package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	authDomain "github.com/allisson/credstore/internal/auth/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

type credentialUseCase struct {
	txManager      database.TxManager
	credentialRepo CredentialRepository
	versionRepo    VersionRepository
	permissions    PermissionService
	encryptor      credentialDomain.Encryptor
	logger         *slog.Logger
}

// FindMostRecent returns the newest version of name.
func (c *credentialUseCase) FindMostRecent(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	credential, err := c.credentialRepo.FindByName(ctx, credentialDomain.NormalizeName(name))
	if err != nil {
		return nil, err
	}

	record, err := c.versionRepo.FindMostRecent(ctx, credential.ID)
	if err != nil {
		return nil, err
	}
	return credentialDomain.FromRecord(record, credential, c.encryptor)
}

// FindAllCertificateCredentialsByCaName lists the certificates whose newest version was
// signed by caName, in creation order.
func (c *credentialUseCase) FindAllCertificateCredentialsByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	caName = credentialDomain.NormalizeName(caName)
	if err := c.authorize(ctx, caName, permissionDomain.OperationRead); err != nil {
		return nil, err
	}
	return c.versionRepo.ListCertificateNamesByCaName(ctx, caName)
}

// Save appends a new version. A caller losing the race to create a brand-new credential
// retries once against the version the winner stored.
func (c *credentialUseCase) Save(
	ctx context.Context,
	existing credentialDomain.CredentialVersion,
	value credentialDomain.CredentialValue,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialVersion, error) {
	req.Name = credentialDomain.NormalizeName(req.Name)

	version, err := c.save(ctx, existing, value, req)
	if err == nil || existing != nil || !database.IsUniqueViolation(err) {
		return version, err
	}

	c.logger.Debug("credential created concurrently, retrying save",
		slog.String("credential_name", req.Name),
	)

	existing, err = c.FindMostRecent(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return c.save(ctx, existing, value, req)
}

func (c *credentialUseCase) save(
	ctx context.Context,
	existing credentialDomain.CredentialVersion,
	value credentialDomain.CredentialValue,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialVersion, error) {
	actor, ok := authDomain.ActorFromContext(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}

	isNew := existing == nil

	var credential *credentialDomain.Credential
	if isNew {
		credential = credentialDomain.NewCredential(req.Name)
	} else {
		if !c.permissions.Check(ctx, existing.Base().Name(), actor, permissionDomain.OperationWrite) {
			return nil, credentialDomain.ErrAccessDenied
		}
		if existing.Type() != req.Type {
			return nil, credentialDomain.ErrTypeMismatch
		}
		if !req.Overwrite() {
			return existing, nil
		}
		credential = existing.Base().Credential
	}

	if value == nil {
		return nil, credentialDomain.ErrInvalidValue
	}

	version, err := c.buildVersion(ctx, credential, existing, value, req)
	if err != nil {
		return nil, err
	}

	record, err := credentialDomain.ToRecord(version)
	if err != nil {
		return nil, err
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		if isNew {
			if err := c.credentialRepo.Create(ctx, credential); err != nil {
				return err
			}
		}

		if err := c.versionRepo.Create(ctx, record); err != nil {
			return err
		}

		if isNew {
			return c.permissions.GrantCreator(ctx, credential, actor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("credential version saved",
		slog.String("credential_name", credential.Name),
		slog.String("version_id", record.ID.String()),
		slog.String("type", string(record.Type)),
		slog.String("actor", actor),
	)

	return version, nil
}

// buildVersion starts from the existing version's attributes so unchanged encrypted
// fields keep their ciphertext.
func (c *credentialUseCase) buildVersion(
	ctx context.Context,
	credential *credentialDomain.Credential,
	existing credentialDomain.CredentialVersion,
	value credentialDomain.CredentialValue,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialVersion, error) {
	version, err := credentialDomain.NewVersion(req.Type, credential, c.encryptor)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := existing.CopyInto(version); err != nil {
			return nil, err
		}
	}

	if err := version.SetValue(ctx, value); err != nil {
		return nil, err
	}

	if parameterized, ok := version.(credentialDomain.ParameterizedVersion); ok {
		if err := parameterized.SetParameters(ctx, req.Parameters); err != nil {
			return nil, err
		}
	}
	return version, nil
}

// Get returns the newest version of name to callers holding read.
func (c *credentialUseCase) Get(ctx context.Context, name string) (credentialDomain.CredentialVersion, error) {
	name = credentialDomain.NormalizeName(name)
	if err := c.authorize(ctx, name, permissionDomain.OperationRead); err != nil {
		return nil, err
	}
	return c.FindMostRecent(ctx, name)
}

// GetVersions returns up to limit versions of name, newest first.
func (c *credentialUseCase) GetVersions(
	ctx context.Context,
	name string,
	limit int,
) ([]credentialDomain.CredentialVersion, error) {
	name = credentialDomain.NormalizeName(name)
	if err := c.authorize(ctx, name, permissionDomain.OperationRead); err != nil {
		return nil, err
	}

	credential, err := c.credentialRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	records, err := c.versionRepo.ListByCredential(ctx, credential.ID, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, credentialDomain.ErrCredentialNotFound
	}

	versions := make([]credentialDomain.CredentialVersion, 0, len(records))
	for _, record := range records {
		version, err := credentialDomain.FromRecord(record, credential, c.encryptor)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, nil
}

// GetByID returns one version to callers holding read on its credential.
func (c *credentialUseCase) GetByID(ctx context.Context, id uuid.UUID) (credentialDomain.CredentialVersion, error) {
	record, err := c.versionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	credential, err := c.credentialRepo.FindByID(ctx, record.CredentialID)
	if err != nil {
		return nil, err
	}

	if err := c.authorize(ctx, credential.Name, permissionDomain.OperationRead); err != nil {
		return nil, err
	}
	return credentialDomain.FromRecord(record, credential, c.encryptor)
}

// Delete removes name with all its versions and permission entries.
func (c *credentialUseCase) Delete(ctx context.Context, name string) error {
	name = credentialDomain.NormalizeName(name)
	if err := c.authorize(ctx, name, permissionDomain.OperationDelete); err != nil {
		return err
	}

	credential, err := c.credentialRepo.FindByName(ctx, name)
	if err != nil {
		return err
	}

	if err := c.credentialRepo.Delete(ctx, credential.ID); err != nil {
		return err
	}

	c.logger.Info("credential deleted", slog.String("credential_name", name))
	return nil
}

func (c *credentialUseCase) authorize(ctx context.Context, name string, op permissionDomain.Operation) error {
	actor, ok := authDomain.ActorFromContext(ctx)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	if !c.permissions.Check(ctx, name, actor, op) {
		return credentialDomain.ErrAccessDenied
	}
	return nil
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	versionRepo VersionRepository,
	permissions PermissionService,
	encryptor credentialDomain.Encryptor,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:      txManager,
		credentialRepo: credentialRepo,
		versionRepo:    versionRepo,
		permissions:    permissions,
		encryptor:      encryptor,
		logger:         logger,
	}
}
