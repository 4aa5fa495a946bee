package app

import (
	"context"
	"fmt"

	credentialHTTP "github.com/allisson/credstore/internal/credential/http"
	credentialRepository "github.com/allisson/credstore/internal/credential/repository"
	credentialService "github.com/allisson/credstore/internal/credential/service"
	credentialUseCase "github.com/allisson/credstore/internal/credential/usecase"
	permissionHTTP "github.com/allisson/credstore/internal/permission/http"
	permissionRepository "github.com/allisson/credstore/internal/permission/repository"
	permissionUseCase "github.com/allisson/credstore/internal/permission/usecase"
)

// CredentialRepository returns the credential repository for the configured driver.
func (c *Container) CredentialRepository() (credentialUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepoInit.Do(func() {
		c.credentialRepo, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// VersionRepository returns the credential version repository for the configured driver.
func (c *Container) VersionRepository() (credentialUseCase.VersionRepository, error) {
	var err error
	c.versionRepoInit.Do(func() {
		c.versionRepo, err = c.initVersionRepository()
		if err != nil {
			c.initErrors["versionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["versionRepo"]; exists {
		return nil, storedErr
	}
	return c.versionRepo, nil
}

// PermissionRepository returns the permission repository for the configured driver.
func (c *Container) PermissionRepository() (permissionUseCase.PermissionRepository, error) {
	var err error
	c.permissionRepoInit.Do(func() {
		c.permissionRepo, err = c.initPermissionRepository()
		if err != nil {
			c.initErrors["permissionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionRepo"]; exists {
		return nil, storedErr
	}
	return c.permissionRepo, nil
}

// PermissionUseCase returns the permission engine.
func (c *Container) PermissionUseCase() (permissionUseCase.PermissionUseCase, error) {
	var err error
	c.permissionUseCaseInit.Do(func() {
		c.permissionUseCase, err = c.initPermissionUseCase()
		if err != nil {
			c.initErrors["permissionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionUseCase"]; exists {
		return nil, storedErr
	}
	return c.permissionUseCase, nil
}

// CredentialUseCase returns the versioning service, wrapped with metrics.
func (c *Container) CredentialUseCase(ctx context.Context) (credentialUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase(ctx)
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// Generator returns the value generator. Certificate authorities are read through
// the versioning service, so signing requires read on the CA.
func (c *Container) Generator(ctx context.Context) (*credentialService.Generator, error) {
	var err error
	c.generatorInit.Do(func() {
		var useCase credentialUseCase.CredentialUseCase
		useCase, err = c.CredentialUseCase(ctx)
		if err != nil {
			err = fmt.Errorf("failed to get credential use case for generator: %w", err)
			c.initErrors["generator"] = err
			return
		}
		c.generator = credentialService.NewGenerator(useCase)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["generator"]; exists {
		return nil, storedErr
	}
	return c.generator, nil
}

// RequestBuilder returns the generation-request rebuilder.
func (c *Container) RequestBuilder() *credentialService.RequestBuilder {
	c.requestBuilderInit.Do(func() {
		c.requestBuilder = credentialService.NewRequestBuilder()
	})
	return c.requestBuilder
}

// CredentialHandler returns the HTTP handler for /api/v1/data.
func (c *Container) CredentialHandler(ctx context.Context) (*credentialHTTP.CredentialHandler, error) {
	var err error
	c.credentialHandlerInit.Do(func() {
		c.credentialHandler, err = c.initCredentialHandler(ctx)
		if err != nil {
			c.initErrors["credentialHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialHandler"]; exists {
		return nil, storedErr
	}
	return c.credentialHandler, nil
}

// PermissionHandler returns the HTTP handler for /api/v1/permissions.
func (c *Container) PermissionHandler() (*permissionHTTP.PermissionHandler, error) {
	var err error
	c.permissionHandlerInit.Do(func() {
		var useCase permissionUseCase.PermissionUseCase
		useCase, err = c.PermissionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get permission use case for permission handler: %w", err)
			c.initErrors["permissionHandler"] = err
			return
		}
		c.permissionHandler = permissionHTTP.NewPermissionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionHandler"]; exists {
		return nil, storedErr
	}
	return c.permissionHandler, nil
}

func (c *Container) initCredentialRepository() (credentialUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return credentialRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return credentialRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initVersionRepository() (credentialUseCase.VersionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for version repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return credentialRepository.NewMySQLVersionRepository(db), nil
	case "postgres":
		return credentialRepository.NewPostgreSQLVersionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initPermissionRepository() (permissionUseCase.PermissionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for permission repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return permissionRepository.NewMySQLPermissionRepository(db), nil
	case "postgres":
		return permissionRepository.NewPostgreSQLPermissionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initPermissionUseCase() (permissionUseCase.PermissionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for permission use case: %w", err)
	}

	permissionRepo, err := c.PermissionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission repository for permission use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for permission use case: %w", err)
	}

	return permissionUseCase.NewPermissionUseCase(
		txManager,
		permissionRepo,
		credentialRepo,
		c.config.AuthorizationACLsEnabled,
		c.Logger(),
	), nil
}

func (c *Container) initCredentialUseCase(ctx context.Context) (credentialUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	versionRepo, err := c.VersionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get version repository for credential use case: %w", err)
	}

	permissions, err := c.PermissionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission use case for credential use case: %w", err)
	}

	keyService, err := c.KeyService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key service for credential use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	useCase := credentialUseCase.NewCredentialUseCase(
		txManager,
		credentialRepo,
		versionRepo,
		permissions,
		keyService,
		c.Logger(),
	)
	return credentialUseCase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initCredentialHandler(ctx context.Context) (*credentialHTTP.CredentialHandler, error) {
	useCase, err := c.CredentialUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for credential handler: %w", err)
	}

	generator, err := c.Generator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get generator for credential handler: %w", err)
	}

	return credentialHTTP.NewCredentialHandler(useCase, generator, c.Logger()), nil
}
