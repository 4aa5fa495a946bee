package app

import (
	"context"
	"fmt"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionRepository "github.com/allisson/credstore/internal/encryption/repository"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	encryptionUseCase "github.com/allisson/credstore/internal/encryption/usecase"
)

// AEADManager returns the cipher factory used by the internal provider.
func (c *Container) AEADManager() encryptionService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = encryptionService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the keeper opener shared by the kms provider and key unwrapping.
func (c *Container) KMSService() encryptionService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = encryptionService.NewKMSService()
	})
	return c.kmsService
}

// CanaryRepository returns the canary repository for the configured driver.
func (c *Container) CanaryRepository() (encryptionUseCase.CanaryRepository, error) {
	var err error
	c.canaryRepoInit.Do(func() {
		c.canaryRepo, err = c.initCanaryRepository()
		if err != nil {
			c.initErrors["canaryRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["canaryRepo"]; exists {
		return nil, storedErr
	}
	return c.canaryRepo, nil
}

// ProviderFactory returns the factory selected by ENCRYPTION_PROVIDER.
func (c *Container) ProviderFactory() (encryptionUseCase.ProviderFactory, error) {
	var err error
	c.providerFactoryInit.Do(func() {
		c.providerFactory, err = c.initProviderFactory()
		if err != nil {
			c.initErrors["providerFactory"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["providerFactory"]; exists {
		return nil, storedErr
	}
	return c.providerFactory, nil
}

// KeyService returns the encryption key service with every configured key registered.
// Loading fails fast on malformed configuration or an unreachable KMS.
func (c *Container) KeyService(ctx context.Context) (*encryptionUseCase.KeyService, error) {
	var err error
	c.keyServiceInit.Do(func() {
		c.keyService, err = c.initKeyService(ctx)
		if err != nil {
			c.initErrors["keyService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyService"]; exists {
		return nil, storedErr
	}
	return c.keyService, nil
}

func (c *Container) initCanaryRepository() (encryptionUseCase.CanaryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for canary repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return encryptionRepository.NewMySQLCanaryRepository(db), nil
	case "postgres":
		return encryptionRepository.NewPostgreSQLCanaryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initProviderFactory() (encryptionUseCase.ProviderFactory, error) {
	switch c.config.EncryptionProvider {
	case encryptionDomain.ProviderInternal:
		alg, err := encryptionService.ParseAlgorithm(c.config.EncryptionAlgorithm)
		if err != nil {
			return nil, err
		}
		return encryptionUseCase.NewInternalProviderFactory(
			alg,
			c.AEADManager(),
			c.KMSService(),
			c.config.KMSKeyURI,
		), nil
	case encryptionDomain.ProviderKMS:
		return encryptionUseCase.NewKMSProviderFactory(c.KMSService()), nil
	default:
		return nil, fmt.Errorf("unsupported encryption provider: %s", c.config.EncryptionProvider)
	}
}

func (c *Container) initKeyService(ctx context.Context) (*encryptionUseCase.KeyService, error) {
	specs, err := encryptionUseCase.ParseKeySpecs(c.config.EncryptionKeys)
	if err != nil {
		return nil, err
	}

	canaryRepo, err := c.CanaryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get canary repository for key service: %w", err)
	}

	factory, err := c.ProviderFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to get provider factory for key service: %w", err)
	}

	loader := encryptionUseCase.NewKeyLoader(canaryRepo, factory, c.Logger())
	return loader.Load(ctx, specs, c.config.ActiveEncryptionKey)
}
