package app

import (
	"fmt"

	auditHTTP "github.com/allisson/credstore/internal/audit/http"
	auditRepository "github.com/allisson/credstore/internal/audit/repository"
	auditUseCase "github.com/allisson/credstore/internal/audit/usecase"
	authDomain "github.com/allisson/credstore/internal/auth/domain"
	authService "github.com/allisson/credstore/internal/auth/service"
	authUseCase "github.com/allisson/credstore/internal/auth/usecase"
)

// SecretService returns the argon2id hashing service.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the token digest service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// Authenticator returns the bearer-token authenticator built from AUTH_TOKENS.
func (c *Container) Authenticator() (authUseCase.Authenticator, error) {
	var err error
	c.authenticatorInit.Do(func() {
		c.authenticator, err = c.initAuthenticator()
		if err != nil {
			c.initErrors["authenticator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authenticator"]; exists {
		return nil, storedErr
	}
	return c.authenticator, nil
}

// AuditRepository returns the audit repository for the configured driver.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit use case.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		var repo auditUseCase.AuditRepository
		repo, err = c.AuditRepository()
		if err != nil {
			err = fmt.Errorf("failed to get audit repository for audit use case: %w", err)
			c.initErrors["auditUseCase"] = err
			return
		}
		c.auditUseCase = auditUseCase.NewAuditUseCase(repo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// AuditHandler returns the HTTP handler for /api/v1/audit.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		var useCase auditUseCase.AuditUseCase
		useCase, err = c.AuditUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get audit use case for audit handler: %w", err)
			c.initErrors["auditHandler"] = err
			return
		}
		c.auditHandler = auditHTTP.NewAuditHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

func (c *Container) initAuthenticator() (authUseCase.Authenticator, error) {
	entries, err := authDomain.ParseTokenEntries(c.config.AuthTokens)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		c.Logger().Warn("no auth tokens configured, every API request will be rejected")
	}
	return authUseCase.NewAuthenticator(entries, c.SecretService(), c.TokenService()), nil
}

func (c *Container) initAuditRepository() (auditUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLAuditRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
