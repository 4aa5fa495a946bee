package app

import (
	"context"
	"fmt"

	regenerationHTTP "github.com/allisson/credstore/internal/regeneration/http"
	regenerationUseCase "github.com/allisson/credstore/internal/regeneration/usecase"
)

// RegenerationUseCase returns the regeneration engine, wrapped with metrics.
func (c *Container) RegenerationUseCase(ctx context.Context) (regenerationUseCase.RegenerationUseCase, error) {
	var err error
	c.regenerationUseCaseInit.Do(func() {
		c.regenerationUseCase, err = c.initRegenerationUseCase(ctx)
		if err != nil {
			c.initErrors["regenerationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["regenerationUseCase"]; exists {
		return nil, storedErr
	}
	return c.regenerationUseCase, nil
}

// RegenerationHandler returns the HTTP handler for regenerate and bulk-regenerate.
func (c *Container) RegenerationHandler(ctx context.Context) (*regenerationHTTP.RegenerationHandler, error) {
	var err error
	c.regenerationHandlerInit.Do(func() {
		var useCase regenerationUseCase.RegenerationUseCase
		useCase, err = c.RegenerationUseCase(ctx)
		if err != nil {
			err = fmt.Errorf("failed to get regeneration use case for regeneration handler: %w", err)
			c.initErrors["regenerationHandler"] = err
			return
		}
		c.regenerationHandler = regenerationHTTP.NewRegenerationHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["regenerationHandler"]; exists {
		return nil, storedErr
	}
	return c.regenerationHandler, nil
}

func (c *Container) initRegenerationUseCase(ctx context.Context) (regenerationUseCase.RegenerationUseCase, error) {
	credentials, err := c.CredentialUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for regeneration use case: %w", err)
	}

	generator, err := c.Generator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get generator for regeneration use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for regeneration use case: %w", err)
	}

	useCase := regenerationUseCase.NewRegenerationUseCase(credentials, generator, c.RequestBuilder(), c.Logger())
	return regenerationUseCase.NewRegenerationUseCaseWithMetrics(useCase, businessMetrics), nil
}
