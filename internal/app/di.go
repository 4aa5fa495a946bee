// Package app provides the dependency injection container that assembles credstore.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditHTTP "github.com/allisson/credstore/internal/audit/http"
	auditUseCase "github.com/allisson/credstore/internal/audit/usecase"
	authService "github.com/allisson/credstore/internal/auth/service"
	authUseCase "github.com/allisson/credstore/internal/auth/usecase"
	"github.com/allisson/credstore/internal/config"
	credentialHTTP "github.com/allisson/credstore/internal/credential/http"
	credentialService "github.com/allisson/credstore/internal/credential/service"
	credentialUseCase "github.com/allisson/credstore/internal/credential/usecase"
	"github.com/allisson/credstore/internal/database"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	encryptionUseCase "github.com/allisson/credstore/internal/encryption/usecase"
	"github.com/allisson/credstore/internal/http"
	"github.com/allisson/credstore/internal/metrics"
	permissionHTTP "github.com/allisson/credstore/internal/permission/http"
	permissionUseCase "github.com/allisson/credstore/internal/permission/usecase"
	regenerationHTTP "github.com/allisson/credstore/internal/regeneration/http"
	regenerationUseCase "github.com/allisson/credstore/internal/regeneration/usecase"
)

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Encryption
	aeadManager     encryptionService.AEADManager
	kmsService      encryptionService.KMSService
	canaryRepo      encryptionUseCase.CanaryRepository
	providerFactory encryptionUseCase.ProviderFactory
	keyService      *encryptionUseCase.KeyService

	// Credentials and permissions
	credentialRepo    credentialUseCase.CredentialRepository
	versionRepo       credentialUseCase.VersionRepository
	permissionRepo    permissionUseCase.PermissionRepository
	permissionUseCase permissionUseCase.PermissionUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	generator         *credentialService.Generator
	requestBuilder    *credentialService.RequestBuilder

	// Regeneration
	regenerationUseCase regenerationUseCase.RegenerationUseCase

	// Auth and audit
	secretService authService.SecretService
	tokenService  authService.TokenService
	authenticator authUseCase.Authenticator
	auditRepo     auditUseCase.AuditRepository
	auditUseCase  auditUseCase.AuditUseCase

	// Handlers
	credentialHandler   *credentialHTTP.CredentialHandler
	permissionHandler   *permissionHTTP.PermissionHandler
	regenerationHandler *regenerationHTTP.RegenerationHandler
	auditHandler        *auditHTTP.AuditHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	aeadManagerInit         sync.Once
	kmsServiceInit          sync.Once
	canaryRepoInit          sync.Once
	providerFactoryInit     sync.Once
	keyServiceInit          sync.Once
	credentialRepoInit      sync.Once
	versionRepoInit         sync.Once
	permissionRepoInit      sync.Once
	permissionUseCaseInit   sync.Once
	credentialUseCaseInit   sync.Once
	generatorInit           sync.Once
	requestBuilderInit      sync.Once
	regenerationUseCaseInit sync.Once
	secretServiceInit       sync.Once
	tokenServiceInit        sync.Once
	authenticatorInit       sync.Once
	auditRepoInit           sync.Once
	auditUseCaseInit        sync.Once
	credentialHandlerInit   sync.Once
	permissionHandlerInit   sync.Once
	regenerationHandlerInit sync.Once
	auditHandlerInit        sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured from LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the operation metrics recorder. It is a no-op when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.keyService != nil {
		if err := c.keyService.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("encryption keys close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	credentialHandler, err := c.CredentialHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get credential handler for http server: %w", err)
	}

	permissionHandler, err := c.PermissionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get permission handler for http server: %w", err)
	}

	regenerationHandler, err := c.RegenerationHandler(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get regeneration handler for http server: %w", err)
	}

	auditHandler, err := c.AuditHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit handler for http server: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for http server: %w", err)
	}

	authenticator, err := c.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticator for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(ctx, c.config, http.Handlers{
		Credential:   credentialHandler,
		Permission:   permissionHandler,
		Regeneration: regenerationHandler,
		Audit:        auditHandler,
	}, authenticator, auditUseCase, metricsProvider)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
