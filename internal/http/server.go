// Package http wires the credstore HTTP API: router, middleware chain, health probes
// and the standalone metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/credstore/internal/audit/http"
	auditUseCase "github.com/allisson/credstore/internal/audit/usecase"
	authHTTP "github.com/allisson/credstore/internal/auth/http"
	authUseCase "github.com/allisson/credstore/internal/auth/usecase"
	"github.com/allisson/credstore/internal/config"
	credentialHTTP "github.com/allisson/credstore/internal/credential/http"
	"github.com/allisson/credstore/internal/metrics"
	permissionHTTP "github.com/allisson/credstore/internal/permission/http"
	regenerationHTTP "github.com/allisson/credstore/internal/regeneration/http"
)

const readinessTimeout = 2 * time.Second

// Server is the API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Credential   *credentialHTTP.CredentialHandler
	Permission   *permissionHTTP.PermissionHandler
	Regeneration *regenerationHTTP.RegenerationHandler
	Audit        *auditHTTP.AuditHandler
}

// NewServer creates a server bound to host:port. SetupRouter must run before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port, nil),
	}
}

// SetupRouter builds the gin engine.
//
// Every /api/v1 request gets an audit record, including the ones rejected by
// authentication or rate limiting.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	authenticator authUseCase.Authenticator,
	auditUseCase auditUseCase.AuditUseCase,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware, ok := newCORSMiddleware(cfg, s.logger); ok {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")
	v1.Use(auditHTTP.AuditMiddleware(auditUseCase, s.logger))
	v1.Use(authHTTP.AuthenticationMiddleware(authenticator, s.logger))
	if cfg.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	data := v1.Group("/data")
	{
		data.PUT("", handlers.Credential.SetHandler)
		data.POST("", handlers.Credential.GenerateHandler)
		data.GET("", handlers.Credential.GetHandler)
		data.GET("/:id", handlers.Credential.GetByIDHandler)
		data.DELETE("", handlers.Credential.DeleteHandler)
	}

	permissions := v1.Group("/permissions")
	{
		permissions.GET("", handlers.Permission.ListHandler)
		permissions.POST("", handlers.Permission.GrantHandler)
		permissions.DELETE("", handlers.Permission.RevokeHandler)
	}

	v1.POST("/regenerate", handlers.Regeneration.RegenerateHandler)
	v1.POST("/bulk-regenerate", handlers.Regeneration.BulkRegenerateHandler)
	v1.GET("/audit", handlers.Audit.ListHandler)

	s.router = router
}

// GetHandler returns the configured router.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router
	return listen(s.server, "api", s.logger)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}
