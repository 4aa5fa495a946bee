// Package http provides the bearer-token authentication and per-actor rate limiting middleware.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/credstore/internal/auth/domain"
	authUseCase "github.com/allisson/credstore/internal/auth/usecase"
	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/httputil"
)

// AuthenticationMiddleware resolves "Authorization: Bearer <token>" (case-insensitive
// scheme) to an actor and stores it in the request context. Missing, malformed and
// unknown tokens all produce 401.
func AuthenticationMiddleware(authenticator authUseCase.Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		actor, err := authenticator.Authenticate(c.Request.Context(), plainToken)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(authDomain.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}
