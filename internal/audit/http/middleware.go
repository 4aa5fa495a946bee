// Package http provides the audit middleware that records every API request and the
// handler that lists recorded requests.
package http

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	auditUseCase "github.com/allisson/credstore/internal/audit/usecase"
	authDomain "github.com/allisson/credstore/internal/auth/domain"
)

// AuditMiddleware puts a fresh audit record in the request context and persists it
// after the handler chain has written the response. The record is stored even when the
// client has gone away; persistence failures are logged and never change the response.
func AuditMiddleware(auditUseCase auditUseCase.AuditUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		record := auditDomain.NewRecord(requestid.Get(c), c.Request.Method, c.Request.URL.Path)
		c.Request = c.Request.WithContext(auditDomain.WithRecord(c.Request.Context(), record))

		c.Next()

		actor, _ := authDomain.ActorFromContext(c.Request.Context())
		record.Complete(actor, c.Writer.Status())

		if err := auditUseCase.Create(context.WithoutCancel(c.Request.Context()), record); err != nil {
			logger.Error("failed to persist audit record",
				slog.String("request_id", record.RequestID),
				slog.String("path", record.Path),
				slog.Any("error", err),
			)
		}
	}
}
