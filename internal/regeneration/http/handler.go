// Package http provides HTTP handlers for single and bulk credential regeneration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	credentialDto "github.com/allisson/credstore/internal/credential/http/dto"
	"github.com/allisson/credstore/internal/httputil"
	"github.com/allisson/credstore/internal/regeneration/http/dto"
	regenerationUseCase "github.com/allisson/credstore/internal/regeneration/usecase"
	customValidation "github.com/allisson/credstore/internal/validation"
)

// RegenerationHandler handles HTTP requests for regeneration.
type RegenerationHandler struct {
	regenerationUseCase regenerationUseCase.RegenerationUseCase
	logger              *slog.Logger
}

// NewRegenerationHandler creates a new regeneration handler.
func NewRegenerationHandler(
	regenerationUseCase regenerationUseCase.RegenerationUseCase,
	logger *slog.Logger,
) *RegenerationHandler {
	return &RegenerationHandler{
		regenerationUseCase: regenerationUseCase,
		logger:              logger,
	}
}

// RegenerateHandler regenerates one credential with its stored parameters.
// POST /api/v1/regenerate - Requires write.
// Returns 200 OK with the new version.
func (h *RegenerationHandler) RegenerateHandler(c *gin.Context) {
	var req dto.RegenerateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	version, err := h.regenerationUseCase.HandleRegenerate(ctx, req.Name, auditRecord(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response, err := credentialDto.MapVersionToResponse(ctx, version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BulkRegenerateHandler regenerates every certificate signed by a CA, recursively.
// POST /api/v1/bulk-regenerate - Requires read on the CA and write on each certificate.
// Returns 200 OK with the regenerated names.
func (h *RegenerationHandler) BulkRegenerateHandler(c *gin.Context) {
	var req dto.BulkRegenerateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	names, err := h.regenerationUseCase.HandleBulkRegenerate(c.Request.Context(), req.SignedBy, auditRecord(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.BulkRegenerateResponse{RegeneratedCredentials: names})
}

// auditRecord returns the request's audit record, or a detached one when the audit
// middleware is not installed.
func auditRecord(c *gin.Context) *auditDomain.Record {
	if record, ok := auditDomain.RecordFromContext(c.Request.Context()); ok {
		return record
	}
	return auditDomain.NewRecord("", c.Request.Method, c.Request.URL.Path)
}
