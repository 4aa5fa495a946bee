// Package http provides HTTP handlers for the credential data API: set, generate,
// read by name or id, and delete.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/credential/http/dto"
	credentialService "github.com/allisson/credstore/internal/credential/service"
	credentialUseCase "github.com/allisson/credstore/internal/credential/usecase"
	apperrors "github.com/allisson/credstore/internal/errors"
	"github.com/allisson/credstore/internal/httputil"
	customValidation "github.com/allisson/credstore/internal/validation"
)

const maxVersions = 100

// CredentialHandler handles HTTP requests for credential data.
type CredentialHandler struct {
	credentialUseCase credentialUseCase.CredentialUseCase
	generator         credentialService.ValueGenerator
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler.
func NewCredentialHandler(
	credentialUseCase credentialUseCase.CredentialUseCase,
	generator credentialService.ValueGenerator,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: credentialUseCase,
		generator:         generator,
		logger:            logger,
	}
}

// SetHandler stores a caller-supplied value as a new version.
// PUT /api/v1/data - Requires write on an existing credential.
// Returns 200 OK with the saved version.
func (h *CredentialHandler) SetHandler(c *gin.Context) {
	var req dto.SetCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credentialType, value, err := req.ToValue()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.findExisting(ctx, req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	version, err := h.credentialUseCase.Save(ctx, existing, value, credentialDomain.NewSetRequest(req.Name, credentialType))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithVersion(c, version)
}

// GenerateHandler produces a value server-side and stores it as a new version.
// POST /api/v1/data - Requires write on an existing credential. With mode
// "no-overwrite" (the default) an existing credential is returned unchanged.
// Returns 200 OK with the current version.
func (h *CredentialHandler) GenerateHandler(c *gin.Context) {
	var req dto.GenerateCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	generateRequest, err := req.ToGenerateRequest()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.findExisting(ctx, generateRequest.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var value credentialDomain.CredentialValue
	if existing == nil || generateRequest.Overwrite() {
		value, err = h.generator.Generate(ctx, generateRequest)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
	}

	version, err := h.credentialUseCase.Save(ctx, existing, value, generateRequest)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithVersion(c, version)
}

// GetHandler returns versions of a credential, newest first.
// GET /api/v1/data?name=/x&current=true|versions=N - Requires read.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("name parameter is required"), h.logger)
		return
	}

	current := c.Query("current") == "true"
	_, hasVersions := c.GetQuery("versions")
	if current && hasVersions {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("current and versions parameters cannot be combined"),
			h.logger,
		)
		return
	}

	limit, err := httputil.ParseBoundedInt(c, "versions", maxVersions, maxVersions)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if current {
		limit = 1
	}

	ctx := c.Request.Context()
	versions, err := h.credentialUseCase.GetVersions(ctx, name, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response, err := dto.MapVersionsToDataResponse(ctx, versions)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if record, ok := auditDomain.RecordFromContext(ctx); ok {
		record.SetResource(versions[0].Base().Credential)
		for _, version := range versions {
			record.AddVersion(version)
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetByIDHandler returns one version by id.
// GET /api/v1/data/:id - Requires read on the owning credential.
func (h *CredentialHandler) GetByIDHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid id parameter: must be a uuid"), h.logger)
		return
	}

	version, err := h.credentialUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.respondWithVersion(c, version)
}

// DeleteHandler removes a credential with all its versions and permissions.
// DELETE /api/v1/data?name=/x - Requires delete.
// Returns 204 No Content.
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("name parameter is required"), h.logger)
		return
	}

	ctx := c.Request.Context()
	if err := h.credentialUseCase.Delete(ctx, name); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if record, ok := auditDomain.RecordFromContext(ctx); ok {
		record.SetRequestDetails(map[string]any{"name": credentialDomain.NormalizeName(name)})
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// findExisting returns the newest version of name, or nil when there is none.
func (h *CredentialHandler) findExisting(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	existing, err := h.credentialUseCase.FindMostRecent(ctx, name)
	if apperrors.Is(err, credentialDomain.ErrCredentialNotFound) {
		return nil, nil
	}
	return existing, err
}

func (h *CredentialHandler) respondWithVersion(c *gin.Context, version credentialDomain.CredentialVersion) {
	ctx := c.Request.Context()

	response, err := dto.MapVersionToResponse(ctx, version)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if record, ok := auditDomain.RecordFromContext(ctx); ok {
		record.SetResource(version.Base().Credential)
		record.SetVersion(version)
	}

	c.JSON(http.StatusOK, response)
}
