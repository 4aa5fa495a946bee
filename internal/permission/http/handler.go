// Package http provides HTTP handlers for credential access control entries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/httputil"
	"github.com/allisson/credstore/internal/permission/http/dto"
	permissionUseCase "github.com/allisson/credstore/internal/permission/usecase"
	customValidation "github.com/allisson/credstore/internal/validation"
)

// PermissionHandler handles HTTP requests for permission management.
type PermissionHandler struct {
	permissionUseCase permissionUseCase.PermissionUseCase
	logger            *slog.Logger
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(
	permissionUseCase permissionUseCase.PermissionUseCase,
	logger *slog.Logger,
) *PermissionHandler {
	return &PermissionHandler{
		permissionUseCase: permissionUseCase,
		logger:            logger,
	}
}

// ListHandler returns the entries on a credential.
// GET /api/v1/permissions?credential_name=/x - Requires read_acl.
func (h *PermissionHandler) ListHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("credential_name"))
	if name == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("credential_name cannot be empty"), h.logger)
		return
	}

	entries, err := h.permissionUseCase.ListEntries(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntriesToResponse(credentialDomain.NormalizeName(name), entries))
}

// GrantHandler adds operations for one or more actors.
// POST /api/v1/permissions - Requires write_acl.
// Returns 201 Created with the granted entries.
func (h *PermissionHandler) GrantHandler(c *gin.Context) {
	var req dto.GrantPermissionsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entries, err := req.ToEntries()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.permissionUseCase.Grant(c.Request.Context(), req.CredentialName, entries); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEntriesToResponse(credentialDomain.NormalizeName(req.CredentialName), entries))
}

// RevokeHandler deletes an actor's entry.
// DELETE /api/v1/permissions?credential_name=/x&actor=y - Requires write_acl.
// Returns 204 No Content.
func (h *PermissionHandler) RevokeHandler(c *gin.Context) {
	name := strings.TrimSpace(c.Query("credential_name"))
	actor := strings.TrimSpace(c.Query("actor"))
	if name == "" || actor == "" {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("credential_name and actor parameters are required"),
			h.logger,
		)
		return
	}

	if err := h.permissionUseCase.Revoke(c.Request.Context(), name, actor); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
