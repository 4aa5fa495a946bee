// Package httputil holds the JSON error envelope and pagination parsing shared by the API handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// CredentialNotFoundMessage is the body for both missing and unreadable credentials.
const CredentialNotFoundMessage = "The request could not be completed because the credential " +
	"does not exist or you do not have sufficient authorization."

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty means err.Error()
}

// errorMappings is checked in order; the first sentinel in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", CredentialNotFoundMessage},
	{apperrors.ErrForbidden, http.StatusNotFound, "not_found", CredentialNotFoundMessage},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable",
		"The encryption provider is currently unavailable"},
}

func classify(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = err.Error()
		}
		return m.status, ErrorResponse{Error: m.code, Message: msg}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
}

// HandleErrorGin renders err using the first matching domain sentinel. Forbidden
// renders exactly like not found.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := classify(err)
	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}
	c.JSON(status, body)
}

// HandleBadRequestGin answers 400 for unparseable bodies or query strings.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin answers 422 for well-formed requests that fail validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("rejected request", slog.String("error_code", code), slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
