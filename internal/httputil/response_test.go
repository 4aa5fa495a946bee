package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/credstore/internal/errors"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "credential not found"), http.StatusNotFound, "not_found"},
		{"forbidden", apperrors.Wrap(apperrors.ErrForbidden, "access denied"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unavailable", apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}
}

func TestHandleErrorGin_NotFoundAndForbiddenAreIndistinguishable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	notFound := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(notFound)
	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrNotFound, "credential not found"), nil)

	forbidden := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(forbidden)
	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrForbidden, "access denied"), nil)

	assert.Equal(t, notFound.Code, forbidden.Code)
	assert.Equal(t, notFound.Body.String(), forbidden.Body.String())
}

func TestHandleErrorGin_NilError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, nil, nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestHandleBadRequestAndValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleBadRequestGin(c, errors.New("invalid json"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"invalid json"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	HandleValidationErrorGin(c, errors.New("name: cannot be blank."), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"name: cannot be blank."}`, w.Body.String())
}

func TestHandleErrorGin_InvalidInputKeepsMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrInvalidInput, "path must start with /"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"invalid_input","message":"path must start with /: invalid input"}`, w.Body.String())
}

func TestHandleErrorGin_UnavailableHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrUnavailable, "dial tcp 10.0.0.7:443: connection refused"), nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "dial tcp")
	assert.JSONEq(t,
		`{"error":"unavailable","message":"The encryption provider is currently unavailable"}`,
		w.Body.String())
}
