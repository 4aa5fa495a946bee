package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	"github.com/allisson/credstore/internal/audit/http/dto"
	"github.com/allisson/credstore/internal/audit/usecase/mocks"
	authDomain "github.com/allisson/credstore/internal/auth/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuditRouter(useCase *mocks.MockAuditUseCase, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(requestid.New())
	router.Use(AuditMiddleware(useCase, newTestLogger()))
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(authDomain.WithActor(c.Request.Context(), "ops"))
		c.Next()
	})
	router.POST("/api/v1/regenerate", handler)
	return router
}

func TestAuditMiddleware(t *testing.T) {
	t.Run("persists annotated record", func(t *testing.T) {
		useCase := &mocks.MockAuditUseCase{}
		credential := credentialDomain.NewCredential("/db/password")

		useCase.On("Create", mock.Anything, mock.MatchedBy(func(record *auditDomain.Record) bool {
			return record.Actor == "ops" &&
				record.Method == http.MethodPost &&
				record.Path == "/api/v1/regenerate" &&
				record.StatusCode == http.StatusOK &&
				record.Success &&
				record.RequestID != "" &&
				len(record.Resources) == 1 &&
				record.Resources[0].Name == "/db/password"
		})).Return(nil).Once()

		router := newAuditRouter(useCase, func(c *gin.Context) {
			record, ok := auditDomain.RecordFromContext(c.Request.Context())
			require.True(t, ok)
			record.SetResource(credential)
			c.JSON(http.StatusOK, gin.H{})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/regenerate", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("failed request is not successful", func(t *testing.T) {
		useCase := &mocks.MockAuditUseCase{}
		useCase.On("Create", mock.Anything, mock.MatchedBy(func(record *auditDomain.Record) bool {
			return record.StatusCode == http.StatusNotFound && !record.Success
		})).Return(nil).Once()

		router := newAuditRouter(useCase, func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/regenerate", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("persistence failure keeps the response", func(t *testing.T) {
		useCase := &mocks.MockAuditUseCase{}
		useCase.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		router := newAuditRouter(useCase, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/regenerate", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestAuditHandler_ListHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		useCase := &mocks.MockAuditUseCase{}
		record := auditDomain.NewRecord("req-1", http.MethodGet, "/api/v1/data")
		record.Complete("ops", http.StatusOK)
		useCase.On("List", mock.Anything, 0, 10).Return([]*auditDomain.Record{record}, nil).Once()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=10", nil)
		NewAuditHandler(useCase, newTestLogger()).ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListRecordsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "ops", response.Data[0].Actor)
		assert.NotNil(t, response.Data[0].Resources)
		useCase.AssertExpectations(t)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=0", nil)
		NewAuditHandler(&mocks.MockAuditUseCase{}, newTestLogger()).ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
