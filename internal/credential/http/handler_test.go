package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/credential/http/dto"
	credentialTesting "github.com/allisson/credstore/internal/credential/testing"
	"github.com/allisson/credstore/internal/credential/usecase/mocks"
	"github.com/allisson/credstore/internal/httputil"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(
	ctx context.Context,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialValue, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(credentialDomain.CredentialValue), args.Error(1)
}

func setupTestHandler(t *testing.T) (*CredentialHandler, *mocks.MockCredentialUseCase, *mockGenerator) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	useCase := &mocks.MockCredentialUseCase{}
	generator := &mockGenerator{}
	t.Cleanup(func() {
		useCase.AssertExpectations(t)
		generator.AssertExpectations(t)
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewCredentialHandler(useCase, generator, logger), useCase, generator
}

func createTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

func newVersion(
	t *testing.T,
	name string,
	typ credentialDomain.Type,
	value credentialDomain.CredentialValue,
) credentialDomain.CredentialVersion {
	t.Helper()
	version, err := credentialDomain.NewVersion(typ, credentialDomain.NewCredential(name), credentialTesting.NewFakeEncryptor())
	require.NoError(t, err)
	require.NoError(t, version.SetValue(context.Background(), value))
	return version
}

func TestCredentialHandler_SetHandler(t *testing.T) {
	t.Run("Success_NewCredential", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		saved := newVersion(t, "/db/password", credentialDomain.TypePassword, credentialDomain.StringValue("hunter2"))

		useCase.On("FindMostRecent", mock.Anything, "db/password").
			Return(nil, credentialDomain.ErrCredentialNotFound).Once()
		useCase.On(
			"Save",
			mock.Anything,
			nil,
			credentialDomain.StringValue("hunter2"),
			credentialDomain.NewSetRequest("db/password", credentialDomain.TypePassword),
		).Return(saved, nil).Once()

		c, w := createTestContext(http.MethodPut, "/api/v1/data", gin.H{
			"name":  "db/password",
			"type":  "password",
			"value": "hunter2",
		})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.CredentialResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, saved.Base().ID.String(), response.ID)
		assert.Equal(t, "/db/password", response.Name)
		assert.Equal(t, "password", response.Type)
		assert.Equal(t, "hunter2", response.Value)
	})

	t.Run("Success_UserValueOverExisting", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		value := credentialDomain.UserValue{Username: "admin", Password: "secret"}
		existing := newVersion(t, "/db/user", credentialDomain.TypeUser, value)
		saved := newVersion(t, "/db/user", credentialDomain.TypeUser, value)

		useCase.On("FindMostRecent", mock.Anything, "/db/user").Return(existing, nil).Once()
		useCase.On("Save", mock.Anything, existing, value, mock.Anything).Return(saved, nil).Once()

		c, w := createTestContext(http.MethodPut, "/api/v1/data", gin.H{
			"name":  "/db/user",
			"type":  "user",
			"value": gin.H{"username": "admin", "password": "secret"},
		})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"admin"`)
	})

	t.Run("Error_WriteDeniedLooksLikeNotFound", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		existing := newVersion(t, "/db/password", credentialDomain.TypePassword, credentialDomain.StringValue("x"))

		useCase.On("FindMostRecent", mock.Anything, "/db/password").Return(existing, nil).Once()
		useCase.On("Save", mock.Anything, existing, mock.Anything, mock.Anything).
			Return(nil, credentialDomain.ErrAccessDenied).Once()

		c, w := createTestContext(http.MethodPut, "/api/v1/data", gin.H{
			"name":  "/db/password",
			"type":  "password",
			"value": "y",
		})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), httputil.CredentialNotFoundMessage)
	})

	t.Run("Error_InvalidName", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPut, "/api/v1/data", gin.H{
			"name":  "db//password",
			"type":  "password",
			"value": "x",
		})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_ValueShapeMismatch", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPut, "/api/v1/data", gin.H{
			"name":  "/db/password",
			"type":  "password",
			"value": gin.H{"not": "a string"},
		})
		handler.SetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCredentialHandler_GenerateHandler(t *testing.T) {
	t.Run("Success_GeneratesNewCredential", func(t *testing.T) {
		handler, useCase, generator := setupTestHandler(t)
		saved := newVersion(t, "/app/key", credentialDomain.TypePassword, credentialDomain.StringValue("generated"))

		expectedRequest := credentialDomain.GenerateRequest{
			Name:       "/app/key",
			Type:       credentialDomain.TypePassword,
			Mode:       credentialDomain.ModeNoOverwrite,
			Parameters: &credentialDomain.PasswordParameters{Length: 40},
		}

		useCase.On("FindMostRecent", mock.Anything, "/app/key").
			Return(nil, credentialDomain.ErrCredentialNotFound).Once()
		generator.On("Generate", mock.Anything, expectedRequest).
			Return(credentialDomain.StringValue("generated"), nil).Once()
		useCase.On("Save", mock.Anything, nil, credentialDomain.StringValue("generated"), expectedRequest).
			Return(saved, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/data", gin.H{
			"name":       "app/key",
			"type":       "password",
			"parameters": gin.H{"length": 40},
		})
		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"generated"`)
	})

	t.Run("Success_NoOverwriteSkipsGeneration", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		existing := newVersion(t, "/app/key", credentialDomain.TypePassword, credentialDomain.StringValue("old"))

		useCase.On("FindMostRecent", mock.Anything, "/app/key").Return(existing, nil).Once()
		useCase.On("Save", mock.Anything, existing, nil, mock.Anything).Return(existing, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/data", gin.H{
			"name": "/app/key",
			"type": "password",
		})
		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"old"`)
	})

	t.Run("Success_OverwriteRegenerates", func(t *testing.T) {
		handler, useCase, generator := setupTestHandler(t)
		existing := newVersion(t, "/app/key", credentialDomain.TypePassword, credentialDomain.StringValue("old"))
		saved := newVersion(t, "/app/key", credentialDomain.TypePassword, credentialDomain.StringValue("new"))

		useCase.On("FindMostRecent", mock.Anything, "/app/key").Return(existing, nil).Once()
		generator.On("Generate", mock.Anything, mock.MatchedBy(func(req credentialDomain.GenerateRequest) bool {
			return req.Mode == credentialDomain.ModeOverwrite
		})).Return(credentialDomain.StringValue("new"), nil).Once()
		useCase.On("Save", mock.Anything, existing, credentialDomain.StringValue("new"), mock.Anything).
			Return(saved, nil).Once()

		c, w := createTestContext(http.MethodPost, "/api/v1/data", gin.H{
			"name": "/app/key",
			"type": "password",
			"mode": "overwrite",
		})
		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"value":"new"`)
	})

	t.Run("Error_ValueTypeIsNotGeneratable", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/data", gin.H{"name": "/x", "type": "value"})
		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_UnsupportedKeyLength", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/api/v1/data", gin.H{
			"name":       "/x",
			"type":       "rsa",
			"parameters": gin.H{"key_length": 1024},
		})
		handler.GenerateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestCredentialHandler_GetHandler(t *testing.T) {
	t.Run("Success_AllVersions", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		newer := newVersion(t, "/x", credentialDomain.TypeValue, credentialDomain.StringValue("2"))
		older := newVersion(t, "/x", credentialDomain.TypeValue, credentialDomain.StringValue("1"))

		useCase.On("GetVersions", mock.Anything, "/x", maxVersions).
			Return([]credentialDomain.CredentialVersion{newer, older}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/data?name=/x", nil)
		record := auditDomain.NewRecord("req-1", http.MethodGet, "/api/v1/data")
		c.Request = c.Request.WithContext(auditDomain.WithRecord(c.Request.Context(), record))
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.DataResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "2", response.Data[0].Value)
		assert.Equal(t, "1", response.Data[1].Value)
		assert.Len(t, record.Versions, 2)
	})

	t.Run("Success_Current", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		version := newVersion(t, "/x", credentialDomain.TypeValue, credentialDomain.StringValue("2"))

		useCase.On("GetVersions", mock.Anything, "/x", 1).
			Return([]credentialDomain.CredentialVersion{version}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/data?name=/x&current=true", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_VersionsLimit", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		version := newVersion(t, "/x", credentialDomain.TypeValue, credentialDomain.StringValue("2"))

		useCase.On("GetVersions", mock.Anything, "/x", 3).
			Return([]credentialDomain.CredentialVersion{version}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/data?name=/x&versions=3", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_CurrentAndVersions", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/data?name=/x&current=true&versions=2", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_MissingName", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/data", nil)
		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_DeniedAndMissingAreIdentical", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		useCase.On("GetVersions", mock.Anything, "/denied", maxVersions).
			Return(nil, credentialDomain.ErrAccessDenied).Once()
		useCase.On("GetVersions", mock.Anything, "/missing", maxVersions).
			Return(nil, credentialDomain.ErrCredentialNotFound).Once()

		c1, denied := createTestContext(http.MethodGet, "/api/v1/data?name=/denied", nil)
		handler.GetHandler(c1)
		c2, missing := createTestContext(http.MethodGet, "/api/v1/data?name=/missing", nil)
		handler.GetHandler(c2)

		assert.Equal(t, http.StatusNotFound, denied.Code)
		assert.Equal(t, missing.Code, denied.Code)
		assert.Equal(t, missing.Body.String(), denied.Body.String())
	})
}

func TestCredentialHandler_GetByIDHandler(t *testing.T) {
	t.Run("Success_SSHFingerprint", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		pair := credentialDomain.KeyPairValue{
			PublicKey:  "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl ops",
			PrivateKey: "private",
		}
		version := newVersion(t, "/ssh", credentialDomain.TypeSSH, pair)

		useCase.On("GetByID", mock.Anything, version.Base().ID).Return(version, nil).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/data/"+version.Base().ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: version.Base().ID.String()}}
		handler.GetByIDHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"public_key_fingerprint":"SHA256:`)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/api/v1/data/nope", nil)
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		handler.GetByIDHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		id := uuid.Must(uuid.NewV7())
		useCase.On("GetByID", mock.Anything, id).Return(nil, credentialDomain.ErrCredentialNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/api/v1/data/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.GetByIDHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCredentialHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		useCase.On("Delete", mock.Anything, "/x").Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/api/v1/data?name=/x", nil)
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Error_Denied", func(t *testing.T) {
		handler, useCase, _ := setupTestHandler(t)
		useCase.On("Delete", mock.Anything, "/x").Return(credentialDomain.ErrAccessDenied).Once()

		c, w := createTestContext(http.MethodDelete, "/api/v1/data?name=/x", nil)
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
