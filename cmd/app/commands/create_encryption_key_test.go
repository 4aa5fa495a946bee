package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (encryptionService.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(encryptionService.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

func localSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

var encryptionKeysLine = regexp.MustCompile(`ENCRYPTION_KEYS="([^:]+):([^"]+)"`)

func TestRunCreateEncryptionKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plaintext-key", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, logger, &out, "primary", "", "text")
		require.NoError(t, err)

		match := encryptionKeysLine.FindStringSubmatch(out.String())
		require.Len(t, match, 3)
		assert.Equal(t, "primary", match[1])

		key, err := base64.StdEncoding.DecodeString(match[2])
		require.NoError(t, err)
		assert.Len(t, key, 32)

		assert.Contains(t, out.String(), `ACTIVE_ENCRYPTION_KEY="primary"`)
		assert.NotContains(t, out.String(), "KMS_KEY_URI")
	})

	t.Run("default-name", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, logger, &out, "", "", "text")
		require.NoError(t, err)
		assert.Regexp(t, `ENCRYPTION_KEYS="key-\d{4}-\d{2}-\d{2}:`, out.String())
	})

	t.Run("kms-wrapped-key-round-trips", func(t *testing.T) {
		kmsService := encryptionService.NewKMSService()
		uri := localSecretsURI(t)

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, kmsService, logger, &out, "wrapped", uri, "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), `KMS_KEY_URI="`+uri+`"`)

		match := encryptionKeysLine.FindStringSubmatch(out.String())
		require.Len(t, match, 3)
		wrapped, err := base64.StdEncoding.DecodeString(match[2])
		require.NoError(t, err)

		keeper, err := kmsService.OpenKeeper(ctx, uri)
		require.NoError(t, err)
		defer func() { _ = keeper.Close() }()

		key, err := keeper.Decrypt(ctx, wrapped)
		require.NoError(t, err)
		assert.Len(t, key, 32)
	})

	t.Run("json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, logger, &out, "primary", "", "json")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "primary", result["name"])
		assert.NotEmpty(t, result["material"])
		assert.Empty(t, result["kms_key_uri"])
	})

	t.Run("invalid-name", func(t *testing.T) {
		err := RunCreateEncryptionKey(ctx, &MockKMSService{}, logger, &bytes.Buffer{}, "a:b", "", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid key name")
	})

	t.Run("open-keeper-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "hashivault://broken").Return(nil, errors.New("unreachable"))

		var out bytes.Buffer
		err := RunCreateEncryptionKey(ctx, mockService, logger, &out, "primary", "hashivault://broken", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
		assert.Empty(t, out.String())
		mockService.AssertExpectations(t)
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}
		mockService.On("OpenKeeper", ctx, "hashivault://primary").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return(nil, errors.New("denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateEncryptionKey(ctx, mockService, logger, &bytes.Buffer{}, "primary", "hashivault://primary", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encrypt key with KMS")
		mockKeeper.AssertExpectations(t)
	})
}
