package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretService_GenerateSecret(t *testing.T) {
	service := NewSecretService()

	plainSecret, hashedSecret, err := service.GenerateSecret()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(plainSecret)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
	assert.Contains(t, hashedSecret, "$argon2id$")
	assert.True(t, service.CompareSecret(plainSecret, hashedSecret))

	otherSecret, otherHash, err := service.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, plainSecret, otherSecret)
	assert.NotEqual(t, hashedSecret, otherHash)
}

func TestSecretService_CompareSecret(t *testing.T) {
	service := NewSecretService()

	hashedSecret, err := service.HashSecret("correct-token")
	require.NoError(t, err)

	assert.True(t, service.CompareSecret("correct-token", hashedSecret))
	assert.False(t, service.CompareSecret("wrong-token", hashedSecret))
	assert.False(t, service.CompareSecret("correct-token", "not-a-phc-string"))
}

func TestTokenService_HashToken(t *testing.T) {
	service := NewTokenService()

	hash := service.HashToken("token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, service.HashToken("token"))
	assert.NotEqual(t, hash, service.HashToken("other"))
}

func TestTokenService_KeyedPerInstance(t *testing.T) {
	assert.NotEqual(t, NewTokenService().HashToken("token"), NewTokenService().HashToken("token"))
}
