package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	validKey := randomKey(t)

	// Each algorithm only opens its own ciphertext, which pins the constructor chosen.
	opensWith := func(t *testing.T, alg encryptionDomain.Algorithm, open func([]byte) (*Sealer, error)) bool {
		t.Helper()
		sealer, err := manager.CreateCipher(validKey, alg)
		require.NoError(t, err)
		ciphertext, nonce, err := sealer.Encrypt([]byte("value"), nil)
		require.NoError(t, err)

		other, err := open(validKey)
		require.NoError(t, err)
		_, err = other.Decrypt(ciphertext, nonce, nil)
		return err == nil
	}

	t.Run("create AES-GCM cipher", func(t *testing.T) {
		assert.True(t, opensWith(t, encryptionDomain.AESGCM, NewAESGCM))
		assert.False(t, opensWith(t, encryptionDomain.AESGCM, NewChaCha20Poly1305))
	})

	t.Run("create ChaCha20-Poly1305 cipher", func(t *testing.T) {
		assert.True(t, opensWith(t, encryptionDomain.ChaCha20, NewChaCha20Poly1305))
		assert.False(t, opensWith(t, encryptionDomain.ChaCha20, NewAESGCM))
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(validKey, encryptionDomain.Algorithm("AES-GCM"))
		assert.ErrorIs(t, err, encryptionDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("invalid key sizes", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			_, err := manager.CreateCipher(make([]byte, size), encryptionDomain.AESGCM)
			assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeySize, "size %d", size)
		}
	})

	t.Run("nil key", func(t *testing.T) {
		_, err := manager.CreateCipher(nil, encryptionDomain.ChaCha20)
		assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeySize)
	})
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, encryptionDomain.AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, encryptionDomain.ChaCha20, alg)

	_, err = ParseAlgorithm("des")
	assert.ErrorIs(t, err, encryptionDomain.ErrUnsupportedAlgorithm)
}
