package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

func TestNewInternalProvider(t *testing.T) {
	t.Run("wipes caller key", func(t *testing.T) {
		key := randomKey(t)

		provider, err := NewInternalProvider(key, encryptionDomain.AESGCM, NewAEADManager())
		require.NoError(t, err)
		require.NotNil(t, provider)
		assert.Equal(t, make([]byte, 32), key)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := NewInternalProvider(make([]byte, 16), encryptionDomain.AESGCM, NewAEADManager())
		assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewInternalProvider(randomKey(t), "rot13", NewAEADManager())
		assert.ErrorIs(t, err, encryptionDomain.ErrUnsupportedAlgorithm)
	})
}

func TestInternalProvider_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()

	for _, alg := range []encryptionDomain.Algorithm{encryptionDomain.AESGCM, encryptionDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			provider, err := NewInternalProvider(randomKey(t), alg, NewAEADManager())
			require.NoError(t, err)
			defer func() { assert.NoError(t, provider.Close()) }()

			ciphertext, nonce, err := provider.Encrypt(ctx, []byte("s3cr3t"))
			require.NoError(t, err)

			plaintext, err := provider.Decrypt(ctx, ciphertext, nonce)
			require.NoError(t, err)
			assert.Equal(t, []byte("s3cr3t"), plaintext)
		})
	}
}

func TestInternalProvider_DecryptWithOtherKey(t *testing.T) {
	ctx := context.Background()

	first, err := NewInternalProvider(randomKey(t), encryptionDomain.AESGCM, NewAEADManager())
	require.NoError(t, err)
	second, err := NewInternalProvider(randomKey(t), encryptionDomain.AESGCM, NewAEADManager())
	require.NoError(t, err)

	ciphertext, nonce, err := first.Encrypt(ctx, []byte("value"))
	require.NoError(t, err)

	_, err = second.Decrypt(ctx, ciphertext, nonce)
	assert.ErrorIs(t, err, encryptionDomain.ErrDecryptionFailed)
}
