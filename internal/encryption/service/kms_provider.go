package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"

	"gocloud.dev/gcerrors"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const kmsNonceSize = 12

// KMSProvider delegates encryption to an external keeper. Keepers manage their own
// IVs, so the provider generates a nonce per call and seals it inside the payload;
// Decrypt checks that the recovered nonce matches the stored one.
type KMSProvider struct {
	keeper KMSKeeper
}

// NewKMSProvider wraps keeper.
func NewKMSProvider(keeper KMSKeeper) *KMSProvider {
	return &KMSProvider{keeper: keeper}
}

// Encrypt seals nonce||plaintext with the keeper.
func (p *KMSProvider) Encrypt(ctx context.Context, plaintext []byte) ([]byte, []byte, error) {
	nonce := make([]byte, kmsNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	payload := make([]byte, 0, len(nonce)+len(plaintext))
	payload = append(payload, nonce...)
	payload = append(payload, plaintext...)
	defer encryptionDomain.Zero(payload)

	ciphertext, err := p.keeper.Encrypt(ctx, payload)
	if err != nil {
		return nil, nil, apperrors.Wrap(encryptionDomain.ErrEncryptionUnavailable, err.Error())
	}
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext with the keeper and strips the bound nonce. A ciphertext
// the backend rejects or a nonce mismatch is ErrDecryptionFailed; any other keeper
// failure is ErrEncryptionUnavailable.
func (p *KMSProvider) Decrypt(ctx context.Context, ciphertext, nonce []byte) ([]byte, error) {
	payload, err := p.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.InvalidArgument {
			return nil, encryptionDomain.ErrDecryptionFailed
		}
		return nil, apperrors.Wrap(encryptionDomain.ErrEncryptionUnavailable, err.Error())
	}

	if len(payload) < kmsNonceSize || !bytes.Equal(payload[:kmsNonceSize], nonce) {
		encryptionDomain.Zero(payload)
		return nil, encryptionDomain.ErrDecryptionFailed
	}

	plaintext := make([]byte, len(payload)-kmsNonceSize)
	copy(plaintext, payload[kmsNonceSize:])
	encryptionDomain.Zero(payload)

	return plaintext, nil
}

// Close releases the keeper.
func (p *KMSProvider) Close() error {
	return p.keeper.Close()
}
