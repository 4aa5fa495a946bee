package service

import (
	"context"
	"fmt"

	"github.com/awnumar/memguard"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// InternalProvider encrypts with a symmetric key held in a memguard enclave.
// The key is only decrypted into locked memory for the duration of one call.
type InternalProvider struct {
	enclave     *memguard.Enclave
	algorithm   encryptionDomain.Algorithm
	aeadManager AEADManager
}

// NewInternalProvider seals key into an enclave. The caller's key slice is wiped.
func NewInternalProvider(
	key []byte,
	alg encryptionDomain.Algorithm,
	aeadManager AEADManager,
) (*InternalProvider, error) {
	if len(key) != encryptionDomain.KeySize {
		encryptionDomain.Zero(key)
		return nil, encryptionDomain.ErrInvalidKeySize
	}
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		encryptionDomain.Zero(key)
		return nil, err
	}

	return &InternalProvider{
		enclave:     memguard.NewEnclave(key),
		algorithm:   alg,
		aeadManager: aeadManager,
	}, nil
}

// Encrypt seals plaintext under the enclave key.
func (p *InternalProvider) Encrypt(ctx context.Context, plaintext []byte) ([]byte, []byte, error) {
	cipher, release, err := p.openCipher()
	if err != nil {
		return nil, nil, err
	}
	defer release()

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(encryptionDomain.ErrEncryptionUnavailable, err.Error())
	}
	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext. Authentication failures return ErrDecryptionFailed.
func (p *InternalProvider) Decrypt(ctx context.Context, ciphertext, nonce []byte) ([]byte, error) {
	cipher, release, err := p.openCipher()
	if err != nil {
		return nil, err
	}
	defer release()

	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, encryptionDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Close is a no-op; enclave memory is reclaimed by memguard.Purge at shutdown.
func (p *InternalProvider) Close() error {
	return nil
}

func (p *InternalProvider) openCipher() (AEAD, func(), error) {
	buf, err := p.enclave.Open()
	if err != nil {
		return nil, nil, apperrors.Wrap(
			encryptionDomain.ErrEncryptionUnavailable,
			fmt.Sprintf("failed to open key enclave: %v", err),
		)
	}

	cipher, err := p.aeadManager.CreateCipher(buf.Bytes(), p.algorithm)
	if err != nil {
		buf.Destroy()
		return nil, nil, err
	}

	return cipher, buf.Destroy, nil
}
