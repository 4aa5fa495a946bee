// Package service provides the cryptographic primitives behind encryption keys:
// AEAD ciphers, the internal (memguard-held) key provider, and the KMS keeper provider.
package service

import (
	"context"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances.
type AEADManager interface {
	CreateCipher(key []byte, alg encryptionDomain.Algorithm) (AEAD, error)
}

// Provider seals and opens payloads under one key.
// Implementations must be safe for concurrent use.
type Provider interface {
	Encrypt(ctx context.Context, plaintext []byte) (ciphertext, nonce []byte, err error)
	Decrypt(ctx context.Context, ciphertext, nonce []byte) ([]byte, error)
	Close() error
}

// KMSKeeper is the subset of *secrets.Keeper the providers depend on.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
