package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// Sealer is an AEAD that draws a random nonce for every Encrypt call.
// It is safe for concurrent use.
type Sealer struct {
	aead cipher.AEAD
}

// NewAESGCM builds an AES-256-GCM sealer.
func NewAESGCM(key []byte) (*Sealer, error) {
	if len(key) != encryptionDomain.KeySize {
		return nil, encryptionDomain.ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "aes cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(err, "gcm mode")
	}
	return &Sealer{aead: aead}, nil
}

// NewChaCha20Poly1305 builds a ChaCha20-Poly1305 sealer.
func NewChaCha20Poly1305(key []byte) (*Sealer, error) {
	if len(key) != encryptionDomain.KeySize {
		return nil, encryptionDomain.ErrInvalidKeySize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "chacha20-poly1305 cipher")
	}
	return &Sealer{aead: aead}, nil
}

// Encrypt returns the ciphertext with its tag appended, plus the nonce used.
func (s *Sealer) Encrypt(plaintext, aad []byte) ([]byte, []byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, apperrors.Wrap(err, "read nonce")
	}
	return s.aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// Decrypt fails with ErrDecryptionFailed on a bad nonce length, a tampered
// ciphertext or mismatched aad.
func (s *Sealer) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, apperrors.Wrapf(encryptionDomain.ErrDecryptionFailed, "nonce is %d bytes", len(nonce))
	}
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, encryptionDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
