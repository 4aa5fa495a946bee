package service

import (
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// AEADManagerService creates AEAD ciphers by algorithm name.
type AEADManagerService struct{}

// NewAEADManager creates a new AEAD manager.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize unless key is 32 bytes and
// ErrUnsupportedAlgorithm for unknown algorithms.
func (am *AEADManagerService) CreateCipher(key []byte, alg encryptionDomain.Algorithm) (AEAD, error) {
	if len(key) != encryptionDomain.KeySize {
		return nil, encryptionDomain.ErrInvalidKeySize
	}

	switch alg {
	case encryptionDomain.AESGCM:
		return NewAESGCM(key)
	case encryptionDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, encryptionDomain.ErrUnsupportedAlgorithm
	}
}

// ParseAlgorithm validates a configured algorithm name.
func ParseAlgorithm(name string) (encryptionDomain.Algorithm, error) {
	switch alg := encryptionDomain.Algorithm(name); alg {
	case encryptionDomain.AESGCM, encryptionDomain.ChaCha20:
		return alg, nil
	default:
		return "", encryptionDomain.ErrUnsupportedAlgorithm
	}
}
