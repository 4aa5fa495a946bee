package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

var (
	// ErrEncryptionUnavailable indicates no active key is configured or the key backend failed.
	ErrEncryptionUnavailable = errors.Wrap(errors.ErrUnavailable, "encryption unavailable")

	// ErrUnknownKey indicates a ciphertext references a key id that is not registered.
	// It is a server-side configuration fault, so it carries no client-facing category.
	ErrUnknownKey = errors.New("unknown encryption key")

	// ErrDecryptionFailed indicates authentication of the ciphertext failed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrUnsupportedAlgorithm indicates the requested AEAD is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates internal key material is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyConfig indicates the configured key list cannot be parsed.
	ErrInvalidKeyConfig = errors.Wrap(errors.ErrInvalidInput, "invalid encryption key configuration")

	// ErrCanaryNotFound indicates no canary row exists for the requested id.
	ErrCanaryNotFound = errors.Wrap(errors.ErrNotFound, "encryption key canary not found")
)
