package domain

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// Encryptor seals and opens attribute payloads.
type Encryptor interface {
	Encrypt(ctx context.Context, plaintext []byte) (encryptionDomain.EncryptedValue, error)
	Decrypt(ctx context.Context, value encryptionDomain.EncryptedValue) ([]byte, error)
	ActiveKeyID() uuid.UUID
}

// EncryptedField holds one encrypted attribute.
type EncryptedField struct {
	value encryptionDomain.EncryptedValue
}

// NewEncryptedField wraps a stored ciphertext.
func NewEncryptedField(value encryptionDomain.EncryptedValue) EncryptedField {
	return EncryptedField{value: value}
}

// Set stores plaintext. When the stored plaintext already equals it under the active
// key nothing is encrypted and the field is left untouched.
func (f *EncryptedField) Set(ctx context.Context, enc Encryptor, plaintext []byte) error {
	if len(plaintext) == 0 {
		return ErrInvalidValue
	}

	if !f.value.IsZero() && f.value.KeyID == enc.ActiveKeyID() {
		current, err := enc.Decrypt(ctx, f.value)
		if err != nil {
			return err
		}
		if bytes.Equal(current, plaintext) {
			return nil
		}
	}

	value, err := enc.Encrypt(ctx, plaintext)
	if err != nil {
		return err
	}
	f.value = value
	return nil
}

// Get decrypts the field. An empty field returns nil.
func (f *EncryptedField) Get(ctx context.Context, enc Encryptor) ([]byte, error) {
	if f.value.IsZero() {
		return nil, nil
	}
	return enc.Decrypt(ctx, f.value)
}

// Clear drops the stored ciphertext.
func (f *EncryptedField) Clear() {
	f.value = encryptionDomain.EncryptedValue{}
}

// Encrypted returns the stored ciphertext triple.
func (f *EncryptedField) Encrypted() encryptionDomain.EncryptedValue {
	return f.value
}
