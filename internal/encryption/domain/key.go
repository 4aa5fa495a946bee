// Package domain defines the encryption key model used to protect credential fields at rest.
//
// Keys come from one of several providers (an in-process symmetric key or an
// external KMS keeper). Each key gets a stable UUID through a stored canary so
// ciphertext written under a key remains addressable after the key is rotated out.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CanaryValue is the fixed plaintext sealed under every registered key.
// Decrypting a stored canary back to this value proves a configured key is the
// one that produced it.
var CanaryValue = []byte("credstore-encryption-key-canary")

// EncryptionKey describes a registered key. Key material never appears here.
type EncryptionKey struct {
	ID         uuid.UUID // Stable identifier recorded next to every ciphertext
	ProviderID string    // "internal" or "kms"
	Name       string    // Operator-facing name from configuration
	Active     bool      // True for the single key used for new ciphertext
}

// EncryptedValue is a ciphertext together with the nonce and key that produced it.
type EncryptedValue struct {
	KeyID      uuid.UUID
	Ciphertext []byte
	Nonce      []byte
}

// IsZero reports whether nothing has been encrypted into v.
func (v EncryptedValue) IsZero() bool {
	return v.KeyID == uuid.Nil && len(v.Ciphertext) == 0
}

// Canary is the persisted proof-of-key record backing an EncryptionKey id.
type Canary struct {
	ID              uuid.UUID
	ProviderID      string
	Name            string
	EncryptedCanary []byte
	Nonce           []byte
	CreatedAt       time.Time
}
