// Package testing provides shared test utilities for credential module tests.
package testing

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// FakeEncryptor reverses plaintext instead of encrypting it and counts calls.
type FakeEncryptor struct {
	mu           sync.Mutex
	activeID     uuid.UUID
	encryptCalls int
	decryptCalls int
}

// NewFakeEncryptor creates a FakeEncryptor with a random active key id.
func NewFakeEncryptor() *FakeEncryptor {
	return &FakeEncryptor{activeID: uuid.Must(uuid.NewV7())}
}

// Encrypt reverses plaintext and tags it with the active key id.
func (f *FakeEncryptor) Encrypt(_ context.Context, plaintext []byte) (encryptionDomain.EncryptedValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.encryptCalls++
	return encryptionDomain.EncryptedValue{
		KeyID:      f.activeID,
		Ciphertext: reverse(plaintext),
		Nonce:      []byte{byte(f.encryptCalls)},
	}, nil
}

// Decrypt undoes Encrypt.
func (f *FakeEncryptor) Decrypt(_ context.Context, value encryptionDomain.EncryptedValue) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decryptCalls++
	return reverse(value.Ciphertext), nil
}

// ActiveKeyID returns the current key id.
func (f *FakeEncryptor) ActiveKeyID() uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeID
}

// Rotate switches to a new active key id.
func (f *FakeEncryptor) Rotate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeID = uuid.Must(uuid.NewV7())
}

// EncryptCalls returns how many times Encrypt ran.
func (f *FakeEncryptor) EncryptCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.encryptCalls
}

func reverse(in []byte) []byte {
	out := make([]byte, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

// SelfSignedCertificatePEM returns a throwaway PEM certificate.
func SelfSignedCertificatePEM(commonName string, isCA bool) string {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		panic(err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}
