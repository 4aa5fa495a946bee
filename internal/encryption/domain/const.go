package domain

// Algorithm represents the AEAD used by the internal key provider.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Provider identifiers.
const (
	ProviderInternal = "internal"
	ProviderKMS      = "kms"
)

// KeySize is the required length of internal key material.
const KeySize = 32
