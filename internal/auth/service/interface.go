// Package service provides the hashing primitives behind bearer-token authentication.
package service

// SecretService generates bearer tokens and verifies them against stored Argon2id hashes.
type SecretService interface {
	// GenerateSecret returns a random token and its Argon2id hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes plainSecret with Argon2id.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches hashedSecret in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService derives keyed digests used to cache token verification results.
type TokenService interface {
	// HashToken returns a hex digest of plainToken, stable for the process lifetime.
	HashToken(plainToken string) string
}
