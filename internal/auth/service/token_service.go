package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

type tokenService struct {
	key []byte
}

// HashToken returns a hex HMAC-SHA256 of plainToken under a key that lives only
// for the process lifetime, so cached digests are useless once the process exits.
func (t *tokenService) HashToken(plainToken string) string {
	mac := hmac.New(sha256.New, t.key)
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewTokenService creates a TokenService with a fresh random key.
func NewTokenService() TokenService {
	key := make([]byte, sha256.Size)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(key)
	return &tokenService{key: key}
}
