package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/credstore/internal/errors"
)

// tokenEntropy is the number of random bytes behind each generated bearer token.
const tokenEntropy = 32

type secretService struct {
	hasher *pwdhash.PasswordHasher
}

// NewSecretService returns a SecretService hashing with the moderate Argon2id policy.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		panic(err)
	}
	return &secretService{hasher: hasher}
}

func (s *secretService) GenerateSecret() (string, string, error) {
	var raw [tokenEntropy]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", "", apperrors.Wrap(err, "read token entropy")
	}

	token := base64.RawURLEncoding.EncodeToString(raw[:])
	hash, err := s.HashSecret(token)
	if err != nil {
		return "", "", err
	}
	return token, hash, nil
}

func (s *secretService) HashSecret(plainSecret string) (string, error) {
	hash, err := s.hasher.Hash([]byte(plainSecret))
	return hash, apperrors.Wrap(err, "hash token")
}

// CompareSecret treats a malformed hash as a mismatch.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	return err == nil && ok
}
