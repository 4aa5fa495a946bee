package service

import (
	"crypto/rand"
	"math/big"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars  = "0123456789"
	specialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	defaultPasswordLength = 30
	minPasswordLength     = 4
	maxPasswordLength     = 200
	usernameLength        = 20
)

// PasswordGenerator produces random passwords. Every enabled character class is
// represented at least once.
type PasswordGenerator struct{}

// NewPasswordGenerator creates a PasswordGenerator.
func NewPasswordGenerator() *PasswordGenerator {
	return &PasswordGenerator{}
}

// Generate returns a password for params; nil params use the defaults.
func (g *PasswordGenerator) Generate(params *credentialDomain.PasswordParameters) (string, error) {
	if params == nil {
		params = &credentialDomain.PasswordParameters{}
	}

	length := params.Length
	if length == 0 {
		length = defaultPasswordLength
	}
	if length < minPasswordLength || length > maxPasswordLength {
		return "", apperrors.Wrapf(
			credentialDomain.ErrInvalidParameters,
			"password length must be between %d and %d",
			minPasswordLength,
			maxPasswordLength,
		)
	}

	classes := make([]string, 0, 4)
	if !params.ExcludeLower {
		classes = append(classes, lowerChars)
	}
	if !params.ExcludeUpper {
		classes = append(classes, upperChars)
	}
	if !params.ExcludeNumber {
		classes = append(classes, numberChars)
	}
	if params.IncludeSpecial {
		classes = append(classes, specialChars)
	}
	if len(classes) == 0 {
		return "", apperrors.Wrap(
			credentialDomain.ErrInvalidParameters,
			"at least one character set must be included",
		)
	}

	var all string
	result := make([]byte, 0, length)
	for _, class := range classes {
		all += class
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		result = append(result, c)
	}

	for len(result) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		result = append(result, c)
	}

	if err := shuffle(result); err != nil {
		return "", err
	}
	return string(result), nil
}

// GenerateUsername returns a random alphabetic username.
func (g *PasswordGenerator) GenerateUsername() (string, error) {
	result := make([]byte, usernameLength)
	for i := range result {
		c, err := randomChar(lowerChars + upperChars)
		if err != nil {
			return "", err
		}
		result[i] = c
	}
	return string(result), nil
}

func randomChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read random bytes")
	}
	return charset[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return apperrors.Wrap(err, "failed to read random bytes")
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
