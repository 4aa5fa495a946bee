package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"

	"golang.org/x/crypto/ssh"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const defaultKeyLength = 2048

// KeyPairGenerator produces RSA key pairs in PEM or authorized_keys form.
type KeyPairGenerator struct{}

// NewKeyPairGenerator creates a KeyPairGenerator.
func NewKeyPairGenerator() *KeyPairGenerator {
	return &KeyPairGenerator{}
}

// GenerateRSA returns a PKIX public key and PKCS#1 private key, both PEM.
func (g *KeyPairGenerator) GenerateRSA(params *credentialDomain.RSAParameters) (credentialDomain.KeyPairValue, error) {
	length := 0
	if params != nil {
		length = params.KeyLength
	}

	key, err := newRSAKey(length)
	if err != nil {
		return credentialDomain.KeyPairValue{}, err
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return credentialDomain.KeyPairValue{}, apperrors.Wrap(err, "failed to encode public key")
	}

	return credentialDomain.KeyPairValue{
		PublicKey:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})),
		PrivateKey: encodeRSAPrivateKey(key),
	}, nil
}

// GenerateSSH returns an authorized_keys public key (with optional comment) and a
// PKCS#1 private key.
func (g *KeyPairGenerator) GenerateSSH(params *credentialDomain.SSHParameters) (credentialDomain.KeyPairValue, error) {
	length, comment := 0, ""
	if params != nil {
		length, comment = params.KeyLength, strings.TrimSpace(params.Comment)
	}

	key, err := newRSAKey(length)
	if err != nil {
		return credentialDomain.KeyPairValue{}, err
	}

	sshKey, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return credentialDomain.KeyPairValue{}, apperrors.Wrap(err, "failed to encode ssh public key")
	}

	publicKey := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshKey)))
	if comment != "" {
		publicKey += " " + comment
	}

	return credentialDomain.KeyPairValue{
		PublicKey:  publicKey,
		PrivateKey: encodeRSAPrivateKey(key),
	}, nil
}

func newRSAKey(length int) (*rsa.PrivateKey, error) {
	if length == 0 {
		length = defaultKeyLength
	}
	switch length {
	case 2048, 3072, 4096:
	default:
		return nil, apperrors.Wrap(credentialDomain.ErrInvalidParameters, "key length must be 2048, 3072 or 4096")
	}

	key, err := rsa.GenerateKey(rand.Reader, length)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate rsa key")
	}
	return key, nil
}

func encodeRSAPrivateKey(key *rsa.PrivateKey) string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}
