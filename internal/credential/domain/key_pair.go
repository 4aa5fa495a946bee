package domain

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"golang.org/x/crypto/ssh"
)

type keyPair struct {
	publicKey  string
	privateKey EncryptedField
}

func (k *keyPair) set(ctx context.Context, enc Encryptor, value CredentialValue) error {
	pair, ok := value.(KeyPairValue)
	if !ok {
		return ErrTypeMismatch
	}
	if pair.PublicKey == "" {
		return ErrInvalidValue
	}
	if err := k.privateKey.Set(ctx, enc, []byte(pair.PrivateKey)); err != nil {
		return err
	}
	k.publicKey = pair.PublicKey
	return nil
}

func (k *keyPair) get(ctx context.Context, enc Encryptor) (CredentialValue, error) {
	privateKey, err := k.privateKey.Get(ctx, enc)
	if err != nil {
		return nil, err
	}
	return KeyPairValue{PublicKey: k.publicKey, PrivateKey: string(privateKey)}, nil
}

// RSAVersion stores a PEM public key in the clear and the private key encrypted.
type RSAVersion struct {
	VersionBase
	keyPair
}

// Type returns TypeRSA.
func (v *RSAVersion) Type() Type {
	return TypeRSA
}

// PublicKey returns the PEM public key.
func (v *RSAVersion) PublicKey() string {
	return v.publicKey
}

// KeyLength returns the modulus size in bits, or 0 when the public key does not parse.
func (v *RSAVersion) KeyLength() int {
	block, _ := pem.Decode([]byte(v.publicKey))
	if block == nil {
		return 0
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return 0
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return 0
	}
	return rsaKey.N.BitLen()
}

// SetValue accepts a KeyPairValue.
func (v *RSAVersion) SetValue(ctx context.Context, value CredentialValue) error {
	return v.set(ctx, v.encryptor, value)
}

// Value decrypts the private key into a KeyPairValue.
func (v *RSAVersion) Value(ctx context.Context) (CredentialValue, error) {
	return v.get(ctx, v.encryptor)
}

// CopyInto copies the key pair and owner into dst.
func (v *RSAVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*RSAVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.keyPair = v.keyPair
	return nil
}

// SSHVersion stores an authorized_keys public key in the clear and the private key encrypted.
type SSHVersion struct {
	VersionBase
	keyPair
}

// Type returns TypeSSH.
func (v *SSHVersion) Type() Type {
	return TypeSSH
}

// PublicKey returns the authorized_keys line.
func (v *SSHVersion) PublicKey() string {
	return v.publicKey
}

// KeyLength returns the RSA modulus size in bits, or 0 when it cannot be determined.
func (v *SSHVersion) KeyLength() int {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(v.publicKey))
	if err != nil {
		return 0
	}
	cryptoKey, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return 0
	}
	rsaKey, ok := cryptoKey.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		return 0
	}
	return rsaKey.N.BitLen()
}

// Comment returns the comment of the authorized_keys line.
func (v *SSHVersion) Comment() string {
	_, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(v.publicKey))
	if err != nil {
		return ""
	}
	return comment
}

// SetValue accepts a KeyPairValue.
func (v *SSHVersion) SetValue(ctx context.Context, value CredentialValue) error {
	return v.set(ctx, v.encryptor, value)
}

// Value decrypts the private key into a KeyPairValue.
func (v *SSHVersion) Value(ctx context.Context) (CredentialValue, error) {
	return v.get(ctx, v.encryptor)
}

// CopyInto copies the key pair and owner into dst.
func (v *SSHVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*SSHVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.keyPair = v.keyPair
	return nil
}
