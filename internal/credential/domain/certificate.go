package domain

import (
	"context"
	"crypto/x509"
	"encoding/pem"
)

// CertificateVersion stores a certificate chain in the clear and its private key encrypted.
type CertificateVersion struct {
	VersionBase
	ca          string
	certificate string
	caName      string
	isCA        bool
	privateKey  EncryptedField
}

// Type returns TypeCertificate.
func (v *CertificateVersion) Type() Type {
	return TypeCertificate
}

// CA returns the signing CA certificate (PEM).
func (v *CertificateVersion) CA() string {
	return v.ca
}

// Certificate returns the certificate (PEM).
func (v *CertificateVersion) Certificate() string {
	return v.certificate
}

// CaName returns the name of the stored CA credential that signed this certificate.
func (v *CertificateVersion) CaName() string {
	return v.caName
}

// IsCA reports whether the certificate is a certificate authority.
func (v *CertificateVersion) IsCA() bool {
	return v.isCA
}

// ParsedCertificate decodes the stored certificate.
func (v *CertificateVersion) ParsedCertificate() (*x509.Certificate, error) {
	return ParseCertificatePEM(v.certificate)
}

// SetValue accepts a CertificateValue. The certificate must parse; the private key
// is optional.
func (v *CertificateVersion) SetValue(ctx context.Context, value CredentialValue) error {
	cert, ok := value.(CertificateValue)
	if !ok {
		return ErrTypeMismatch
	}

	parsed, err := ParseCertificatePEM(cert.Certificate)
	if err != nil {
		return err
	}

	if cert.PrivateKey == "" {
		v.privateKey.Clear()
	} else if err := v.privateKey.Set(ctx, v.encryptor, []byte(cert.PrivateKey)); err != nil {
		return err
	}

	v.ca = cert.CA
	v.certificate = cert.Certificate
	v.caName = NormalizeName(cert.CaName)
	v.isCA = parsed.BasicConstraintsValid && parsed.IsCA
	return nil
}

// Value decrypts the private key into a CertificateValue.
func (v *CertificateVersion) Value(ctx context.Context) (CredentialValue, error) {
	privateKey, err := v.privateKey.Get(ctx, v.encryptor)
	if err != nil {
		return nil, err
	}
	return CertificateValue{
		CA:          v.ca,
		Certificate: v.certificate,
		PrivateKey:  string(privateKey),
		CaName:      v.caName,
	}, nil
}

// CopyInto copies the chain, key, signer and owner into dst.
func (v *CertificateVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*CertificateVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.ca = v.ca
	target.certificate = v.certificate
	target.caName = v.caName
	target.isCA = v.isCA
	target.privateKey = v.privateKey
	return nil
}

// ParseCertificatePEM decodes the first CERTIFICATE block of data.
func ParseCertificatePEM(data string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrInvalidValue
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, ErrInvalidValue
	}
	return cert, nil
}
