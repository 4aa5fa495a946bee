package service

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"strings"
	"time"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const defaultCertificateDuration = 365 * 24 * time.Hour

var keyUsages = map[string]x509.KeyUsage{
	"digital_signature": x509.KeyUsageDigitalSignature,
	"non_repudiation":   x509.KeyUsageContentCommitment,
	"key_encipherment":  x509.KeyUsageKeyEncipherment,
	"data_encipherment": x509.KeyUsageDataEncipherment,
	"key_agreement":     x509.KeyUsageKeyAgreement,
	"key_cert_sign":     x509.KeyUsageCertSign,
	"crl_sign":          x509.KeyUsageCRLSign,
	"encipher_only":     x509.KeyUsageEncipherOnly,
	"decipher_only":     x509.KeyUsageDecipherOnly,
}

var extendedKeyUsages = map[string]x509.ExtKeyUsage{
	"server_auth":      x509.ExtKeyUsageServerAuth,
	"client_auth":      x509.ExtKeyUsageClientAuth,
	"code_signing":     x509.ExtKeyUsageCodeSigning,
	"email_protection": x509.ExtKeyUsageEmailProtection,
	"timestamping":     x509.ExtKeyUsageTimeStamping,
}

// CertificateGenerator issues self-signed certificates or certificates signed by a
// stored CA.
type CertificateGenerator struct {
	keyPairs *KeyPairGenerator
	caLoader CALoader
	now      func() time.Time
}

// NewCertificateGenerator creates a CertificateGenerator. caLoader reads signing CAs
// with the caller's permissions.
func NewCertificateGenerator(caLoader CALoader) *CertificateGenerator {
	return &CertificateGenerator{
		keyPairs: NewKeyPairGenerator(),
		caLoader: caLoader,
		now:      time.Now,
	}
}

// Generate issues a certificate for params.
func (g *CertificateGenerator) Generate(
	ctx context.Context,
	params *credentialDomain.CertificateParameters,
) (credentialDomain.CertificateValue, error) {
	if params == nil {
		return credentialDomain.CertificateValue{}, apperrors.Wrap(
			credentialDomain.ErrInvalidParameters,
			"certificate parameters are required",
		)
	}
	if params.CaName == "" && !params.SelfSign && !params.IsCA {
		return credentialDomain.CertificateValue{}, apperrors.Wrap(
			credentialDomain.ErrInvalidParameters,
			"a certificate must reference a signing ca, be self-signed, or be a ca",
		)
	}
	if params.CommonName == "" && len(params.AlternativeNames) == 0 {
		return credentialDomain.CertificateValue{}, apperrors.Wrap(
			credentialDomain.ErrInvalidParameters,
			"a common name or alternative name is required",
		)
	}

	key, err := newRSAKey(params.KeyLength)
	if err != nil {
		return credentialDomain.CertificateValue{}, err
	}

	template, err := g.template(params)
	if err != nil {
		return credentialDomain.CertificateValue{}, err
	}

	parent, signer := template, crypto.Signer(key)
	caPEM, caName := "", ""

	if params.CaName != "" {
		caName = credentialDomain.NormalizeName(params.CaName)
		parent, signer, caPEM, err = g.loadCA(ctx, caName)
		if err != nil {
			return credentialDomain.CertificateValue{}, err
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, &key.PublicKey, signer)
	if err != nil {
		return credentialDomain.CertificateValue{}, apperrors.Wrap(err, "failed to create certificate")
	}
	certificatePEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	if caName == "" {
		caPEM = certificatePEM
	}

	return credentialDomain.CertificateValue{
		CA:          caPEM,
		Certificate: certificatePEM,
		PrivateKey:  encodeRSAPrivateKey(key),
		CaName:      caName,
	}, nil
}

func (g *CertificateGenerator) template(params *credentialDomain.CertificateParameters) (*x509.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate serial number")
	}

	duration := params.Duration
	if duration <= 0 {
		duration = defaultCertificateDuration
	}
	notBefore := g.now().UTC()

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         params.CommonName,
			Organization:       nonEmpty(params.Organization),
			OrganizationalUnit: nonEmpty(params.OrganizationUnit),
			Locality:           nonEmpty(params.Locality),
			Province:           nonEmpty(params.State),
			Country:            nonEmpty(params.Country),
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(duration),
		BasicConstraintsValid: true,
		IsCA:                  params.IsCA,
	}

	for _, name := range params.AlternativeNames {
		if ip := net.ParseIP(name); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, name)
		}
	}

	for _, usage := range params.KeyUsage {
		bit, ok := keyUsages[strings.ToLower(usage)]
		if !ok {
			return nil, apperrors.Wrapf(credentialDomain.ErrInvalidParameters, "unknown key usage %q", usage)
		}
		template.KeyUsage |= bit
	}
	for _, usage := range params.ExtendedKeyUsage {
		ext, ok := extendedKeyUsages[strings.ToLower(usage)]
		if !ok {
			return nil, apperrors.Wrapf(credentialDomain.ErrInvalidParameters, "unknown extended key usage %q", usage)
		}
		template.ExtKeyUsage = append(template.ExtKeyUsage, ext)
	}

	if params.IsCA {
		template.KeyUsage |= x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	}
	return template, nil
}

// loadCA reads the signing CA through the caller's read permission.
func (g *CertificateGenerator) loadCA(
	ctx context.Context,
	caName string,
) (*x509.Certificate, crypto.Signer, string, error) {
	version, err := g.caLoader.Get(ctx, caName)
	if err != nil {
		return nil, nil, "", err
	}

	ca, ok := version.(*credentialDomain.CertificateVersion)
	if !ok || !ca.IsCA() {
		return nil, nil, "", apperrors.Wrapf(credentialDomain.ErrInvalidParameters, "%s is not a certificate authority", caName)
	}

	value, err := ca.Value(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	certValue := value.(credentialDomain.CertificateValue)
	if certValue.PrivateKey == "" {
		return nil, nil, "", apperrors.Wrapf(credentialDomain.ErrInvalidParameters, "%s has no private key", caName)
	}

	parent, err := ca.ParsedCertificate()
	if err != nil {
		return nil, nil, "", err
	}
	signer, err := parsePrivateKey(certValue.PrivateKey)
	if err != nil {
		return nil, nil, "", err
	}
	return parent, signer, certValue.Certificate, nil
}

func parsePrivateKey(data string) (crypto.Signer, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, credentialDomain.ErrInvalidValue
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, credentialDomain.ErrInvalidValue
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, credentialDomain.ErrInvalidValue
	}
	return signer, nil
}

func nonEmpty(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}
