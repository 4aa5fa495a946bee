package service

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"slices"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// RequestBuilder rebuilds the generate request that would reproduce a stored version.
// Only non-secret metadata and stored generation parameters are consulted.
type RequestBuilder struct{}

// NewRequestBuilder creates a RequestBuilder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// CreateGenerateRequest returns an overwrite request for version's credential.
func (b *RequestBuilder) CreateGenerateRequest(
	ctx context.Context,
	version credentialDomain.CredentialVersion,
) (credentialDomain.GenerateRequest, error) {
	req := credentialDomain.GenerateRequest{
		Name: version.Base().Name(),
		Type: version.Type(),
		Mode: credentialDomain.ModeOverwrite,
	}

	switch v := version.(type) {
	case *credentialDomain.PasswordVersion, *credentialDomain.UserVersion:
		params, err := v.(credentialDomain.ParameterizedVersion).Parameters(ctx)
		if err != nil {
			return credentialDomain.GenerateRequest{}, err
		}
		if params == nil {
			return credentialDomain.GenerateRequest{}, apperrors.Wrap(
				credentialDomain.ErrCannotRegenerate,
				"the value was statically set, only generated values may be regenerated",
			)
		}
		req.Parameters = params

	case *credentialDomain.CertificateVersion:
		params, err := certificateParameters(v)
		if err != nil {
			return credentialDomain.GenerateRequest{}, err
		}
		req.Parameters = params

	case *credentialDomain.RSAVersion:
		req.Parameters = &credentialDomain.RSAParameters{KeyLength: v.KeyLength()}

	case *credentialDomain.SSHVersion:
		req.Parameters = &credentialDomain.SSHParameters{KeyLength: v.KeyLength(), Comment: v.Comment()}

	default:
		return credentialDomain.GenerateRequest{}, credentialDomain.ErrCannotRegenerate
	}

	return req, nil
}

func certificateParameters(v *credentialDomain.CertificateVersion) (*credentialDomain.CertificateParameters, error) {
	cert, err := v.ParsedCertificate()
	if err != nil {
		return nil, err
	}

	params := &credentialDomain.CertificateParameters{
		CommonName:       cert.Subject.CommonName,
		Organization:     first(cert.Subject.Organization),
		OrganizationUnit: first(cert.Subject.OrganizationalUnit),
		Locality:         first(cert.Subject.Locality),
		State:            first(cert.Subject.Province),
		Country:          first(cert.Subject.Country),
		CaName:           v.CaName(),
		IsCA:             v.IsCA(),
		SelfSign:         v.CaName() == "",
		Duration:         cert.NotAfter.Sub(cert.NotBefore),
	}

	params.AlternativeNames = append(params.AlternativeNames, cert.DNSNames...)
	for _, ip := range cert.IPAddresses {
		params.AlternativeNames = append(params.AlternativeNames, ip.String())
	}

	for name, bit := range keyUsages {
		if cert.KeyUsage&bit != 0 && !(v.IsCA() && (bit == x509.KeyUsageCertSign || bit == x509.KeyUsageCRLSign)) {
			params.KeyUsage = append(params.KeyUsage, name)
		}
	}
	for name, ext := range extendedKeyUsages {
		for _, usage := range cert.ExtKeyUsage {
			if usage == ext {
				params.ExtendedKeyUsage = append(params.ExtendedKeyUsage, name)
			}
		}
	}
	slices.Sort(params.KeyUsage)
	slices.Sort(params.ExtendedKeyUsage)

	if key, ok := cert.PublicKey.(*rsa.PublicKey); ok {
		params.KeyLength = key.N.BitLen()
	}
	return params, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
