package service

import (
	"context"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// Generator dispatches a request to the generator for its type.
type Generator struct {
	passwords    *PasswordGenerator
	keyPairs     *KeyPairGenerator
	certificates *CertificateGenerator
}

// NewGenerator creates a Generator. caLoader is used to sign certificates with stored CAs.
func NewGenerator(caLoader CALoader) *Generator {
	return &Generator{
		passwords:    NewPasswordGenerator(),
		keyPairs:     NewKeyPairGenerator(),
		certificates: NewCertificateGenerator(caLoader),
	}
}

// Generate produces a value matching req.Type.
func (g *Generator) Generate(
	ctx context.Context,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialValue, error) {
	switch req.Type {
	case credentialDomain.TypePassword:
		params, ok := req.Parameters.(*credentialDomain.PasswordParameters)
		if !ok && req.Parameters != nil {
			return nil, credentialDomain.ErrTypeMismatch
		}
		password, err := g.passwords.Generate(params)
		if err != nil {
			return nil, err
		}
		return credentialDomain.StringValue(password), nil

	case credentialDomain.TypeUser:
		params, ok := req.Parameters.(*credentialDomain.UserParameters)
		if !ok && req.Parameters != nil {
			return nil, credentialDomain.ErrTypeMismatch
		}
		return g.generateUser(params)

	case credentialDomain.TypeCertificate:
		params, ok := req.Parameters.(*credentialDomain.CertificateParameters)
		if !ok && req.Parameters != nil {
			return nil, credentialDomain.ErrTypeMismatch
		}
		return g.certificates.Generate(ctx, params)

	case credentialDomain.TypeRSA:
		params, ok := req.Parameters.(*credentialDomain.RSAParameters)
		if !ok && req.Parameters != nil {
			return nil, credentialDomain.ErrTypeMismatch
		}
		return g.keyPairs.GenerateRSA(params)

	case credentialDomain.TypeSSH:
		params, ok := req.Parameters.(*credentialDomain.SSHParameters)
		if !ok && req.Parameters != nil {
			return nil, credentialDomain.ErrTypeMismatch
		}
		return g.keyPairs.GenerateSSH(params)

	case credentialDomain.TypeValue, credentialDomain.TypeJSON:
		return nil, credentialDomain.ErrCannotRegenerate

	default:
		return nil, credentialDomain.ErrUnknownType
	}
}

func (g *Generator) generateUser(params *credentialDomain.UserParameters) (credentialDomain.CredentialValue, error) {
	var passwordParams *credentialDomain.PasswordParameters
	username := ""
	if params != nil {
		passwordParams = &params.PasswordParameters
		username = params.Username
	}

	if username == "" {
		generated, err := g.passwords.GenerateUsername()
		if err != nil {
			return nil, err
		}
		username = generated
	}

	password, err := g.passwords.Generate(passwordParams)
	if err != nil {
		return nil, err
	}
	return credentialDomain.UserValue{Username: username, Password: password}, nil
}
