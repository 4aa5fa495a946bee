package dto

import (
	"context"
	"time"

	"golang.org/x/crypto/ssh"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// CredentialResponse represents one credential version in API responses.
// SECURITY: Value carries plaintext and must only travel over TLS.
type CredentialResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Value            any       `json:"value"`
	VersionCreatedAt time.Time `json:"version_created_at"`
}

// DataResponse wraps a list of versions, newest first.
type DataResponse struct {
	Data []CredentialResponse `json:"data"`
}

type sshValueResponse struct {
	PublicKey            string `json:"public_key"`
	PrivateKey           string `json:"private_key"`
	PublicKeyFingerprint string `json:"public_key_fingerprint,omitempty"`
}

// MapVersionToResponse decrypts version into a response.
func MapVersionToResponse(ctx context.Context, version credentialDomain.CredentialVersion) (CredentialResponse, error) {
	value, err := version.Value(ctx)
	if err != nil {
		return CredentialResponse{}, err
	}

	base := version.Base()
	response := CredentialResponse{
		ID:               base.ID.String(),
		Name:             base.Name(),
		Type:             string(version.Type()),
		Value:            value,
		VersionCreatedAt: base.CreatedAt,
	}

	if pair, ok := value.(credentialDomain.KeyPairValue); ok && version.Type() == credentialDomain.TypeSSH {
		response.Value = sshValueResponse{
			PublicKey:            pair.PublicKey,
			PrivateKey:           pair.PrivateKey,
			PublicKeyFingerprint: fingerprint(pair.PublicKey),
		}
	}
	return response, nil
}

// MapVersionsToDataResponse decrypts every version.
func MapVersionsToDataResponse(
	ctx context.Context,
	versions []credentialDomain.CredentialVersion,
) (DataResponse, error) {
	data := make([]CredentialResponse, 0, len(versions))
	for _, version := range versions {
		response, err := MapVersionToResponse(ctx, version)
		if err != nil {
			return DataResponse{}, err
		}
		data = append(data, response)
	}
	return DataResponse{Data: data}, nil
}

func fingerprint(authorizedKey string) string {
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(authorizedKey))
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(key)
}
