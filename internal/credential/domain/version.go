package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CredentialVersion is one immutable-once-saved revision of a credential.
// The set of implementations is closed: see NewVersion.
type CredentialVersion interface {
	Base() *VersionBase
	Type() Type
	Value(ctx context.Context) (CredentialValue, error)
	SetValue(ctx context.Context, value CredentialValue) error
	// CopyInto copies every semantic attribute into dst, never its ID or CreatedAt.
	CopyInto(dst CredentialVersion) error
	isCredentialVersion()
}

// ParameterizedVersion is a version that keeps its generation parameters.
type ParameterizedVersion interface {
	CredentialVersion
	Parameters(ctx context.Context) (GenerationParameters, error)
	SetParameters(ctx context.Context, params GenerationParameters) error
}

// VersionBase holds the fields shared by all variants.
type VersionBase struct {
	ID         uuid.UUID
	Credential *Credential
	CreatedAt  time.Time

	encryptor Encryptor
}

// Base returns the shared fields.
func (b *VersionBase) Base() *VersionBase {
	return b
}

// Name returns the owning credential's name.
func (b *VersionBase) Name() string {
	if b.Credential == nil {
		return ""
	}
	return b.Credential.Name
}

func (b *VersionBase) isCredentialVersion() {}

func newBase(credential *Credential, enc Encryptor) VersionBase {
	return VersionBase{
		ID:         uuid.Must(uuid.NewV7()),
		Credential: credential,
		CreatedAt:  time.Now().UTC(),
		encryptor:  enc,
	}
}

// NewVersion creates an empty version of type t for credential.
func NewVersion(t Type, credential *Credential, enc Encryptor) (CredentialVersion, error) {
	base := newBase(credential, enc)

	switch t {
	case TypePassword:
		return &PasswordVersion{VersionBase: base}, nil
	case TypeUser:
		return &UserVersion{VersionBase: base}, nil
	case TypeValue:
		return &ValueVersion{VersionBase: base}, nil
	case TypeJSON:
		return &JSONVersion{VersionBase: base}, nil
	case TypeCertificate:
		return &CertificateVersion{VersionBase: base}, nil
	case TypeRSA:
		return &RSAVersion{VersionBase: base}, nil
	case TypeSSH:
		return &SSHVersion{VersionBase: base}, nil
	default:
		return nil, ErrUnknownType
	}
}

func setJSON(ctx context.Context, field *EncryptedField, enc Encryptor, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return ErrInvalidValue
	}
	return field.Set(ctx, enc, payload)
}

func getJSON(ctx context.Context, field *EncryptedField, enc Encryptor, v any) (bool, error) {
	payload, err := field.Get(ctx, enc)
	if err != nil {
		return false, err
	}
	if payload == nil {
		return false, nil
	}
	return true, json.Unmarshal(payload, v)
}
