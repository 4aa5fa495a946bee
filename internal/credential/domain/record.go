package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

// VersionRecord is the storage shape of a version: one encrypted payload, optional
// encrypted generation parameters, the signer name, and plain metadata as JSON.
type VersionRecord struct {
	ID           uuid.UUID
	CredentialID uuid.UUID
	Type         Type
	Value        encryptionDomain.EncryptedValue
	Parameters   encryptionDomain.EncryptedValue
	CaName       string
	Metadata     []byte
	CreatedAt    time.Time
}

type versionMetadata struct {
	Username    string `json:"username,omitempty"`
	CA          string `json:"ca,omitempty"`
	Certificate string `json:"certificate,omitempty"`
	IsCA        bool   `json:"is_ca,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
}

// ToRecord flattens v for persistence.
func ToRecord(v CredentialVersion) (*VersionRecord, error) {
	base := v.Base()
	record := &VersionRecord{
		ID:        base.ID,
		Type:      v.Type(),
		CreatedAt: base.CreatedAt,
	}
	if base.Credential != nil {
		record.CredentialID = base.Credential.ID
	}

	var metadata versionMetadata
	switch version := v.(type) {
	case *PasswordVersion:
		record.Value = version.password.Encrypted()
		record.Parameters = version.parameters.Encrypted()
	case *UserVersion:
		record.Value = version.password.Encrypted()
		record.Parameters = version.parameters.Encrypted()
		metadata.Username = version.username
	case *ValueVersion:
		record.Value = version.value.Encrypted()
	case *JSONVersion:
		record.Value = version.value.Encrypted()
	case *CertificateVersion:
		record.Value = version.privateKey.Encrypted()
		record.CaName = version.caName
		metadata.CA = version.ca
		metadata.Certificate = version.certificate
		metadata.IsCA = version.isCA
	case *RSAVersion:
		record.Value = version.privateKey.Encrypted()
		metadata.PublicKey = version.publicKey
	case *SSHVersion:
		record.Value = version.privateKey.Encrypted()
		metadata.PublicKey = version.publicKey
	default:
		return nil, ErrUnknownType
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	record.Metadata = encoded
	return record, nil
}

// FromRecord rebuilds a version owned by credential.
func FromRecord(record *VersionRecord, credential *Credential, enc Encryptor) (CredentialVersion, error) {
	var metadata versionMetadata
	if len(record.Metadata) > 0 {
		if err := json.Unmarshal(record.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	base := VersionBase{
		ID:         record.ID,
		Credential: credential,
		CreatedAt:  record.CreatedAt,
		encryptor:  enc,
	}
	value := NewEncryptedField(record.Value)
	parameters := NewEncryptedField(record.Parameters)

	switch record.Type {
	case TypePassword:
		return &PasswordVersion{VersionBase: base, password: value, parameters: parameters}, nil
	case TypeUser:
		return &UserVersion{
			VersionBase: base,
			username:    metadata.Username,
			password:    value,
			parameters:  parameters,
		}, nil
	case TypeValue:
		return &ValueVersion{VersionBase: base, value: value}, nil
	case TypeJSON:
		return &JSONVersion{VersionBase: base, value: value}, nil
	case TypeCertificate:
		return &CertificateVersion{
			VersionBase: base,
			ca:          metadata.CA,
			certificate: metadata.Certificate,
			caName:      record.CaName,
			isCA:        metadata.IsCA,
			privateKey:  value,
		}, nil
	case TypeRSA:
		return &RSAVersion{VersionBase: base, keyPair: keyPair{publicKey: metadata.PublicKey, privateKey: value}}, nil
	case TypeSSH:
		return &SSHVersion{VersionBase: base, keyPair: keyPair{publicKey: metadata.PublicKey, privateKey: value}}, nil
	default:
		return nil, ErrUnknownType
	}
}
