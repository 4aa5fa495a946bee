// Package repository persists credentials and their versions for PostgreSQL and MySQL.
//
// A version row stores one encrypted payload and optional encrypted generation
// parameters as (key_id, ciphertext, nonce) triples. Non-secret metadata is a JSON
// text column; ca_name is a dedicated column so signed certificates can be found by
// their signer.
package repository

import (
	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
)

const versionColumns = `v.id, v.credential_id, v.type, v.value_key_id, v.value_ciphertext, v.value_nonce,
			  v.parameters_key_id, v.parameters_ciphertext, v.parameters_nonce, v.ca_name, v.metadata,
			  v.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func nullKeyID(value encryptionDomain.EncryptedValue) uuid.NullUUID {
	if value.IsZero() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: value.KeyID, Valid: true}
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func scanPostgreSQLVersion(row rowScanner) (*credentialDomain.VersionRecord, error) {
	var record credentialDomain.VersionRecord
	var versionType, metadata string
	var valueKeyID, parametersKeyID uuid.NullUUID

	if err := row.Scan(
		&record.ID,
		&record.CredentialID,
		&versionType,
		&valueKeyID,
		&record.Value.Ciphertext,
		&record.Value.Nonce,
		&parametersKeyID,
		&record.Parameters.Ciphertext,
		&record.Parameters.Nonce,
		&record.CaName,
		&metadata,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	record.Type = credentialDomain.Type(versionType)
	record.Value.KeyID = valueKeyID.UUID
	record.Parameters.KeyID = parametersKeyID.UUID
	record.Metadata = []byte(metadata)
	return &record, nil
}

func scanMySQLVersion(row rowScanner) (*credentialDomain.VersionRecord, error) {
	var record credentialDomain.VersionRecord
	var versionType, metadata string
	var id, credentialID, valueKeyID, parametersKeyID []byte

	if err := row.Scan(
		&id,
		&credentialID,
		&versionType,
		&valueKeyID,
		&record.Value.Ciphertext,
		&record.Value.Nonce,
		&parametersKeyID,
		&record.Parameters.Ciphertext,
		&record.Parameters.Nonce,
		&record.CaName,
		&metadata,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}
	if err := record.CredentialID.UnmarshalBinary(credentialID); err != nil {
		return nil, err
	}
	if len(valueKeyID) > 0 {
		if err := record.Value.KeyID.UnmarshalBinary(valueKeyID); err != nil {
			return nil, err
		}
	}
	if len(parametersKeyID) > 0 {
		if err := record.Parameters.KeyID.UnmarshalBinary(parametersKeyID); err != nil {
			return nil, err
		}
	}

	record.Type = credentialDomain.Type(versionType)
	record.Metadata = []byte(metadata)
	return &record, nil
}

func marshalNullableID(value encryptionDomain.EncryptedValue) ([]byte, error) {
	if value.IsZero() {
		return nil, nil
	}
	return value.KeyID.MarshalBinary()
}
