package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// MySQLVersionRepository implements credential version persistence for MySQL with BINARY(16) ids.
type MySQLVersionRepository struct {
	db *sql.DB
}

// Create inserts a version row.
func (m *MySQLVersionRepository) Create(
	ctx context.Context,
	record *credentialDomain.VersionRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal version id")
	}
	credentialID, err := record.CredentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}
	valueKeyID, err := marshalNullableID(record.Value)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal value key id")
	}
	parametersKeyID, err := marshalNullableID(record.Parameters)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal parameters key id")
	}

	query := `INSERT INTO credential_versions (id, credential_id, type, value_key_id, value_ciphertext,
			  value_nonce, parameters_key_id, parameters_ciphertext, parameters_nonce, ca_name, metadata,
			  created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		credentialID,
		string(record.Type),
		nullBytes(valueKeyID),
		nullBytes(record.Value.Ciphertext),
		nullBytes(record.Value.Nonce),
		nullBytes(parametersKeyID),
		nullBytes(record.Parameters.Ciphertext),
		nullBytes(record.Parameters.Nonce),
		record.CaName,
		string(record.Metadata),
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential version")
	}
	return nil
}

// FindMostRecent returns the newest version of the credential.
func (m *MySQLVersionRepository) FindMostRecent(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	credentialIDBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.credential_id = ?
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT 1`

	record, err := scanMySQLVersion(querier.QueryRowContext(ctx, query, credentialIDBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get most recent credential version")
	}
	return record, nil
}

// FindByID returns one version.
func (m *MySQLVersionRepository) FindByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal version id")
	}

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.id = ?`

	record, err := scanMySQLVersion(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential version")
	}
	return record, nil
}

// ListByCredential returns up to limit versions, newest first.
func (m *MySQLVersionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
	limit int,
) ([]*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	credentialIDBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.credential_id = ?
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, credentialIDBytes, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credential versions")
	}
	defer func() { _ = rows.Close() }()

	records := make([]*credentialDomain.VersionRecord, 0)
	for rows.Next() {
		record, err := scanMySQLVersion(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential version")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credential versions")
	}
	return records, nil
}

// ListCertificateNamesByCaName returns the names of certificate credentials whose newest
// version was signed by caName, in credential creation order. The CA itself is excluded.
func (m *MySQLVersionRepository) ListCertificateNamesByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT c.name
			  FROM credentials c
			  JOIN credential_versions v ON v.credential_id = c.id
			  WHERE v.type = 'certificate' AND v.ca_name = ? AND c.name <> ?
			  AND v.id = (
			      SELECT latest.id FROM credential_versions latest
			      WHERE latest.credential_id = c.id
			      ORDER BY latest.created_at DESC, latest.id DESC
			      LIMIT 1
			  )
			  ORDER BY c.created_at ASC, c.id ASC`

	rows, err := querier.QueryContext(ctx, query, caName, caName)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates by ca name")
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan certificate name")
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate certificate names")
	}
	return names, nil
}

// NewMySQLVersionRepository creates a new MySQL version repository.
func NewMySQLVersionRepository(db *sql.DB) *MySQLVersionRepository {
	return &MySQLVersionRepository{db: db}
}
