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

// PostgreSQLVersionRepository implements credential version persistence for PostgreSQL.
type PostgreSQLVersionRepository struct {
	db *sql.DB
}

// Create inserts a version row.
func (p *PostgreSQLVersionRepository) Create(
	ctx context.Context,
	record *credentialDomain.VersionRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credential_versions (id, credential_id, type, value_key_id, value_ciphertext,
			  value_nonce, parameters_key_id, parameters_ciphertext, parameters_nonce, ca_name, metadata,
			  created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.CredentialID,
		string(record.Type),
		nullKeyID(record.Value),
		nullBytes(record.Value.Ciphertext),
		nullBytes(record.Value.Nonce),
		nullKeyID(record.Parameters),
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

// FindMostRecent returns the newest version of the credential. Equal timestamps are
// ordered by id, which is time-ordered.
func (p *PostgreSQLVersionRepository) FindMostRecent(
	ctx context.Context,
	credentialID uuid.UUID,
) (*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.credential_id = $1
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT 1`

	record, err := scanPostgreSQLVersion(querier.QueryRowContext(ctx, query, credentialID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get most recent credential version")
	}
	return record, nil
}

// FindByID returns one version.
func (p *PostgreSQLVersionRepository) FindByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.id = $1`

	record, err := scanPostgreSQLVersion(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential version")
	}
	return record, nil
}

// ListByCredential returns up to limit versions, newest first.
func (p *PostgreSQLVersionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
	limit int,
) ([]*credentialDomain.VersionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + versionColumns + `
			  FROM credential_versions v
			  WHERE v.credential_id = $1
			  ORDER BY v.created_at DESC, v.id DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, credentialID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credential versions")
	}
	defer func() { _ = rows.Close() }()

	records := make([]*credentialDomain.VersionRecord, 0)
	for rows.Next() {
		record, err := scanPostgreSQLVersion(rows)
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
func (p *PostgreSQLVersionRepository) ListCertificateNamesByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT c.name
			  FROM credentials c
			  JOIN credential_versions v ON v.credential_id = c.id
			  WHERE v.type = 'certificate' AND v.ca_name = $1 AND c.name <> $1
			  AND v.id = (
			      SELECT latest.id FROM credential_versions latest
			      WHERE latest.credential_id = c.id
			      ORDER BY latest.created_at DESC, latest.id DESC
			      LIMIT 1
			  )
			  ORDER BY c.created_at ASC, c.id ASC`

	rows, err := querier.QueryContext(ctx, query, caName)
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

// NewPostgreSQLVersionRepository creates a new PostgreSQL version repository.
func NewPostgreSQLVersionRepository(db *sql.DB) *PostgreSQLVersionRepository {
	return &PostgreSQLVersionRepository{db: db}
}
