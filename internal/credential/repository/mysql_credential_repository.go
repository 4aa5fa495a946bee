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

// MySQLCredentialRepository implements credential persistence for MySQL with BINARY(16) ids.
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a credential. A duplicate name surfaces the driver's unique violation.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `INSERT INTO credentials (id, name, created_at) VALUES (?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, credential.Name, credential.CreatedAt); err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// FindByName returns the credential with the exact name.
func (m *MySQLCredentialRepository) FindByName(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, created_at FROM credentials WHERE name = ?`

	credential, err := scanMySQLCredential(querier.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by name")
	}
	return credential, nil
}

// FindByID returns the credential with the given id.
func (m *MySQLCredentialRepository) FindByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT id, name, created_at FROM credentials WHERE id = ?`

	credential, err := scanMySQLCredential(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by id")
	}
	return credential, nil
}

// Delete removes a credential. Versions and permission entries go with it.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}
	if affected == 0 {
		return credentialDomain.ErrCredentialNotFound
	}
	return nil
}

func scanMySQLCredential(row rowScanner) (*credentialDomain.Credential, error) {
	var credential credentialDomain.Credential
	var id []byte

	if err := row.Scan(&id, &credential.Name, &credential.CreatedAt); err != nil {
		return nil, err
	}
	if err := credential.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}
	return &credential, nil
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
