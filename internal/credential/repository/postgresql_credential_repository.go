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

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a credential. A duplicate name surfaces the driver's unique violation.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *credentialDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO credentials (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, credential.ID, credential.Name, credential.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// FindByName returns the credential with the exact name.
func (p *PostgreSQLCredentialRepository) FindByName(
	ctx context.Context,
	name string,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM credentials WHERE name = $1`

	var credential credentialDomain.Credential
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&credential.ID,
		&credential.Name,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by name")
	}
	return &credential, nil
}

// FindByID returns the credential with the given id.
func (p *PostgreSQLCredentialRepository) FindByID(
	ctx context.Context,
	id uuid.UUID,
) (*credentialDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM credentials WHERE id = $1`

	var credential credentialDomain.Credential
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&credential.ID,
		&credential.Name,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential by id")
	}
	return &credential, nil
}

// Delete removes a credential. Versions and permission entries go with it.
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, id)
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

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
