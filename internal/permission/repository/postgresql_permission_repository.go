package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// PostgreSQLPermissionRepository implements permission persistence for PostgreSQL.
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// Merge inserts the entry or ORs its operations into the existing row.
func (p *PostgreSQLPermissionRepository) Merge(
	ctx context.Context,
	entry *permissionDomain.PermissionEntry,
) error {
	querier := database.GetTx(ctx, p.db)
	flags := flagsFromOperations(entry.Operations)

	query := `INSERT INTO permissions (id, credential_id, actor, read_permission, write_permission,
			  delete_permission, read_acl_permission, write_acl_permission, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (credential_id, actor) DO UPDATE SET
			  read_permission = permissions.read_permission OR EXCLUDED.read_permission,
			  write_permission = permissions.write_permission OR EXCLUDED.write_permission,
			  delete_permission = permissions.delete_permission OR EXCLUDED.delete_permission,
			  read_acl_permission = permissions.read_acl_permission OR EXCLUDED.read_acl_permission,
			  write_acl_permission = permissions.write_acl_permission OR EXCLUDED.write_acl_permission,
			  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.CredentialID,
		entry.Actor,
		flags.read,
		flags.write,
		flags.delete,
		flags.readACL,
		flags.writeACL,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to merge permission entry")
	}
	return nil
}

// Find returns the actor's entry on the credential.
func (p *PostgreSQLPermissionRepository) Find(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
) (*permissionDomain.PermissionEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, actor, read_permission, write_permission, delete_permission,
			  read_acl_permission, write_acl_permission, created_at, updated_at
			  FROM permissions WHERE credential_id = $1 AND actor = $2`

	entry, err := scanPostgreSQLEntry(querier.QueryRowContext(ctx, query, credentialID, actor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, permissionDomain.ErrPermissionEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission entry")
	}
	return entry, nil
}

// ListByCredential returns the credential's entries in creation order.
func (p *PostgreSQLPermissionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.PermissionEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, credential_id, actor, read_permission, write_permission, delete_permission,
			  read_acl_permission, write_acl_permission, created_at, updated_at
			  FROM permissions WHERE credential_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, credentialID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission entries")
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*permissionDomain.PermissionEntry, 0)
	for rows.Next() {
		entry, err := scanPostgreSQLEntry(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan permission entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate permission entries")
	}
	return entries, nil
}

// Delete removes the actor's entry on the credential.
func (p *PostgreSQLPermissionRepository) Delete(ctx context.Context, credentialID uuid.UUID, actor string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM permissions WHERE credential_id = $1 AND actor = $2`,
		credentialID,
		actor,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete permission entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete permission entry")
	}
	if affected == 0 {
		return permissionDomain.ErrPermissionEntryNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLEntry(row rowScanner) (*permissionDomain.PermissionEntry, error) {
	var entry permissionDomain.PermissionEntry
	var flags operationFlags

	if err := row.Scan(
		&entry.ID,
		&entry.CredentialID,
		&entry.Actor,
		&flags.read,
		&flags.write,
		&flags.delete,
		&flags.readACL,
		&flags.writeACL,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}

	entry.Operations = flags.operations()
	return &entry, nil
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL permission repository.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}
