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

// MySQLPermissionRepository implements permission persistence for MySQL with BINARY(16) ids.
type MySQLPermissionRepository struct {
	db *sql.DB
}

// Merge inserts the entry or ORs its operations into the existing row.
func (m *MySQLPermissionRepository) Merge(
	ctx context.Context,
	entry *permissionDomain.PermissionEntry,
) error {
	querier := database.GetTx(ctx, m.db)
	flags := flagsFromOperations(entry.Operations)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}
	credentialID, err := entry.CredentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `INSERT INTO permissions (id, credential_id, actor, read_permission, write_permission,
			  delete_permission, read_acl_permission, write_acl_permission, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  read_permission = read_permission OR VALUES(read_permission),
			  write_permission = write_permission OR VALUES(write_permission),
			  delete_permission = delete_permission OR VALUES(delete_permission),
			  read_acl_permission = read_acl_permission OR VALUES(read_acl_permission),
			  write_acl_permission = write_acl_permission OR VALUES(write_acl_permission),
			  updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		credentialID,
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
func (m *MySQLPermissionRepository) Find(
	ctx context.Context,
	credentialID uuid.UUID,
	actor string,
) (*permissionDomain.PermissionEntry, error) {
	querier := database.GetTx(ctx, m.db)

	credentialIDBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT id, credential_id, actor, read_permission, write_permission, delete_permission,
			  read_acl_permission, write_acl_permission, created_at, updated_at
			  FROM permissions WHERE credential_id = ? AND actor = ?`

	entry, err := scanMySQLEntry(querier.QueryRowContext(ctx, query, credentialIDBytes, actor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, permissionDomain.ErrPermissionEntryNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission entry")
	}
	return entry, nil
}

// ListByCredential returns the credential's entries in creation order.
func (m *MySQLPermissionRepository) ListByCredential(
	ctx context.Context,
	credentialID uuid.UUID,
) ([]*permissionDomain.PermissionEntry, error) {
	querier := database.GetTx(ctx, m.db)

	credentialIDBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT id, credential_id, actor, read_permission, write_permission, delete_permission,
			  read_acl_permission, write_acl_permission, created_at, updated_at
			  FROM permissions WHERE credential_id = ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, credentialIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list permission entries")
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*permissionDomain.PermissionEntry, 0)
	for rows.Next() {
		entry, err := scanMySQLEntry(rows)
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
func (m *MySQLPermissionRepository) Delete(ctx context.Context, credentialID uuid.UUID, actor string) error {
	querier := database.GetTx(ctx, m.db)

	credentialIDBytes, err := credentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM permissions WHERE credential_id = ? AND actor = ?`,
		credentialIDBytes,
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

func scanMySQLEntry(row rowScanner) (*permissionDomain.PermissionEntry, error) {
	var entry permissionDomain.PermissionEntry
	var flags operationFlags
	var id, credentialID []byte

	if err := row.Scan(
		&id,
		&credentialID,
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

	if err := entry.ID.UnmarshalBinary(id); err != nil {
		return nil, err
	}
	if err := entry.CredentialID.UnmarshalBinary(credentialID); err != nil {
		return nil, err
	}

	entry.Operations = flags.operations()
	return &entry, nil
}

// NewMySQLPermissionRepository creates a new MySQL permission repository.
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{db: db}
}
