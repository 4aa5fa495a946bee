package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// MySQLCanaryRepository implements canary persistence for MySQL using BINARY(16) ids.
type MySQLCanaryRepository struct {
	db *sql.DB
}

// Create inserts a canary row.
func (m *MySQLCanaryRepository) Create(ctx context.Context, canary *encryptionDomain.Canary) error {
	querier := database.GetTx(ctx, m.db)

	id, err := canary.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal canary id")
	}

	query := `INSERT INTO encryption_key_canaries (id, provider_id, name, encrypted_canary, nonce, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		canary.ProviderID,
		canary.Name,
		canary.EncryptedCanary,
		canary.Nonce,
		canary.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create encryption key canary")
	}
	return nil
}

// List returns every canary in creation order.
func (m *MySQLCanaryRepository) List(ctx context.Context) ([]*encryptionDomain.Canary, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, provider_id, name, encrypted_canary, nonce, created_at
			  FROM encryption_key_canaries
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encryption key canaries")
	}
	defer func() { _ = rows.Close() }()

	canaries := make([]*encryptionDomain.Canary, 0)
	for rows.Next() {
		var canary encryptionDomain.Canary
		var idBytes []byte
		if err := rows.Scan(
			&idBytes,
			&canary.ProviderID,
			&canary.Name,
			&canary.EncryptedCanary,
			&canary.Nonce,
			&canary.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encryption key canary")
		}
		if err := canary.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal canary id")
		}
		canaries = append(canaries, &canary)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encryption key canaries")
	}

	return canaries, nil
}

// NewMySQLCanaryRepository creates a new MySQL canary repository.
func NewMySQLCanaryRepository(db *sql.DB) *MySQLCanaryRepository {
	return &MySQLCanaryRepository{db: db}
}
