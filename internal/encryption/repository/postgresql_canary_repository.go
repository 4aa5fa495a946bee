// Package repository persists encryption key canaries for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/credstore/internal/database"
	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// PostgreSQLCanaryRepository implements canary persistence for PostgreSQL.
type PostgreSQLCanaryRepository struct {
	db *sql.DB
}

// Create inserts a canary row.
func (p *PostgreSQLCanaryRepository) Create(ctx context.Context, canary *encryptionDomain.Canary) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encryption_key_canaries (id, provider_id, name, encrypted_canary, nonce, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		canary.ID,
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
func (p *PostgreSQLCanaryRepository) List(ctx context.Context) ([]*encryptionDomain.Canary, error) {
	querier := database.GetTx(ctx, p.db)

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
		if err := rows.Scan(
			&canary.ID,
			&canary.ProviderID,
			&canary.Name,
			&canary.EncryptedCanary,
			&canary.Nonce,
			&canary.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encryption key canary")
		}
		canaries = append(canaries, &canary)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encryption key canaries")
	}

	return canaries, nil
}

// NewPostgreSQLCanaryRepository creates a new PostgreSQL canary repository.
func NewPostgreSQLCanaryRepository(db *sql.DB) *PostgreSQLCanaryRepository {
	return &PostgreSQLCanaryRepository{db: db}
}
