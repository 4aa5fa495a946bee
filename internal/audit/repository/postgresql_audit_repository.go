package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// PostgreSQLAuditRepository implements audit record persistence for PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Create inserts a record. Nil request details are stored as NULL.
func (p *PostgreSQLAuditRepository) Create(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, p.db)

	encoded, err := encodeRecord(record)
	if err != nil {
		return err
	}

	query := `INSERT INTO audit_records (` + recordColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.RequestID,
		record.Actor,
		record.Method,
		record.Path,
		record.StatusCode,
		record.Success,
		encoded.details,
		encoded.resources,
		encoded.versions,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit record")
	}
	return nil
}

// List returns records newest first.
func (p *PostgreSQLAuditRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + recordColumns + `
			  FROM audit_records
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.Record, 0)
	for rows.Next() {
		record, err := scanPostgreSQLRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit records")
	}
	return records, nil
}

// DeleteOlderThan removes records created before olderThan. With dryRun it only
// counts them.
func (p *PostgreSQLAuditRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM audit_records WHERE created_at < $1`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit records")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_records WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit records")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}

func scanPostgreSQLRecord(row rowScanner) (*auditDomain.Record, error) {
	var record auditDomain.Record
	var details *string
	var resources, versions string

	if err := row.Scan(
		&record.ID,
		&record.RequestID,
		&record.Actor,
		&record.Method,
		&record.Path,
		&record.StatusCode,
		&record.Success,
		&details,
		&resources,
		&versions,
		&record.CreatedAt,
	); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan audit record")
	}

	if err := decodeRecord(&record, details, resources, versions); err != nil {
		return nil, err
	}
	return &record, nil
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
