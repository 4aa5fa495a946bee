package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	"github.com/allisson/credstore/internal/database"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// MySQLAuditRepository implements audit record persistence for MySQL.
// Ids are stored as BINARY(16).
type MySQLAuditRepository struct {
	db *sql.DB
}

// Create inserts a record. Nil request details are stored as NULL.
func (m *MySQLAuditRepository) Create(ctx context.Context, record *auditDomain.Record) error {
	querier := database.GetTx(ctx, m.db)

	encoded, err := encodeRecord(record)
	if err != nil {
		return err
	}

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit record id")
	}

	query := `INSERT INTO audit_records (` + recordColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLAuditRepository) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + recordColumns + `
			  FROM audit_records
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.Record, 0)
	for rows.Next() {
		record, err := scanMySQLRecord(rows)
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
func (m *MySQLAuditRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM audit_records WHERE created_at < ?`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit records")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_records WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit records")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}
	return count, nil
}

func scanMySQLRecord(row rowScanner) (*auditDomain.Record, error) {
	var record auditDomain.Record
	var id []byte
	var details *string
	var resources, versions string

	if err := row.Scan(
		&id,
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

	if err := record.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit record id")
	}
	if err := decodeRecord(&record, details, resources, versions); err != nil {
		return nil, err
	}
	return &record, nil
}

// NewMySQLAuditRepository creates a new MySQL audit repository.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}
