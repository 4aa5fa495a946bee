// Package usecase persists and lists per-request audit records.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
)

// AuditRepository persists audit records.
type AuditRepository interface {
	Create(ctx context.Context, record *auditDomain.Record) error
	List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// AuditUseCase records completed requests and lists them for operators.
type AuditUseCase interface {
	Create(ctx context.Context, record *auditDomain.Record) error
	List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error)
	// DeleteOlderThan removes records older than days. A dry run only counts them.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
