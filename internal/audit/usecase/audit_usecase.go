package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

type auditUseCase struct {
	auditRepo AuditRepository
	now       func() time.Time
}

// Create persists a completed record.
func (a *auditUseCase) Create(ctx context.Context, record *auditDomain.Record) error {
	if err := a.auditRepo.Create(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to create audit record")
	}
	return nil
}

// List returns records newest first.
func (a *auditUseCase) List(ctx context.Context, offset, limit int) ([]*auditDomain.Record, error) {
	records, err := a.auditRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit records")
	}
	return records, nil
}

// DeleteOlderThan removes records created more than days ago, in UTC.
func (a *auditUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "days must be a positive number, got: %d", days)
	}

	olderThan := a.now().UTC().AddDate(0, 0, -days)
	count, err := a.auditRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit records")
	}
	return count, nil
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) AuditUseCase {
	return &auditUseCase{auditRepo: auditRepo, now: time.Now}
}
