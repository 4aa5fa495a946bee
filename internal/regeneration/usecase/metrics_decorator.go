package usecase

import (
	"context"
	"time"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/metrics"
)

// regenerationUseCaseWithMetrics decorates RegenerationUseCase with metrics instrumentation.
type regenerationUseCaseWithMetrics struct {
	next    RegenerationUseCase
	metrics metrics.BusinessMetrics
}

// NewRegenerationUseCaseWithMetrics wraps a RegenerationUseCase with metrics recording.
func NewRegenerationUseCaseWithMetrics(useCase RegenerationUseCase, m metrics.BusinessMetrics) RegenerationUseCase {
	return &regenerationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *regenerationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, r.metrics, "regeneration", operation, start, err)
}

// HandleRegenerate records metrics for single regenerations.
func (r *regenerationUseCaseWithMetrics) HandleRegenerate(
	ctx context.Context,
	name string,
	record AuditRecord,
) (credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := r.next.HandleRegenerate(ctx, name, record)
	r.record(ctx, "regenerate", start, err)
	return version, err
}

// HandleBulkRegenerate records metrics for bulk regenerations.
func (r *regenerationUseCaseWithMetrics) HandleBulkRegenerate(
	ctx context.Context,
	caName string,
	record AuditRecord,
) ([]string, error) {
	start := time.Now()
	names, err := r.next.HandleBulkRegenerate(ctx, caName, record)
	r.record(ctx, "bulk_regenerate", start, err)
	return names, err
}
