package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, c.metrics, "credentials", operation, start, err)
}

// FindMostRecent records metrics for internal latest-version lookups.
func (c *credentialUseCaseWithMetrics) FindMostRecent(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.FindMostRecent(ctx, name)
	c.record(ctx, "credential_find_most_recent", start, err)
	return version, err
}

// FindAllCertificateCredentialsByCaName records metrics for signer lookups.
func (c *credentialUseCaseWithMetrics) FindAllCertificateCredentialsByCaName(
	ctx context.Context,
	caName string,
) ([]string, error) {
	start := time.Now()
	names, err := c.next.FindAllCertificateCredentialsByCaName(ctx, caName)
	c.record(ctx, "credential_find_by_ca", start, err)
	return names, err
}

// Save records metrics for credential writes.
func (c *credentialUseCaseWithMetrics) Save(
	ctx context.Context,
	existing credentialDomain.CredentialVersion,
	value credentialDomain.CredentialValue,
	req credentialDomain.GenerateRequest,
) (credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.Save(ctx, existing, value, req)
	c.record(ctx, "credential_save", start, err)
	return version, err
}

// Get records metrics for credential reads.
func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.Get(ctx, name)
	c.record(ctx, "credential_get", start, err)
	return version, err
}

// GetVersions records metrics for version history reads.
func (c *credentialUseCaseWithMetrics) GetVersions(
	ctx context.Context,
	name string,
	limit int,
) ([]credentialDomain.CredentialVersion, error) {
	start := time.Now()
	versions, err := c.next.GetVersions(ctx, name, limit)
	c.record(ctx, "credential_get_versions", start, err)
	return versions, err
}

// GetByID records metrics for reads by version id.
func (c *credentialUseCaseWithMetrics) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (credentialDomain.CredentialVersion, error) {
	start := time.Now()
	version, err := c.next.GetByID(ctx, id)
	c.record(ctx, "credential_get_by_id", start, err)
	return version, err
}

// Delete records metrics for credential deletion.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := c.next.Delete(ctx, name)
	c.record(ctx, "credential_delete", start, err)
	return err
}
