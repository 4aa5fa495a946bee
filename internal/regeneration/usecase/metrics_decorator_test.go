package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	"github.com/allisson/credstore/internal/metrics"
	"github.com/allisson/credstore/internal/regeneration/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

type stubRegenerationUseCase struct {
	version credentialDomain.CredentialVersion
	names   []string
	err     error
}

func (s *stubRegenerationUseCase) HandleRegenerate(
	context.Context,
	string,
	AuditRecord,
) (credentialDomain.CredentialVersion, error) {
	return s.version, s.err
}

func (s *stubRegenerationUseCase) HandleBulkRegenerate(context.Context, string, AuditRecord) ([]string, error) {
	return s.names, s.err
}

func TestMetricsDecorator_HandleRegenerate(t *testing.T) {
	ctx := context.Background()
	mockMetrics := &mockBusinessMetrics{}
	mockMetrics.On("RecordOperation", ctx, "regeneration", "regenerate", "success").Once()
	mockMetrics.On("RecordDuration", ctx, "regeneration", "regenerate", mock.AnythingOfType("time.Duration"), "success").
		Once()

	decorator := NewRegenerationUseCaseWithMetrics(&stubRegenerationUseCase{}, mockMetrics)
	_, err := decorator.HandleRegenerate(ctx, "/x", &mocks.MockAuditRecord{})

	assert.NoError(t, err)
	mockMetrics.AssertExpectations(t)
}

func TestMetricsDecorator_HandleBulkRegenerate(t *testing.T) {
	ctx := context.Background()
	mockMetrics := &mockBusinessMetrics{}
	mockMetrics.On("RecordOperation", ctx, "regeneration", "bulk_regenerate", "error").Once()
	mockMetrics.On("RecordDuration", ctx, "regeneration", "bulk_regenerate", mock.AnythingOfType("time.Duration"), "error").
		Once()

	decorator := NewRegenerationUseCaseWithMetrics(
		&stubRegenerationUseCase{names: []string{"/a"}, err: errors.New("boom")},
		mockMetrics,
	)
	names, err := decorator.HandleBulkRegenerate(ctx, "/ca", &mocks.MockAuditRecord{})

	assert.Error(t, err)
	assert.Equal(t, []string{"/a"}, names)
	mockMetrics.AssertExpectations(t)
}
