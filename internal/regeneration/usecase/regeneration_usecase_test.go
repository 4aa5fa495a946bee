package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	credentialTesting "github.com/allisson/credstore/internal/credential/testing"
	"github.com/allisson/credstore/internal/regeneration/usecase/mocks"
)

type fixture struct {
	credentials *mocks.MockCredentialService
	generator   *mocks.MockValueGenerator
	builder     *mocks.MockRequestBuilder
	record      *mocks.MockAuditRecord
	useCase     RegenerationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		credentials: &mocks.MockCredentialService{},
		generator:   &mocks.MockValueGenerator{},
		builder:     &mocks.MockRequestBuilder{},
		record:      &mocks.MockAuditRecord{},
	}
	f.useCase = NewRegenerationUseCase(
		f.credentials,
		f.generator,
		f.builder,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	t.Cleanup(func() {
		f.credentials.AssertExpectations(t)
		f.generator.AssertExpectations(t)
		f.builder.AssertExpectations(t)
		f.record.AssertExpectations(t)
	})
	return f
}

func certificateVersion(t *testing.T, name string, isCA bool) credentialDomain.CredentialVersion {
	t.Helper()
	version, err := credentialDomain.NewVersion(
		credentialDomain.TypeCertificate,
		credentialDomain.NewCredential(name),
		credentialTesting.NewFakeEncryptor(),
	)
	require.NoError(t, err)
	require.NoError(t, version.SetValue(context.Background(), credentialDomain.CertificateValue{
		Certificate: credentialTesting.SelfSignedCertificatePEM(name, isCA),
	}))
	return version
}

// expectRegeneration wires one successful lookup, rebuild, generate and save for name.
func (f *fixture) expectRegeneration(t *testing.T, name string, isCA bool) credentialDomain.CredentialVersion {
	t.Helper()
	existing := certificateVersion(t, name, isCA)
	saved := certificateVersion(t, name, isCA)
	req := credentialDomain.GenerateRequest{
		Name: name,
		Type: credentialDomain.TypeCertificate,
		Mode: credentialDomain.ModeOverwrite,
	}
	value := credentialDomain.CertificateValue{Certificate: name}

	f.credentials.On("FindMostRecent", mock.Anything, name).Return(existing, nil).Once()
	f.builder.On("CreateGenerateRequest", mock.Anything, existing).Return(req, nil).Once()
	f.generator.On("Generate", mock.Anything, req).Return(value, nil).Once()
	f.credentials.On("Save", mock.Anything, existing, value, req).Return(saved, nil).Once()
	return saved
}

func (f *fixture) expectChildren(caName string, children ...string) {
	f.credentials.On("FindAllCertificateCredentialsByCaName", mock.Anything, caName).Return(children, nil).Once()
}

func TestHandleRegenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("audits once", func(t *testing.T) {
		f := newFixture(t)
		saved := f.expectRegeneration(t, "/leaf", false)
		f.record.On("SetVersion", saved).Once()
		f.record.On("SetResource", saved.Base().Credential).Once()

		version, err := f.useCase.HandleRegenerate(ctx, "leaf", f.record)
		require.NoError(t, err)
		assert.Same(t, saved, version)
		f.record.AssertNumberOfCalls(t, "SetVersion", 1)
		f.record.AssertNumberOfCalls(t, "SetResource", 1)
	})

	t.Run("missing credential", func(t *testing.T) {
		f := newFixture(t)
		f.credentials.On("FindMostRecent", mock.Anything, "/missing").
			Return(nil, credentialDomain.ErrCredentialNotFound).Once()

		_, err := f.useCase.HandleRegenerate(ctx, "/missing", f.record)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
		f.record.AssertNotCalled(t, "SetVersion", mock.Anything)
	})

	t.Run("statically set value", func(t *testing.T) {
		f := newFixture(t)
		existing := certificateVersion(t, "/set", false)
		f.credentials.On("FindMostRecent", mock.Anything, "/set").Return(existing, nil).Once()
		f.builder.On("CreateGenerateRequest", mock.Anything, existing).
			Return(credentialDomain.GenerateRequest{}, credentialDomain.ErrCannotRegenerate).Once()

		_, err := f.useCase.HandleRegenerate(ctx, "/set", f.record)
		assert.ErrorIs(t, err, credentialDomain.ErrCannotRegenerate)
		f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("write denied", func(t *testing.T) {
		f := newFixture(t)
		existing := certificateVersion(t, "/leaf", false)
		req := credentialDomain.GenerateRequest{Name: "/leaf", Type: credentialDomain.TypeCertificate}
		f.credentials.On("FindMostRecent", mock.Anything, "/leaf").Return(existing, nil).Once()
		f.builder.On("CreateGenerateRequest", mock.Anything, existing).Return(req, nil).Once()
		f.generator.On("Generate", mock.Anything, req).Return(credentialDomain.CertificateValue{}, nil).Once()
		f.credentials.On("Save", mock.Anything, existing, mock.Anything, req).
			Return(nil, credentialDomain.ErrAccessDenied).Once()

		_, err := f.useCase.HandleRegenerate(ctx, "/leaf", f.record)
		assert.ErrorIs(t, err, credentialDomain.ErrAccessDenied)
	})
}

func TestHandleBulkRegenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("depth first pre-order", func(t *testing.T) {
		f := newFixture(t)
		f.record.On("SetRequestDetails", map[string]any{"signed_by": "/ca"}).Once()
		f.record.On("AddVersion", mock.Anything).Times(4)
		f.record.On("AddResource", mock.Anything).Times(4)

		f.expectChildren("/ca", "/A", "/B")
		f.expectRegeneration(t, "/A", true)
		f.expectChildren("/A", "/C", "/D")
		f.expectRegeneration(t, "/C", false)
		f.expectRegeneration(t, "/D", false)
		f.expectRegeneration(t, "/B", false)

		names, err := f.useCase.HandleBulkRegenerate(ctx, "ca", f.record)
		require.NoError(t, err)
		assert.Equal(t, []string{"/A", "/C", "/D", "/B"}, names)
		f.record.AssertNumberOfCalls(t, "SetRequestDetails", 1)
	})

	t.Run("first failure aborts", func(t *testing.T) {
		f := newFixture(t)
		f.record.On("SetRequestDetails", mock.Anything).Once()
		f.record.On("AddVersion", mock.Anything).Times(3)
		f.record.On("AddResource", mock.Anything).Times(3)

		f.expectChildren("/ca", "/A", "/B", "/E")
		f.expectRegeneration(t, "/A", true)
		f.expectChildren("/A", "/C", "/D")
		f.expectRegeneration(t, "/C", false)
		f.expectRegeneration(t, "/D", false)
		f.credentials.On("FindMostRecent", mock.Anything, "/B").Return(nil, errors.New("db down")).Once()

		names, err := f.useCase.HandleBulkRegenerate(ctx, "/ca", f.record)
		require.Error(t, err)
		assert.ErrorContains(t, err, "bulk regeneration stopped at /B")
		assert.Equal(t, []string{"/A", "/C", "/D"}, names)
		f.credentials.AssertNotCalled(t, "FindMostRecent", mock.Anything, "/E")
	})

	t.Run("cycles are skipped", func(t *testing.T) {
		f := newFixture(t)
		f.record.On("SetRequestDetails", mock.Anything).Once()
		f.record.On("AddVersion", mock.Anything).Times(2)
		f.record.On("AddResource", mock.Anything).Times(2)

		f.expectChildren("/ca", "/A")
		f.expectRegeneration(t, "/A", true)
		f.expectChildren("/A", "/B", "/A")
		f.expectRegeneration(t, "/B", true)
		f.expectChildren("/B", "/ca", "/A")

		names, err := f.useCase.HandleBulkRegenerate(ctx, "/ca", f.record)
		require.NoError(t, err)
		assert.Equal(t, []string{"/A", "/B"}, names)
	})

	t.Run("unreadable signer", func(t *testing.T) {
		f := newFixture(t)
		f.record.On("SetRequestDetails", mock.Anything).Once()
		f.credentials.On("FindAllCertificateCredentialsByCaName", mock.Anything, "/ca").
			Return(nil, credentialDomain.ErrAccessDenied).Once()

		names, err := f.useCase.HandleBulkRegenerate(ctx, "/ca", f.record)
		assert.ErrorIs(t, err, credentialDomain.ErrAccessDenied)
		assert.Empty(t, names)
	})

	t.Run("no children", func(t *testing.T) {
		f := newFixture(t)
		f.record.On("SetRequestDetails", mock.Anything).Once()
		f.expectChildren("/ca")

		names, err := f.useCase.HandleBulkRegenerate(ctx, "/ca", f.record)
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}
