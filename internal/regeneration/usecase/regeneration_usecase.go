package usecase

import (
	"context"
	"log/slog"
	"slices"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

type regenerationUseCase struct {
	credentials CredentialService
	generator   ValueGenerator
	builder     RequestBuilder
	logger      *slog.Logger
}

// HandleRegenerate regenerates the newest version of name.
func (r *regenerationUseCase) HandleRegenerate(
	ctx context.Context,
	name string,
	record AuditRecord,
) (credentialDomain.CredentialVersion, error) {
	version, err := r.regenerate(ctx, credentialDomain.NormalizeName(name))
	if err != nil {
		return nil, err
	}

	record.SetVersion(version)
	record.SetResource(version.Base().Credential)
	return version, nil
}

// HandleBulkRegenerate walks the certificates signed by caName in pre-order. A
// regenerated certificate that is itself a CA has its whole subtree processed before
// the next sibling. The first failure stops the walk; versions saved before it stay.
func (r *regenerationUseCase) HandleBulkRegenerate(
	ctx context.Context,
	caName string,
	record AuditRecord,
) ([]string, error) {
	caName = credentialDomain.NormalizeName(caName)
	record.SetRequestDetails(map[string]any{"signed_by": caName})

	children, err := r.credentials.FindAllCertificateCredentialsByCaName(ctx, caName)
	if err != nil {
		return nil, err
	}

	regenerated := make([]string, 0, len(children))
	visited := map[string]bool{caName: true}
	stack := pushReversed(nil, children)

	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[name] {
			continue
		}
		visited[name] = true

		version, err := r.regenerate(ctx, name)
		if err != nil {
			return regenerated, apperrors.Wrapf(err, "bulk regeneration stopped at %s", name)
		}

		record.AddVersion(version)
		record.AddResource(version.Base().Credential)
		regenerated = append(regenerated, name)

		certificate, ok := version.(*credentialDomain.CertificateVersion)
		if !ok || !certificate.IsCA() {
			continue
		}

		grandchildren, err := r.credentials.FindAllCertificateCredentialsByCaName(ctx, name)
		if err != nil {
			return regenerated, err
		}
		stack = pushReversed(stack, grandchildren)
	}

	r.logger.Info("bulk regeneration completed",
		slog.String("signed_by", caName),
		slog.Int("regenerated", len(regenerated)),
	)
	return regenerated, nil
}

func (r *regenerationUseCase) regenerate(
	ctx context.Context,
	name string,
) (credentialDomain.CredentialVersion, error) {
	existing, err := r.credentials.FindMostRecent(ctx, name)
	if err != nil {
		return nil, err
	}

	req, err := r.builder.CreateGenerateRequest(ctx, existing)
	if err != nil {
		return nil, err
	}

	value, err := r.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	version, err := r.credentials.Save(ctx, existing, value, req)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("credential regenerated",
		slog.String("credential_name", name),
		slog.String("version_id", version.Base().ID.String()),
	)
	return version, nil
}

// pushReversed pushes names so that the first one is popped first.
func pushReversed(stack, names []string) []string {
	reversed := slices.Clone(names)
	slices.Reverse(reversed)
	return append(stack, reversed...)
}

// NewRegenerationUseCase creates a new RegenerationUseCase.
func NewRegenerationUseCase(
	credentials CredentialService,
	generator ValueGenerator,
	builder RequestBuilder,
	logger *slog.Logger,
) RegenerationUseCase {
	return &regenerationUseCase{
		credentials: credentials,
		generator:   generator,
		builder:     builder,
		logger:      logger,
	}
}
