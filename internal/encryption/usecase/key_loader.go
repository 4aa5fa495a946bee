package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// KeySpec is one configured key: an operator-facing name and provider-specific material.
type KeySpec struct {
	Name     string
	Material string
}

// ParseKeySpecs parses "name:material,name:material". Material may itself contain
// colons (keeper URIs); only the first colon separates the name.
func ParseKeySpecs(raw string) ([]KeySpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	seen := make(map[string]struct{})
	specs := make([]KeySpec, 0)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, material, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		material = strings.TrimSpace(material)
		if !ok || name == "" || material == "" {
			return nil, apperrors.Wrapf(encryptionDomain.ErrInvalidKeyConfig, "malformed entry %q", name)
		}
		if _, dup := seen[name]; dup {
			return nil, apperrors.Wrapf(encryptionDomain.ErrInvalidKeyConfig, "duplicate key name %q", name)
		}
		seen[name] = struct{}{}

		specs = append(specs, KeySpec{Name: name, Material: material})
	}
	return specs, nil
}

// KeyLoader registers configured keys, reusing the id of any stored canary the key
// can open and minting a new canary otherwise.
type KeyLoader struct {
	canaryRepo CanaryRepository
	factory    ProviderFactory
	logger     *slog.Logger
}

// NewKeyLoader creates a key loader.
func NewKeyLoader(canaryRepo CanaryRepository, factory ProviderFactory, logger *slog.Logger) *KeyLoader {
	return &KeyLoader{
		canaryRepo: canaryRepo,
		factory:    factory,
		logger:     logger,
	}
}

// Load builds a KeyService from specs. activeName selects the active key; it may be
// empty only when exactly one key is configured.
func (l *KeyLoader) Load(ctx context.Context, specs []KeySpec, activeName string) (*KeyService, error) {
	keyService := NewKeyService()
	if len(specs) == 0 {
		l.logger.Warn("no encryption keys configured, credential writes will fail")
		return keyService, nil
	}
	if activeName == "" && len(specs) == 1 {
		activeName = specs[0].Name
	}

	canaries, err := l.canaryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	claimed := make(map[uuid.UUID]string)
	activeID := uuid.Nil

	for _, spec := range specs {
		provider, err := l.factory.NewProvider(ctx, spec)
		if err != nil {
			_ = keyService.Close()
			return nil, apperrors.Wrapf(err, "failed to initialize encryption key %q", spec.Name)
		}

		id, created, err := l.resolveID(ctx, spec, provider, canaries)
		if created != nil {
			canaries = append(canaries, created)
		}
		if err != nil {
			_ = provider.Close()
			_ = keyService.Close()
			return nil, err
		}
		if other, dup := claimed[id]; dup {
			_ = provider.Close()
			_ = keyService.Close()
			return nil, apperrors.Wrapf(
				encryptionDomain.ErrInvalidKeyConfig,
				"keys %q and %q hold the same material", other, spec.Name,
			)
		}
		claimed[id] = spec.Name

		keyService.Register(encryptionDomain.EncryptionKey{
			ID:         id,
			ProviderID: l.factory.ProviderID(),
			Name:       spec.Name,
		}, provider)

		if spec.Name == activeName {
			activeID = id
		}
	}

	if activeID == uuid.Nil {
		_ = keyService.Close()
		return nil, apperrors.Wrapf(encryptionDomain.ErrInvalidKeyConfig, "active key %q is not configured", activeName)
	}
	if err := keyService.SetActiveKey(activeID); err != nil {
		_ = keyService.Close()
		return nil, err
	}

	for _, key := range keyService.Keys() {
		l.logger.Info("encryption key registered",
			slog.String("key_name", key.Name),
			slog.String("key_id", key.ID.String()),
			slog.String("provider", key.ProviderID),
			slog.Bool("active", key.Active))
	}
	l.logger.Info("encryption keys loaded",
		slog.Int("key_count", len(specs)),
		slog.String("active_key", activeName),
		slog.String("active_key_id", activeID.String()))

	return keyService, nil
}

func (l *KeyLoader) resolveID(
	ctx context.Context,
	spec KeySpec,
	provider encryptionService.Provider,
	canaries []*encryptionDomain.Canary,
) (uuid.UUID, *encryptionDomain.Canary, error) {
	for _, canary := range canaries {
		if canary.ProviderID != l.factory.ProviderID() {
			continue
		}

		plaintext, err := provider.Decrypt(ctx, canary.EncryptedCanary, canary.Nonce)
		if apperrors.Is(err, encryptionDomain.ErrEncryptionUnavailable) {
			return uuid.Nil, nil, apperrors.Wrapf(err, "failed to check canary for key %q", spec.Name)
		}
		if err != nil {
			continue
		}
		if bytes.Equal(plaintext, encryptionDomain.CanaryValue) {
			return canary.ID, nil, nil
		}
	}

	ciphertext, nonce, err := provider.Encrypt(ctx, encryptionDomain.CanaryValue)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to seal canary for key %q: %w", spec.Name, err)
	}

	canary := &encryptionDomain.Canary{
		ID:              uuid.Must(uuid.NewV7()),
		ProviderID:      l.factory.ProviderID(),
		Name:            spec.Name,
		EncryptedCanary: ciphertext,
		Nonce:           nonce,
		CreatedAt:       time.Now().UTC(),
	}
	if err := l.canaryRepo.Create(ctx, canary); err != nil {
		return uuid.Nil, nil, err
	}

	l.logger.Info("registered new encryption key",
		slog.String("name", spec.Name),
		slog.String("key_id", canary.ID.String()))

	return canary.ID, canary, nil
}
