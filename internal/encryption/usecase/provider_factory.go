package usecase

import (
	"context"
	"encoding/base64"
	"fmt"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// InternalProviderFactory builds memguard-backed providers from base64 key material.
// When kmsKeyURI is set the material is a KMS ciphertext and is unwrapped first.
type InternalProviderFactory struct {
	algorithm   encryptionDomain.Algorithm
	aeadManager encryptionService.AEADManager
	kmsService  encryptionService.KMSService
	kmsKeyURI   string
}

// NewInternalProviderFactory creates an internal provider factory.
func NewInternalProviderFactory(
	algorithm encryptionDomain.Algorithm,
	aeadManager encryptionService.AEADManager,
	kmsService encryptionService.KMSService,
	kmsKeyURI string,
) *InternalProviderFactory {
	return &InternalProviderFactory{
		algorithm:   algorithm,
		aeadManager: aeadManager,
		kmsService:  kmsService,
		kmsKeyURI:   kmsKeyURI,
	}
}

// ProviderID returns "internal".
func (f *InternalProviderFactory) ProviderID() string {
	return encryptionDomain.ProviderInternal
}

// NewProvider decodes (and optionally unwraps) spec.Material into a provider.
func (f *InternalProviderFactory) NewProvider(
	ctx context.Context,
	spec KeySpec,
) (encryptionService.Provider, error) {
	key, err := base64.StdEncoding.DecodeString(spec.Material)
	if err != nil {
		return nil, apperrors.Wrap(encryptionDomain.ErrInvalidKeyConfig, "key material is not valid base64")
	}

	if f.kmsKeyURI != "" {
		key, err = f.unwrap(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	provider, err := encryptionService.NewInternalProvider(key, f.algorithm, f.aeadManager)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (f *InternalProviderFactory) unwrap(ctx context.Context, wrapped []byte) ([]byte, error) {
	keeper, err := f.kmsService.OpenKeeper(ctx, f.kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	key, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap key with KMS: %w", err)
	}
	return key, nil
}

// KMSProviderFactory builds keeper-backed providers; spec.Material is the keeper URI.
type KMSProviderFactory struct {
	kmsService encryptionService.KMSService
}

// NewKMSProviderFactory creates a KMS provider factory.
func NewKMSProviderFactory(kmsService encryptionService.KMSService) *KMSProviderFactory {
	return &KMSProviderFactory{kmsService: kmsService}
}

// ProviderID returns "kms".
func (f *KMSProviderFactory) ProviderID() string {
	return encryptionDomain.ProviderKMS
}

// NewProvider opens the keeper named by spec.Material.
func (f *KMSProviderFactory) NewProvider(
	ctx context.Context,
	spec KeySpec,
) (encryptionService.Provider, error) {
	keeper, err := f.kmsService.OpenKeeper(ctx, spec.Material)
	if err != nil {
		return nil, apperrors.Wrap(encryptionDomain.ErrEncryptionUnavailable, err.Error())
	}
	return encryptionService.NewKMSProvider(keeper), nil
}
