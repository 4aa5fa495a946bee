// Package usecase implements the encryption key service: key registration,
// active-key selection, and encrypt/decrypt routing by recorded key id.
package usecase

import (
	"context"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

// CanaryRepository persists the canaries that give configured keys stable ids.
type CanaryRepository interface {
	Create(ctx context.Context, canary *encryptionDomain.Canary) error
	List(ctx context.Context) ([]*encryptionDomain.Canary, error)
}

// ProviderFactory builds a provider for one configured key.
type ProviderFactory interface {
	ProviderID() string
	NewProvider(ctx context.Context, spec KeySpec) (encryptionService.Provider, error)
}
