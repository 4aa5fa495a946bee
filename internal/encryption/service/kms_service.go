package service

import (
	"context"
	"net/url"
	"slices"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

// KMSSchemes lists the keeper URI schemes compiled into the binary.
var KMSSchemes = []string{"awskms", "azurekeyvault", "base64key", "gcpkms", "hashivault"}

// KMSService opens gocloud.dev keepers from URIs.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService returns the gocloud.dev backed KMSService.
func NewKMSService() KMSService {
	return kmsService{}
}

// OpenKeeper rejects URIs whose scheme is not in KMSSchemes with ErrInvalidKeyConfig.
func (kmsService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || !slices.Contains(KMSSchemes, u.Scheme) {
		return nil, apperrors.Wrapf(encryptionDomain.ErrInvalidKeyConfig, "unsupported kms key uri %q", redactURI(keyURI))
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrapf(err, "open %s keeper", u.Scheme)
	}
	return keeper, nil
}

// redactURI keeps only the scheme so key material in base64key URIs never reaches logs.
func redactURI(keyURI string) string {
	if u, err := url.Parse(keyURI); err == nil && u.Scheme != "" {
		return u.Scheme + "://..."
	}
	return "..."
}
