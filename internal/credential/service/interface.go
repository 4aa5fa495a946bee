// Package service generates credential values and rebuilds generation requests from
// stored versions.
package service

import (
	"context"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// ValueGenerator produces a value for a request.
type ValueGenerator interface {
	Generate(ctx context.Context, req credentialDomain.GenerateRequest) (credentialDomain.CredentialValue, error)
}

// CALoader reads a stored certificate authority on behalf of the caller.
type CALoader interface {
	Get(ctx context.Context, name string) (credentialDomain.CredentialVersion, error)
}
