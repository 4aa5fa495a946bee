// Package usecase resolves bearer tokens to actors.
package usecase

import (
	"context"
	"sync"

	authDomain "github.com/allisson/credstore/internal/auth/domain"
	authService "github.com/allisson/credstore/internal/auth/service"
)

// Authenticator resolves a bearer token to the actor it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, plainToken string) (string, error)
}

// tokenAuthenticator checks tokens against the configured Argon2id hashes. A token
// that verified once is remembered by its keyed digest so later requests skip Argon2id.
type tokenAuthenticator struct {
	entries       []authDomain.TokenEntry
	secretService authService.SecretService
	tokenService  authService.TokenService
	verified      sync.Map // map[string]string: token digest -> actor
}

// NewAuthenticator creates an Authenticator over entries.
func NewAuthenticator(
	entries []authDomain.TokenEntry,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) Authenticator {
	return &tokenAuthenticator{
		entries:       entries,
		secretService: secretService,
		tokenService:  tokenService,
	}
}

// Authenticate returns the actor owning plainToken or ErrInvalidToken.
func (a *tokenAuthenticator) Authenticate(ctx context.Context, plainToken string) (string, error) {
	if plainToken == "" {
		return "", authDomain.ErrInvalidToken
	}

	digest := a.tokenService.HashToken(plainToken)
	if actor, ok := a.verified.Load(digest); ok {
		return actor.(string), nil
	}

	for _, entry := range a.entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if a.secretService.CompareSecret(plainToken, entry.Hash) {
			a.verified.Store(digest, entry.Actor)
			return entry.Actor, nil
		}
	}
	return "", authDomain.ErrInvalidToken
}
