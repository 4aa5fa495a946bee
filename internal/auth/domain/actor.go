// Package domain defines the authenticated actor and the static token entries that
// identify actors at the API boundary.
package domain

import (
	"context"
	"strings"

	"github.com/allisson/credstore/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidToken indicates the bearer token matches no configured actor.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidTokenConfig indicates AUTH_TOKENS cannot be parsed.
	ErrInvalidTokenConfig = errors.Wrap(errors.ErrInvalidInput, "invalid auth token configuration")
)

// TokenEntry binds an actor to the Argon2id hash of its bearer token.
type TokenEntry struct {
	Actor string
	Hash  string
}

// ParseTokenEntries parses "actor:hash;actor:hash". Hashes are PHC strings, which contain
// commas, so entries are separated by semicolons and only the first colon splits.
func ParseTokenEntries(raw string) ([]TokenEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	entries := make([]TokenEntry, 0)
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		actor, hash, ok := strings.Cut(item, ":")
		if !ok || strings.TrimSpace(actor) == "" || strings.TrimSpace(hash) == "" {
			return nil, ErrInvalidTokenConfig
		}
		entries = append(entries, TokenEntry{
			Actor: strings.TrimSpace(actor),
			Hash:  strings.TrimSpace(hash),
		})
	}
	return entries, nil
}

type actorKey struct{}

// WithActor stores the authenticated actor in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}
