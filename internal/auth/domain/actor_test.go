package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenEntries(t *testing.T) {
	entries, err := ParseTokenEntries(
		"ops:$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA; ci:$argon2id$v=19$m=65536,t=3,p=4$YQ$Yg",
	)
	require.NoError(t, err)
	assert.Equal(t, []TokenEntry{
		{Actor: "ops", Hash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{Actor: "ci", Hash: "$argon2id$v=19$m=65536,t=3,p=4$YQ$Yg"},
	}, entries)

	entries, err = ParseTokenEntries("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = ParseTokenEntries("ops:")
	assert.ErrorIs(t, err, ErrInvalidTokenConfig)

	_, err = ParseTokenEntries("ops")
	assert.ErrorIs(t, err, ErrInvalidTokenConfig)
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()

	_, ok := ActorFromContext(ctx)
	assert.False(t, ok)

	_, ok = ActorFromContext(WithActor(ctx, ""))
	assert.False(t, ok)

	actor, ok := ActorFromContext(WithActor(ctx, "ops"))
	assert.True(t, ok)
	assert.Equal(t, "ops", actor)
}
