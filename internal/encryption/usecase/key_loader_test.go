package usecase

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

type memoryCanaryRepository struct {
	mu        sync.Mutex
	canaries  []*encryptionDomain.Canary
	createErr error
}

func (r *memoryCanaryRepository) Create(_ context.Context, canary *encryptionDomain.Canary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.canaries = append(r.canaries, canary)
	return nil
}

func (r *memoryCanaryRepository) List(_ context.Context) ([]*encryptionDomain.Canary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*encryptionDomain.Canary(nil), r.canaries...), nil
}

type stubProviderFactory struct {
	provider encryptionService.Provider
}

func (f *stubProviderFactory) ProviderID() string {
	return encryptionDomain.ProviderKMS
}

func (f *stubProviderFactory) NewProvider(context.Context, KeySpec) (encryptionService.Provider, error) {
	return f.provider, nil
}

func randomKeyMaterial(t *testing.T) string {
	t.Helper()
	key := make([]byte, encryptionDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func newTestLoader(repo CanaryRepository) *KeyLoader {
	factory := NewInternalProviderFactory(
		encryptionDomain.AESGCM,
		encryptionService.NewAEADManager(),
		encryptionService.NewKMSService(),
		"",
	)
	return NewKeyLoader(repo, factory, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseKeySpecs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []KeySpec
		wantErr bool
	}{
		{name: "empty", raw: "  ", want: nil},
		{
			name: "multiple keys",
			raw:  "old:b2xk, new:bmV3",
			want: []KeySpec{{Name: "old", Material: "b2xk"}, {Name: "new", Material: "bmV3"}},
		},
		{
			name: "material with colons",
			raw:  "vault:hashivault://transit/keys/credstore",
			want: []KeySpec{{Name: "vault", Material: "hashivault://transit/keys/credstore"}},
		},
		{name: "missing material", raw: "primary:", wantErr: true},
		{name: "missing separator", raw: "primary", wantErr: true},
		{name: "duplicate name", raw: "a:x,a:y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseKeySpecs(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeyConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, specs)
		})
	}
}

func TestKeyLoader_StableIDsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	repo := &memoryCanaryRepository{}
	specs := []KeySpec{
		{Name: "old", Material: randomKeyMaterial(t)},
		{Name: "new", Material: randomKeyMaterial(t)},
	}

	first, err := newTestLoader(repo).Load(ctx, specs, "old")
	require.NoError(t, err)
	defer func() { _ = first.Close() }()
	require.Len(t, repo.canaries, 2)

	sealed, err := first.Encrypt(ctx, []byte("persisted"))
	require.NoError(t, err)

	// Simulate a restart that rotates to the new key.
	second, err := newTestLoader(repo).Load(ctx, specs, "new")
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.Len(t, repo.canaries, 2)
	assert.Equal(t, repo.canaries[1].ID, second.ActiveKeyID())

	plaintext, err := second.Decrypt(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), plaintext)
}

func TestKeyLoader_LogsKeyInventory(t *testing.T) {
	var logs bytes.Buffer
	factory := NewInternalProviderFactory(
		encryptionDomain.AESGCM,
		encryptionService.NewAEADManager(),
		encryptionService.NewKMSService(),
		"",
	)
	loader := NewKeyLoader(&memoryCanaryRepository{}, factory, slog.New(slog.NewJSONHandler(&logs, nil)))

	svc, err := loader.Load(context.Background(), []KeySpec{
		{Name: "old", Material: randomKeyMaterial(t)},
		{Name: "new", Material: randomKeyMaterial(t)},
	}, "new")
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	active := map[string]bool{}
	for line := range strings.SplitSeq(strings.TrimSpace(logs.String()), "\n") {
		var record struct {
			Msg     string `json:"msg"`
			KeyName string `json:"key_name"`
			KeyID   string `json:"key_id"`
			Active  bool   `json:"active"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		if record.Msg != "encryption key registered" {
			continue
		}
		assert.NotEmpty(t, record.KeyID)
		active[record.KeyName] = record.Active
	}
	assert.Equal(t, map[string]bool{"old": false, "new": true}, active)
}

func TestKeyLoader_SingleKeyIsActiveByDefault(t *testing.T) {
	repo := &memoryCanaryRepository{}
	svc, err := newTestLoader(repo).Load(
		context.Background(),
		[]KeySpec{{Name: "only", Material: randomKeyMaterial(t)}},
		"",
	)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	assert.Equal(t, repo.canaries[0].ID, svc.ActiveKeyID())
}

func TestKeyLoader_NoKeys(t *testing.T) {
	svc, err := newTestLoader(&memoryCanaryRepository{}).Load(context.Background(), nil, "")
	require.NoError(t, err)

	_, err = svc.Encrypt(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, encryptionDomain.ErrEncryptionUnavailable)
}

func TestKeyLoader_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("active key not configured", func(t *testing.T) {
		_, err := newTestLoader(&memoryCanaryRepository{}).Load(ctx, []KeySpec{
			{Name: "a", Material: randomKeyMaterial(t)},
			{Name: "b", Material: randomKeyMaterial(t)},
		}, "c")
		assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeyConfig)
	})

	t.Run("same material twice", func(t *testing.T) {
		material := randomKeyMaterial(t)
		_, err := newTestLoader(&memoryCanaryRepository{}).Load(ctx, []KeySpec{
			{Name: "a", Material: material},
			{Name: "b", Material: material},
		}, "a")
		assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeyConfig)
	})

	t.Run("invalid material", func(t *testing.T) {
		_, err := newTestLoader(&memoryCanaryRepository{}).Load(ctx, []KeySpec{
			{Name: "a", Material: "not base64!"},
		}, "a")
		assert.ErrorIs(t, err, encryptionDomain.ErrInvalidKeyConfig)
	})

	t.Run("unreachable provider does not mint a new canary", func(t *testing.T) {
		provider := &MockProvider{}
		provider.On("Decrypt", ctx, []byte("sealed"), []byte("nonce")).
			Return(nil, encryptionDomain.ErrEncryptionUnavailable).Once()
		provider.On("Close").Return(nil).Once()

		repo := &memoryCanaryRepository{canaries: []*encryptionDomain.Canary{{
			ID:              uuid.Must(uuid.NewV7()),
			ProviderID:      encryptionDomain.ProviderKMS,
			EncryptedCanary: []byte("sealed"),
			Nonce:           []byte("nonce"),
		}}}
		loader := NewKeyLoader(repo, &stubProviderFactory{provider: provider},
			slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := loader.Load(ctx, []KeySpec{{Name: "a", Material: "awskms://alias/a"}}, "a")
		assert.ErrorIs(t, err, encryptionDomain.ErrEncryptionUnavailable)
		assert.Len(t, repo.canaries, 1)
		provider.AssertExpectations(t)
	})

	t.Run("canary persistence failure", func(t *testing.T) {
		repo := &memoryCanaryRepository{createErr: errors.New("db down")}
		_, err := newTestLoader(repo).Load(ctx, []KeySpec{
			{Name: "a", Material: randomKeyMaterial(t)},
		}, "a")
		assert.EqualError(t, err, "db down")
	})
}
