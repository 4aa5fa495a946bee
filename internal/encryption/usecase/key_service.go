package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
	apperrors "github.com/allisson/credstore/internal/errors"
)

type registeredKey struct {
	key      encryptionDomain.EncryptionKey
	provider encryptionService.Provider
}

// KeyService encrypts under the active key and decrypts under whichever key a
// ciphertext records. Keys are never removed while the service is open.
type KeyService struct {
	keys sync.Map // map[uuid.UUID]*registeredKey

	mu       sync.RWMutex
	activeID uuid.UUID
}

// NewKeyService creates an empty key service. Encrypt fails until a key is activated.
func NewKeyService() *KeyService {
	return &KeyService{}
}

// Register adds a key. Registering an id twice replaces the provider.
func (s *KeyService) Register(key encryptionDomain.EncryptionKey, provider encryptionService.Provider) {
	key.Active = false
	s.keys.Store(key.ID, &registeredKey{key: key, provider: provider})
}

// SetActiveKey moves the active pointer. Existing ciphertext is not touched.
func (s *KeyService) SetActiveKey(id uuid.UUID) error {
	if _, ok := s.keys.Load(id); !ok {
		return encryptionDomain.ErrUnknownKey
	}

	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	return nil
}

// ActiveKeyID returns the id of the key used for new ciphertext, or uuid.Nil.
func (s *KeyService) ActiveKeyID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Keys lists registered keys ordered by id.
func (s *KeyService) Keys() []encryptionDomain.EncryptionKey {
	activeID := s.ActiveKeyID()

	keys := make([]encryptionDomain.EncryptionKey, 0)
	s.keys.Range(func(_, value any) bool {
		key := value.(*registeredKey).key
		key.Active = key.ID == activeID
		keys = append(keys, key)
		return true
	})

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ID.String() < keys[j].ID.String()
	})
	return keys
}

// Encrypt seals plaintext under the active key.
func (s *KeyService) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (encryptionDomain.EncryptedValue, error) {
	activeID := s.ActiveKeyID()
	if activeID == uuid.Nil {
		return encryptionDomain.EncryptedValue{}, apperrors.Wrap(
			encryptionDomain.ErrEncryptionUnavailable,
			"no active encryption key",
		)
	}

	entry, ok := s.load(activeID)
	if !ok {
		return encryptionDomain.EncryptedValue{}, encryptionDomain.ErrEncryptionUnavailable
	}

	ciphertext, nonce, err := entry.provider.Encrypt(ctx, plaintext)
	if err != nil {
		if errors.Is(err, encryptionDomain.ErrEncryptionUnavailable) {
			return encryptionDomain.EncryptedValue{}, err
		}
		return encryptionDomain.EncryptedValue{}, apperrors.Wrap(
			encryptionDomain.ErrEncryptionUnavailable,
			err.Error(),
		)
	}

	return encryptionDomain.EncryptedValue{
		KeyID:      activeID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
	}, nil
}

// Decrypt opens value with the key recorded in value.KeyID, active or not.
func (s *KeyService) Decrypt(ctx context.Context, value encryptionDomain.EncryptedValue) ([]byte, error) {
	entry, ok := s.load(value.KeyID)
	if !ok {
		return nil, apperrors.Wrapf(encryptionDomain.ErrUnknownKey, "key %s", value.KeyID)
	}

	plaintext, err := entry.provider.Decrypt(ctx, value.Ciphertext, value.Nonce)
	if err != nil {
		if errors.Is(err, encryptionDomain.ErrDecryptionFailed) ||
			errors.Is(err, encryptionDomain.ErrEncryptionUnavailable) {
			return nil, err
		}
		return nil, apperrors.Wrap(encryptionDomain.ErrEncryptionUnavailable, err.Error())
	}
	return plaintext, nil
}

// Close releases every provider.
func (s *KeyService) Close() error {
	var errs []error
	s.keys.Range(func(_, value any) bool {
		if err := value.(*registeredKey).provider.Close(); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

func (s *KeyService) load(id uuid.UUID) (*registeredKey, bool) {
	value, ok := s.keys.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*registeredKey), true
}
