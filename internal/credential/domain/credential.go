// Package domain defines the credential model: a named credential owning an ordered
// series of typed versions whose sensitive attributes are encrypted at rest.
//
// Versions form a closed set of variants (password, user, value, json, certificate,
// rsa, ssh). Sensitive attributes go through EncryptedField, which skips re-encryption
// when neither the plaintext nor the active key changed.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type identifies a credential variant.
type Type string

const (
	TypePassword    Type = "password"
	TypeUser        Type = "user"
	TypeValue       Type = "value"
	TypeJSON        Type = "json"
	TypeCertificate Type = "certificate"
	TypeRSA         Type = "rsa"
	TypeSSH         Type = "ssh"
)

// ParseType validates a type name.
func ParseType(name string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(name))); t {
	case TypePassword, TypeUser, TypeValue, TypeJSON, TypeCertificate, TypeRSA, TypeSSH:
		return t, nil
	default:
		return "", ErrUnknownType
	}
}

// Generatable reports whether values of this type can be produced by a generator.
func (t Type) Generatable() bool {
	switch t {
	case TypePassword, TypeUser, TypeCertificate, TypeRSA, TypeSSH:
		return true
	default:
		return false
	}
}

// Credential is the stable identity behind a name.
type Credential struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewCredential creates a credential with a normalized name.
func NewCredential(name string) *Credential {
	return &Credential{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      NormalizeName(name),
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeName prefixes name with "/" when missing.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// Mode controls what a write does when the credential already exists.
type Mode string

const (
	ModeOverwrite   Mode = "overwrite"
	ModeNoOverwrite Mode = "no-overwrite"
)
