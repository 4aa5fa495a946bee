// Package domain defines per-credential access control entries.
//
// An entry grants one actor a set of operations on one credential name. Lookups are
// by exact name; there is no inheritance between names.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation is an action an actor may perform on a credential.
type Operation string

const (
	OperationRead     Operation = "read"
	OperationWrite    Operation = "write"
	OperationDelete   Operation = "delete"
	OperationReadACL  Operation = "read_acl"
	OperationWriteACL Operation = "write_acl"
)

// AllOperations lists every operation in canonical order.
var AllOperations = []Operation{
	OperationRead,
	OperationWrite,
	OperationDelete,
	OperationReadACL,
	OperationWriteACL,
}

// ParseOperation validates an operation name.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllOperations {
		if op == known {
			return op, nil
		}
	}
	return "", ErrInvalidPermissionOperation
}

// ParseOperations validates names and returns them deduplicated in canonical order.
// An empty list is rejected.
func ParseOperations(names []string) ([]Operation, error) {
	if len(names) == 0 {
		return nil, ErrEmptyOperations
	}

	ops := make([]Operation, 0, len(names))
	for _, name := range names {
		op, err := ParseOperation(name)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return CanonicalOperations(ops), nil
}

// CanonicalOperations deduplicates ops and orders them like AllOperations.
func CanonicalOperations(ops []Operation) []Operation {
	present := make(map[Operation]bool, len(ops))
	for _, op := range ops {
		present[op] = true
	}

	result := make([]Operation, 0, len(present))
	for _, op := range AllOperations {
		if present[op] {
			result = append(result, op)
		}
	}
	return result
}

// PermissionEntry grants Actor the Operations on one credential.
type PermissionEntry struct {
	ID             uuid.UUID
	CredentialID   uuid.UUID
	CredentialName string
	Actor          string
	Operations     []Operation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPermissionEntry creates an entry for actor on credentialID.
func NewPermissionEntry(credentialID uuid.UUID, actor string, ops []Operation) *PermissionEntry {
	now := time.Now().UTC()
	return &PermissionEntry{
		ID:           uuid.Must(uuid.NewV7()),
		CredentialID: credentialID,
		Actor:        actor,
		Operations:   CanonicalOperations(ops),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Allows reports whether the entry grants op.
func (e *PermissionEntry) Allows(op Operation) bool {
	for _, granted := range e.Operations {
		if granted == op {
			return true
		}
	}
	return false
}
