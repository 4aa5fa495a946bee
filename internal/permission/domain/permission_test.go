package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/credstore/internal/errors"
)

func TestParseOperations(t *testing.T) {
	ops, err := ParseOperations([]string{"write_acl", "READ", "read"})
	require.NoError(t, err)
	assert.Equal(t, []Operation{OperationRead, OperationWriteACL}, ops)

	_, err = ParseOperations([]string{"read", "admin"})
	assert.ErrorIs(t, err, ErrInvalidPermissionOperation)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "read, write, delete, read_acl, and write_acl")

	_, err = ParseOperations(nil)
	assert.ErrorIs(t, err, ErrEmptyOperations)
	assert.NotErrorIs(t, err, ErrInvalidPermissionOperation)
}

func TestPermissionEntry_Allows(t *testing.T) {
	entry := NewPermissionEntry(uuid.Must(uuid.NewV7()), "dan", []Operation{OperationWrite, OperationRead})
	assert.Equal(t, []Operation{OperationRead, OperationWrite}, entry.Operations)

	assert.True(t, entry.Allows(OperationWrite))
	assert.False(t, entry.Allows(OperationDelete))
	assert.False(t, entry.Allows(OperationWriteACL))
}

func TestErrSelfModification(t *testing.T) {
	assert.ErrorIs(t, ErrSelfModification, apperrors.ErrInvalidInput)
	assert.NotErrorIs(t, ErrSelfModification, ErrInvalidPermissionOperation)
	assert.Equal(t,
		"modification of access control for the authenticated user is not allowed: invalid input",
		ErrSelfModification.Error())
	assert.ErrorIs(t, ErrPermissionEntryNotFound, apperrors.ErrNotFound)
}
