package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Permission errors.
var (
	// ErrInvalidPermissionOperation indicates an operation name outside the known set.
	ErrInvalidPermissionOperation = errors.Wrap(
		errors.ErrInvalidInput,
		"the provided operation is not supported, valid values include read, write, delete, read_acl, and write_acl",
	)

	// ErrEmptyOperations indicates an entry without operations.
	ErrEmptyOperations = errors.Wrap(errors.ErrInvalidInput, "at least one operation is required")

	// ErrSelfModification indicates the caller tried to change its own entry.
	ErrSelfModification = errors.Wrap(
		errors.ErrInvalidInput,
		"modification of access control for the authenticated user is not allowed",
	)

	// ErrPermissionEntryNotFound indicates no entry exists for the actor.
	ErrPermissionEntryNotFound = errors.Wrap(errors.ErrNotFound, "permission entry not found")
)
