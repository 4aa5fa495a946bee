package domain

import (
	"github.com/allisson/credstore/internal/errors"
)

// Credential errors.
var (
	// ErrCredentialNotFound indicates no credential (or version) exists for the lookup.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrAccessDenied indicates the actor lacks the operation required on the credential.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")

	// ErrInvalidValue indicates an empty or malformed value was supplied to a setter.
	ErrInvalidValue = errors.Wrap(errors.ErrInvalidInput, "invalid credential value")

	// ErrTypeMismatch indicates a write whose type differs from the stored credential type.
	ErrTypeMismatch = errors.Wrap(
		errors.ErrInvalidInput,
		"the credential type cannot be modified, delete the credential to recreate it with a different type",
	)

	// ErrUnknownType indicates an unsupported credential type name.
	ErrUnknownType = errors.Wrap(errors.ErrInvalidInput, "unknown credential type")

	// ErrInvalidParameters indicates generation parameters that cannot produce a value.
	ErrInvalidParameters = errors.Wrap(errors.ErrInvalidInput, "invalid generation parameters")

	// ErrCannotRegenerate indicates the credential was not produced by a generator.
	ErrCannotRegenerate = errors.Wrap(errors.ErrInvalidInput, "credential cannot be regenerated")
)
