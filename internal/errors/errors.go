// Package errors defines the domain error categories shared by every credstore module.
// Use cases wrap one of the sentinels below; HTTP handlers map the category to a status.
package errors

import (
	"errors"
	"fmt"
)

// Categories. A wrapped error belongs to the first category found in its chain.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is rendered as not found so callers cannot learn whether a resource exists.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable covers an unreachable key provider or KMS.
	ErrUnavailable = errors.New("unavailable")
)

// New returns an error carrying message.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message. It returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is is errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target any) bool { return errors.As(err, target) }
