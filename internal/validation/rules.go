// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credstore/internal/errors"
)

var credentialNameRegex = regexp.MustCompile(`^/?[A-Za-z0-9_.\-]+(/[A-Za-z0-9_.\-]+)*$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// CredentialName accepts slash-separated segments of letters, digits, "_", "-" and ".".
// Empty segments ("//") and a trailing slash are rejected.
var CredentialName = validation.NewStringRuleWithError(
	func(s string) bool {
		return credentialNameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_credential_name",
		"may only include alphanumeric characters, hyphens, underscores, periods and single forward slashes",
	),
)

// KeyLength accepts the supported RSA modulus sizes. Zero means "use the default".
var KeyLength = validation.By(func(value any) error {
	length, ok := value.(int)
	if !ok {
		return validation.NewError("validation_key_length_type", "must be an integer")
	}
	switch length {
	case 0, 2048, 3072, 4096:
		return nil
	default:
		return validation.NewError("validation_key_length", "must be one of 2048, 3072 or 4096")
	}
})
