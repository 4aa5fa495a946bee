// Package dto provides data transfer objects for the permission API.
package dto

import (
	validation "github.com/jellydator/validation"

	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
	customValidation "github.com/allisson/credstore/internal/validation"
)

// PermissionRequest is one actor's requested operations.
type PermissionRequest struct {
	Actor      string   `json:"actor"`
	Operations []string `json:"operations"`
}

// Validate checks actor and operations.
func (r PermissionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Actor,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Operations,
			validation.Required,
			validation.Each(validation.By(validOperation)),
		),
	)
}

// GrantPermissionsRequest adds permissions on a credential.
type GrantPermissionsRequest struct {
	CredentialName string              `json:"credential_name"`
	Permissions    []PermissionRequest `json:"permissions"`
}

// Validate checks if the grant request is valid.
func (r *GrantPermissionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CredentialName,
			validation.Required,
			customValidation.NotBlank,
			customValidation.CredentialName,
			validation.Length(1, 1024),
		),
		validation.Field(&r.Permissions, validation.Required),
	)
}

// ToEntries converts the request into domain entries.
func (r *GrantPermissionsRequest) ToEntries() ([]*permissionDomain.PermissionEntry, error) {
	entries := make([]*permissionDomain.PermissionEntry, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ops, err := permissionDomain.ParseOperations(p.Operations)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &permissionDomain.PermissionEntry{
			Actor:      p.Actor,
			Operations: ops,
		})
	}
	return entries, nil
}

func validOperation(value any) error {
	name, _ := value.(string)
	if _, err := permissionDomain.ParseOperation(name); err != nil {
		return validation.NewError("validation_operation", "must be one of read, write, delete, read_acl, write_acl")
	}
	return nil
}
