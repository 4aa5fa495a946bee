// Package dto provides data transfer objects for the regeneration API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/credstore/internal/validation"
)

// RegenerateRequest names the credential to regenerate.
type RegenerateRequest struct {
	Name string `json:"name"`
}

// Validate checks if the regenerate request is valid.
func (r *RegenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.CredentialName,
			validation.Length(1, 1024),
		),
	)
}

// BulkRegenerateRequest names the CA whose signed certificates are regenerated.
type BulkRegenerateRequest struct {
	SignedBy string `json:"signed_by"`
}

// Validate checks if the bulk regenerate request is valid.
func (r *BulkRegenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SignedBy,
			validation.Required,
			customValidation.NotBlank,
			customValidation.CredentialName,
			validation.Length(1, 1024),
		),
	)
}

// BulkRegenerateResponse lists the regenerated credentials in processing order.
type BulkRegenerateResponse struct {
	RegeneratedCredentials []string `json:"regenerated_credentials"`
}
