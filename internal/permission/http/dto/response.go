package dto

import (
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

// PermissionResponse is one actor's operations.
type PermissionResponse struct {
	Actor      string   `json:"actor"`
	Operations []string `json:"operations"`
}

// PermissionsResponse lists the access control entries of a credential.
type PermissionsResponse struct {
	CredentialName string               `json:"credential_name"`
	Permissions    []PermissionResponse `json:"permissions"`
}

// MapEntriesToResponse converts domain entries to an API response.
func MapEntriesToResponse(name string, entries []*permissionDomain.PermissionEntry) PermissionsResponse {
	permissions := make([]PermissionResponse, 0, len(entries))
	for _, entry := range entries {
		ops := make([]string, 0, len(entry.Operations))
		for _, op := range entry.Operations {
			ops = append(ops, string(op))
		}
		permissions = append(permissions, PermissionResponse{
			Actor:      entry.Actor,
			Operations: ops,
		})
	}

	return PermissionsResponse{
		CredentialName: name,
		Permissions:    permissions,
	}
}
