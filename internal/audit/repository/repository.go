// Package repository persists audit records for PostgreSQL and MySQL. Request details,
// resources and versions are stored as JSON text columns.
package repository

import (
	"encoding/json"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
	apperrors "github.com/allisson/credstore/internal/errors"
)

const recordColumns = `id, request_id, actor, method, path, status_code, success, request_details, resources,
			  versions, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type encodedRecord struct {
	details   any
	resources string
	versions  string
}

func encodeRecord(record *auditDomain.Record) (encodedRecord, error) {
	var encoded encodedRecord

	if record.RequestDetails != nil {
		details, err := json.Marshal(record.RequestDetails)
		if err != nil {
			return encodedRecord{}, apperrors.Wrap(err, "failed to marshal audit request details")
		}
		encoded.details = string(details)
	}

	resources, err := json.Marshal(nonNil(record.Resources))
	if err != nil {
		return encodedRecord{}, apperrors.Wrap(err, "failed to marshal audit resources")
	}
	versions, err := json.Marshal(nonNil(record.Versions))
	if err != nil {
		return encodedRecord{}, apperrors.Wrap(err, "failed to marshal audit versions")
	}

	encoded.resources = string(resources)
	encoded.versions = string(versions)
	return encoded, nil
}

func decodeRecord(record *auditDomain.Record, details *string, resources, versions string) error {
	if details != nil {
		if err := json.Unmarshal([]byte(*details), &record.RequestDetails); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal audit request details")
		}
	}
	if err := json.Unmarshal([]byte(resources), &record.Resources); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal audit resources")
	}
	if err := json.Unmarshal([]byte(versions), &record.Versions); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal audit versions")
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
