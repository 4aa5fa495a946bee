// Package dto provides data transfer objects for the audit API.
package dto

import (
	"time"

	auditDomain "github.com/allisson/credstore/internal/audit/domain"
)

// RecordResponse represents an audit record in API responses.
type RecordResponse struct {
	ID             string                 `json:"id"`
	RequestID      string                 `json:"request_id"`
	Actor          string                 `json:"actor"`
	Method         string                 `json:"method"`
	Path           string                 `json:"path"`
	StatusCode     int                    `json:"status_code"`
	Success        bool                   `json:"success"`
	RequestDetails map[string]any         `json:"request_details,omitempty"`
	Resources      []auditDomain.Resource `json:"resources"`
	Versions       []auditDomain.Version  `json:"versions"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ListRecordsResponse is a page of audit records.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapRecordsToListResponse converts records into a list response.
func MapRecordsToListResponse(records []*auditDomain.Record) ListRecordsResponse {
	data := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, RecordResponse{
			ID:             record.ID.String(),
			RequestID:      record.RequestID,
			Actor:          record.Actor,
			Method:         record.Method,
			Path:           record.Path,
			StatusCode:     record.StatusCode,
			Success:        record.Success,
			RequestDetails: record.RequestDetails,
			Resources:      nonNil(record.Resources),
			Versions:       nonNil(record.Versions),
			CreatedAt:      record.CreatedAt,
		})
	}
	return ListRecordsResponse{Data: data}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
