// Package domain defines the per-request audit record. Handlers and the regeneration
// engine annotate the record carried in the request context; the HTTP audit middleware
// persists it once the response status is known.
package domain

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
)

// Resource identifies a credential touched by a request.
type Resource struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Version identifies a credential version touched by a request.
type Version struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// Record describes one API request. It is safe for concurrent use.
type Record struct {
	ID             uuid.UUID
	RequestID      string
	Actor          string
	Method         string
	Path           string
	StatusCode     int
	Success        bool
	RequestDetails map[string]any
	Resources      []Resource
	Versions       []Version
	CreatedAt      time.Time

	mu sync.Mutex
}

// NewRecord creates a record for an incoming request.
func NewRecord(requestID, method, path string) *Record {
	return &Record{
		ID:        uuid.Must(uuid.NewV7()),
		RequestID: requestID,
		Method:    method,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
}

// SetResource replaces the resources with credential.
func (r *Record) SetResource(credential *credentialDomain.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resources = []Resource{toResource(credential)}
}

// AddResource appends credential to the resources.
func (r *Record) AddResource(credential *credentialDomain.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Resources = append(r.Resources, toResource(credential))
}

// SetVersion replaces the versions with version.
func (r *Record) SetVersion(version credentialDomain.CredentialVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Versions = []Version{toVersion(version)}
}

// AddVersion appends version to the versions.
func (r *Record) AddVersion(version credentialDomain.CredentialVersion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Versions = append(r.Versions, toVersion(version))
}

// SetRequestDetails records the operation-specific input of the request.
func (r *Record) SetRequestDetails(details map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RequestDetails = details
}

// Complete stamps the actor and response status.
func (r *Record) Complete(actor string, statusCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Actor = actor
	r.StatusCode = statusCode
	r.Success = statusCode < 400
}

func toResource(credential *credentialDomain.Credential) Resource {
	if credential == nil {
		return Resource{}
	}
	return Resource{ID: credential.ID, Name: credential.Name}
}

func toVersion(version credentialDomain.CredentialVersion) Version {
	base := version.Base()
	return Version{ID: base.ID, Name: base.Name(), Type: string(version.Type())}
}

type recordKey struct{}

// WithRecord stores record in ctx.
func WithRecord(ctx context.Context, record *Record) context.Context {
	return context.WithValue(ctx, recordKey{}, record)
}

// RecordFromContext returns the request's record, if any.
func RecordFromContext(ctx context.Context) (*Record, bool) {
	record, ok := ctx.Value(recordKey{}).(*Record)
	return record, ok && record != nil
}
