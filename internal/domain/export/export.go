// Package export defines the export job and artifact types.
package export

import "time"

// Format is a supported serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Content types for the supported formats.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// Artifact is a serialized export payload ready for download.
type Artifact struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Status of an export job. Exports are computed synchronously, so a job is
// completed the moment it is created; the status field keeps the job
// endpoints' async-shaped contract stable.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one export request and its artifact. Jobs are transient: they live
// in an in-memory registry and are not persisted.
type Job struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Format    Format    `json:"format"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Artifact  *Artifact `json:"-"`
}
