package model

import "time"

// Document represents a document record owned by a user. It is a pure domain
// model with no database-specific dependencies or tags, usable across layers
// (HTTP, service, storage) without coupling to persistence.
//
// The four file fields are pointer-typed and are always set or unset
// together: a document either carries an uploaded payload (all four present)
// or is description-only (all four nil). FilePath is the opaque object
// storage handle and is never exposed in responses.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileName    *string   `json:"file_name,omitempty"`
	FileType    *string   `json:"file_type,omitempty"`
	FilePath    *string   `json:"-"`
	FileSize    *int64    `json:"file_size,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasFile reports whether the document carries an uploaded payload.
func (d *Document) HasFile() bool {
	return d.FilePath != nil && d.FileType != nil
}
