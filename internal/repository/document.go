package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Missing or
// filtered-out rows surface as sql.ErrNoRows; the service layer maps them.
type DocumentRepository interface {
	// Create inserts a new document record. The caller provides id and
	// timestamps; the stored row is returned.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindAll returns documents ordered by creation time ascending,
	// optionally restricted to one owner.
	FindAll(ctx context.Context, ownerID string) ([]model.Document, error)

	// FindByID returns a document by id, restricted by the owner filter.
	FindByID(ctx context.Context, id, ownerID string) (*model.Document, error)

	// Update applies a partial patch and refreshes updated_at. Returns the
	// updated row, or sql.ErrNoRows if the id is absent or filtered out.
	Update(ctx context.Context, id, ownerID string, patch DocumentPatch) (*model.Document, error)

	// Delete removes a document. Returns sql.ErrNoRows if the id is absent
	// or filtered out.
	Delete(ctx context.Context, id, ownerID string) error
}
