package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const documentColumns = "id, title, description, file_name, file_type, file_path, file_size, owner_id, created_at, updated_at"

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// The owner filter is appended verbatim as an AND clause when present, so a
// row owned by someone else behaves exactly like a missing row.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row interface{ Scan(dest ...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.FileName,
		&d.FileType,
		&d.FilePath,
		&d.FileSize,
		&d.OwnerID,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	q := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FileName,
		doc.FileType,
		doc.FilePath,
		doc.FileSize,
		doc.OwnerID,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindAll returns documents in creation order, optionally scoped to one owner.
func (r *DocumentPostgres) FindAll(ctx context.Context, ownerID string) ([]model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents`
	var args []any
	if ownerID != "" {
		q += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single document within the owner filter.
func (r *DocumentPostgres) FindByID(ctx context.Context, id, ownerID string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	args := []any{id}
	if ownerID != "" {
		q += ` AND owner_id = $2`
		args = append(args, ownerID)
	}
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// Update applies the non-nil patch fields and refreshes updated_at.
// sql.ErrNoRows is returned when the id is absent or outside the filter.
func (r *DocumentPostgres) Update(ctx context.Context, id, ownerID string, patch repository.DocumentPatch) (*model.Document, error) {
	set := []string{"updated_at = now()"}
	args := []any{id}
	n := 2
	if patch.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		set = append(set, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}

	q := `UPDATE documents SET ` + strings.Join(set, ", ") + ` WHERE id = $1`
	if ownerID != "" {
		q += fmt.Sprintf(` AND owner_id = $%d`, n)
		args = append(args, ownerID)
	}
	q += ` RETURNING ` + documentColumns

	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// Delete removes a document within the owner filter. sql.ErrNoRows is
// returned when nothing was deleted, so denial and absence look the same.
func (r *DocumentPostgres) Delete(ctx context.Context, id, ownerID string) error {
	q := `DELETE FROM documents WHERE id = $1`
	args := []any{id}
	if ownerID != "" {
		q += ` AND owner_id = $2`
		args = append(args, ownerID)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
