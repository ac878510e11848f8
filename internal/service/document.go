package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/extract"
	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

var (
	// ErrIDRequired indicates a missing document id.
	ErrIDRequired = errors.New("document id is required")
	// ErrNotFound indicates the document does not exist for this actor. An
	// existing document owned by someone else yields the same error, so a
	// caller cannot probe for ids it may not see.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden indicates the actor's role may not attempt the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrTitleRequired indicates a blank title on create or update.
	ErrTitleRequired = errors.New("title is required")
	// ErrContentRequired indicates a create with neither file nor description.
	ErrContentRequired = errors.New("either a file or a description is required")
	// ErrNoFieldsToUpdate indicates an update carrying no changes.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrStorageUnavailable indicates the blob store failed for a reason other
	// than a missing object.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// FilePayload is an uploaded file streamed from the request body.
type FilePayload struct {
	Reader      io.Reader
	Name        string
	ContentType string
	Size        int64
}

// CreateDocumentInput carries the fields for creating a document.
// File is optional; when nil the description must be non-empty.
type CreateDocumentInput struct {
	Title       string
	Description string
	File        *FilePayload
}

// UpdateDocumentInput carries a partial update. Nil fields are left untouched.
type UpdateDocumentInput struct {
	Title       *string
	Description *string
}

// DocumentService implements document use cases on top of the repository and
// the blob store, gated by the access policy. Every operation receives the
// acting identity and enforces both the role check and the ownership filter.
type DocumentService interface {
	Create(ctx context.Context, actor policy.Actor, in CreateDocumentInput) (*model.Document, error)
	List(ctx context.Context, actor policy.Actor, requestedOwnerID string) ([]model.Document, error)
	Get(ctx context.Context, actor policy.Actor, id string) (*model.Document, error)
	Update(ctx context.Context, actor policy.Actor, id string, in UpdateDocumentInput) (*model.Document, error)
	Delete(ctx context.Context, actor policy.Actor, id string) error
	DownloadRaw(ctx context.Context, actor policy.Actor, id string) (io.ReadCloser, *model.Document, error)
	DownloadText(ctx context.Context, actor policy.Actor, id string) (string, *model.Document, error)
	DownloadURL(ctx context.Context, actor policy.Actor, id string, expiry time.Duration) (string, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
}

// NewDocumentService wires the document use cases.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

// Create validates the input, uploads the file (if any) and inserts the
// record. The blob goes in first; if the insert then fails the blob is
// removed so no orphan survives a failed create.
func (s *documentService) Create(ctx context.Context, actor policy.Actor, in CreateDocumentInput) (*model.Document, error) {
	if !policy.Allows(actor.Role, policy.OpCreate) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.File == nil && strings.TrimSpace(in.Description) == "" {
		return nil, ErrContentRequired
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Description: in.Description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var blobKey string
	if in.File != nil {
		if in.File.Reader == nil {
			return nil, fmt.Errorf("file payload has no reader")
		}

		contentType := in.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		key := "documents/" + uuid.New().String() + filepath.Ext(in.File.Name)
		info, err := s.store.Put(ctx, key, in.File.Reader, storage.PutObjectOptions{
			Size:        in.File.Size,
			ContentType: contentType,
			Metadata:    map[string]string{"original-filename": in.File.Name},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		blobKey = key
		fileName := in.File.Name
		fileSize := info.Size
		doc.FileName = &fileName
		doc.FileType = &contentType
		doc.FilePath = &key
		doc.FileSize = &fileSize
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if blobKey != "" {
			if delErr := s.store.Delete(ctx, blobKey); delErr != nil {
				return nil, fmt.Errorf("save document: %v (orphaned blob %s: %v)", err, blobKey, delErr)
			}
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	return stored, nil
}

// List returns the documents visible to the actor, ordered by creation time.
// Admins may narrow the result to one owner; everyone else only ever sees
// their own documents regardless of what was requested.
func (s *documentService) List(ctx context.Context, actor policy.Actor, requestedOwnerID string) ([]model.Document, error) {
	if !policy.Allows(actor.Role, policy.OpList) {
		return nil, ErrForbidden
	}

	docs, err := s.repo.FindAll(ctx, policy.ListScope(actor, requestedOwnerID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Get returns a single document the actor may see.
func (s *documentService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !policy.Allows(actor.Role, policy.OpRead) {
		return nil, ErrForbidden
	}

	doc, err := s.repo.FindByID(ctx, id, policy.Scope(actor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Update applies a partial patch to title and/or description. File fields and
// ownership never change here; an admin updating another user's document
// leaves owner_id intact.
func (s *documentService) Update(ctx context.Context, actor policy.Actor, id string, in UpdateDocumentInput) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !policy.Allows(actor.Role, policy.OpUpdate) {
		return nil, ErrForbidden
	}
	if in.Title == nil && in.Description == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, ErrTitleRequired
		}
		in.Title = &trimmed
	}

	doc, err := s.repo.Update(ctx, id, policy.Scope(actor), repository.DocumentPatch{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// Delete removes the document and its blob. The blob goes first so a storage
// failure leaves the record (and a retry path) in place; a record without a
// blob is recoverable, a blob without a record is not.
func (s *documentService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if !policy.Allows(actor.Role, policy.OpDelete) {
		return ErrForbidden
	}

	scope := policy.Scope(actor)
	doc, err := s.repo.FindByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	if doc.HasFile() {
		if err := s.store.Delete(ctx, *doc.FilePath); err != nil {
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	if err := s.repo.Delete(ctx, id, scope); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// DownloadRaw streams the stored file bytes. A document without a file, or a
// record whose blob has gone missing, reads as not found.
func (s *documentService) DownloadRaw(ctx context.Context, actor policy.Actor, id string) (io.ReadCloser, *model.Document, error) {
	return s.openFile(ctx, actor, id)
}

// DownloadText fetches the stored file and extracts plain text from it based
// on the recorded media type.
func (s *documentService) DownloadText(ctx context.Context, actor policy.Actor, id string) (string, *model.Document, error) {
	rc, doc, err := s.openFile(ctx, actor, id)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	text, err := extract.Text(ctx, data, *doc.FileType)
	if err != nil {
		return "", nil, err
	}
	return text, doc, nil
}

// DownloadURL returns a time-limited pre-signed URL for the stored file, so
// large downloads can bypass the API process. Presigning does not touch the
// object, so existence is checked first to keep the not-found contract.
func (s *documentService) DownloadURL(ctx context.Context, actor policy.Actor, id string, expiry time.Duration) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	if !policy.Allows(actor.Role, policy.OpDownload) {
		return "", ErrForbidden
	}

	doc, err := s.repo.FindByID(ctx, id, policy.Scope(actor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get document: %w", err)
	}
	if !doc.HasFile() {
		return "", ErrNotFound
	}

	exists, err := s.store.Exists(ctx, *doc.FilePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !exists {
		return "", ErrNotFound
	}

	u, err := s.store.PresignGet(ctx, *doc.FilePath, expiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return u, nil
}

func (s *documentService) openFile(ctx context.Context, actor policy.Actor, id string) (io.ReadCloser, *model.Document, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	if !policy.Allows(actor.Role, policy.OpDownload) {
		return nil, nil, ErrForbidden
	}

	doc, err := s.repo.FindByID(ctx, id, policy.Scope(actor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get document: %w", err)
	}
	if !doc.HasFile() {
		return nil, nil, ErrNotFound
	}

	rc, _, err := s.store.Get(ctx, *doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return rc, doc, nil
}
