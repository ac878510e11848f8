package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/extract"
	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/repository"
	repomocks "docvault/internal/repository/mocks"
	"docvault/internal/storage"
	storagemocks "docvault/internal/storage/mocks"
)

var (
	adminActor  = policy.Actor{ID: "11111111-1111-1111-1111-111111111111", Role: model.RoleAdmin}
	editorActor = policy.Actor{ID: "22222222-2222-2222-2222-222222222222", Role: model.RoleEditor}
	viewerActor = policy.Actor{ID: "33333333-3333-3333-3333-333333333333", Role: model.RoleViewer}
)

func newDocumentServiceUnderTest(t *testing.T) (DocumentService, *repomocks.MockDocumentRepository, *storagemocks.MockStorage) {
	t.Helper()
	repo := new(repomocks.MockDocumentRepository)
	store := new(storagemocks.MockStorage)
	return NewDocumentService(store, repo), repo, store
}

func docWithFile(id, ownerID string) *model.Document {
	name := "report.pdf"
	ctype := "application/pdf"
	path := "documents/" + id + ".pdf"
	size := int64(1024)
	return &model.Document{
		ID:       id,
		Title:    "Report",
		FileName: &name,
		FileType: &ctype,
		FilePath: &path,
		FileSize: &size,
		OwnerID:  ownerID,
	}
}

func TestDocumentCreate_ViewerForbidden(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	_, err := svc.Create(context.Background(), viewerActor, CreateDocumentInput{Title: "t", Description: "d"})

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentCreate_Validation(t *testing.T) {
	svc, _, _ := newDocumentServiceUnderTest(t)

	_, err := svc.Create(context.Background(), editorActor, CreateDocumentInput{Title: "  ", Description: "d"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), editorActor, CreateDocumentInput{Title: "t", Description: "   "})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestDocumentCreate_DescriptionOnly(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*model.Document)
			assert.Equal(t, "notes", doc.Title)
			assert.Equal(t, editorActor.ID, doc.OwnerID)
			assert.False(t, doc.HasFile())
		}).
		Return(&model.Document{ID: "d1", Title: "notes", OwnerID: editorActor.ID}, nil)

	doc, err := svc.Create(context.Background(), editorActor, CreateDocumentInput{Title: "notes", Description: "plain text notes"})

	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestDocumentCreate_WithFile(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	content := []byte("%PDF-1.4 ...")
	store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			key := args.String(1)
			assert.True(t, strings.HasPrefix(key, "documents/"))
			assert.True(t, strings.HasSuffix(key, ".pdf"))
		}).
		Return(storage.ObjectInfo{Size: int64(len(content))}, nil)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*model.Document)
			require.True(t, doc.HasFile())
			assert.Equal(t, "report.pdf", *doc.FileName)
			assert.Equal(t, "application/pdf", *doc.FileType)
			assert.Equal(t, int64(len(content)), *doc.FileSize)
		}).
		Return(docWithFile("d2", editorActor.ID), nil)

	doc, err := svc.Create(context.Background(), editorActor, CreateDocumentInput{
		Title: "Report",
		File: &FilePayload{
			Reader:      bytes.NewReader(content),
			Name:        "report.pdf",
			ContentType: "application/pdf",
			Size:        int64(len(content)),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "d2", doc.ID)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDocumentCreate_RollsBackBlobOnDBFailure(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	store.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Size: 3}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	store.On("Delete", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	_, err := svc.Create(context.Background(), editorActor, CreateDocumentInput{
		Title: "t",
		File:  &FilePayload{Reader: bytes.NewReader([]byte("abc")), Name: "a.txt", ContentType: "text/plain", Size: 3},
	})

	require.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, mock.AnythingOfType("string"))
}

func TestDocumentList_ScopeForcedForNonAdmin(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	// An editor asking for someone else's documents still only gets their own.
	repo.On("FindAll", mock.Anything, editorActor.ID).Return([]model.Document{}, nil)

	_, err := svc.List(context.Background(), editorActor, adminActor.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDocumentList_AdminHonorsRequestedOwner(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	repo.On("FindAll", mock.Anything, editorActor.ID).Return([]model.Document{{ID: "d1"}}, nil)

	docs, err := svc.List(context.Background(), adminActor, editorActor.ID)

	require.NoError(t, err)
	assert.Len(t, docs, 1)
	repo.AssertExpectations(t)
}

func TestDocumentGet_OtherOwnerReadsAsNotFound(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	// The row exists but belongs to someone else; the owner filter hides it
	// and the caller cannot tell that from a nonexistent id.
	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).Return(nil, sql.ErrNoRows)

	_, err := svc.Get(context.Background(), editorActor, "d1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentGet_AdminUnscoped(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	repo.On("FindByID", mock.Anything, "d1", "").Return(docWithFile("d1", editorActor.ID), nil)

	doc, err := svc.Get(context.Background(), adminActor, "d1")

	require.NoError(t, err)
	assert.Equal(t, editorActor.ID, doc.OwnerID)
}

func TestDocumentUpdate_ViewerForbidden(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	title := "new"
	_, err := svc.Update(context.Background(), viewerActor, "d1", UpdateDocumentInput{Title: &title})

	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentUpdate_Validation(t *testing.T) {
	svc, _, _ := newDocumentServiceUnderTest(t)

	_, err := svc.Update(context.Background(), editorActor, "d1", UpdateDocumentInput{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	blank := "   "
	_, err = svc.Update(context.Background(), editorActor, "d1", UpdateDocumentInput{Title: &blank})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestDocumentUpdate_AdminKeepsOwner(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	title := "renamed"
	repo.On("Update", mock.Anything, "d1", "", repository.DocumentPatch{Title: &title}).
		Return(&model.Document{ID: "d1", Title: "renamed", OwnerID: editorActor.ID}, nil)

	doc, err := svc.Update(context.Background(), adminActor, "d1", UpdateDocumentInput{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, editorActor.ID, doc.OwnerID)
	repo.AssertExpectations(t)
}

func TestDocumentUpdate_OtherOwnerReadsAsNotFound(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	title := "renamed"
	repo.On("Update", mock.Anything, "d1", editorActor.ID, mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := svc.Update(context.Background(), editorActor, "d1", UpdateDocumentInput{Title: &title})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentDelete_RemovesBlobThenRow(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", editorActor.ID)
	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).Return(doc, nil)
	store.On("Delete", mock.Anything, *doc.FilePath).Return(nil)
	repo.On("Delete", mock.Anything, "d1", editorActor.ID).Return(nil)

	err := svc.Delete(context.Background(), editorActor, "d1")

	require.NoError(t, err)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDocumentDelete_KeepsRowWhenBlobDeleteFails(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", editorActor.ID)
	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).Return(doc, nil)
	store.On("Delete", mock.Anything, *doc.FilePath).Return(errors.New("connection refused"))

	err := svc.Delete(context.Background(), editorActor, "d1")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentDelete_NoFileSkipsStorage(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).
		Return(&model.Document{ID: "d1", OwnerID: editorActor.ID}, nil)
	repo.On("Delete", mock.Anything, "d1", editorActor.ID).Return(nil)

	err := svc.Delete(context.Background(), editorActor, "d1")

	require.NoError(t, err)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDocumentDownloadRaw_NoFileReadsAsNotFound(t *testing.T) {
	svc, repo, _ := newDocumentServiceUnderTest(t)

	repo.On("FindByID", mock.Anything, "d1", viewerActor.ID).
		Return(&model.Document{ID: "d1", OwnerID: viewerActor.ID}, nil)

	_, _, err := svc.DownloadRaw(context.Background(), viewerActor, "d1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentDownloadRaw_MissingBlobReadsAsNotFound(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", viewerActor.ID)
	repo.On("FindByID", mock.Anything, "d1", viewerActor.ID).Return(doc, nil)
	store.On("Get", mock.Anything, *doc.FilePath).
		Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

	_, _, err := svc.DownloadRaw(context.Background(), viewerActor, "d1")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentDownloadRaw_StorageErrorIsNotNotFound(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", viewerActor.ID)
	repo.On("FindByID", mock.Anything, "d1", viewerActor.ID).Return(doc, nil)
	store.On("Get", mock.Anything, *doc.FilePath).
		Return(nil, storage.ObjectInfo{}, errors.New("i/o timeout"))

	_, _, err := svc.DownloadRaw(context.Background(), viewerActor, "d1")

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDocumentDownloadURL(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", editorActor.ID)
	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).Return(doc, nil)
	store.On("Exists", mock.Anything, *doc.FilePath).Return(true, nil)
	store.On("PresignGet", mock.Anything, *doc.FilePath, 10*time.Minute).
		Return("https://minio.local/bucket/documents/d1.pdf?sig=abc", nil)

	u, err := svc.DownloadURL(context.Background(), editorActor, "d1", 10*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, u, "sig=abc")
	store.AssertExpectations(t)
}

func TestDocumentDownloadURL_MissingBlobReadsAsNotFound(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	doc := docWithFile("d1", editorActor.ID)
	repo.On("FindByID", mock.Anything, "d1", editorActor.ID).Return(doc, nil)
	store.On("Exists", mock.Anything, *doc.FilePath).Return(false, nil)

	_, err := svc.DownloadURL(context.Background(), editorActor, "d1", 10*time.Minute)

	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertNotCalled(t, "PresignGet", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentDownloadText_PlainText(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	ctype := "text/plain"
	path := "documents/d1.txt"
	doc := &model.Document{ID: "d1", OwnerID: viewerActor.ID, FileType: &ctype, FilePath: &path}
	repo.On("FindByID", mock.Anything, "d1", viewerActor.ID).Return(doc, nil)
	store.On("Get", mock.Anything, path).
		Return(io.NopCloser(strings.NewReader("hello")), storage.ObjectInfo{Size: 5}, nil)

	text, got, err := svc.DownloadText(context.Background(), viewerActor, "d1")

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "d1", got.ID)
}

func TestDocumentDownloadText_UnsupportedFormat(t *testing.T) {
	svc, repo, store := newDocumentServiceUnderTest(t)

	ctype := "image/png"
	path := "documents/d1.png"
	doc := &model.Document{ID: "d1", OwnerID: viewerActor.ID, FileType: &ctype, FilePath: &path}
	repo.On("FindByID", mock.Anything, "d1", viewerActor.ID).Return(doc, nil)
	store.On("Get", mock.Anything, path).
		Return(io.NopCloser(bytes.NewReader([]byte{0x89, 0x50})), storage.ObjectInfo{Size: 2}, nil)

	_, _, err := svc.DownloadText(context.Background(), viewerActor, "d1")

	var unsupported *extract.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image/png", unsupported.MediaType)
}
