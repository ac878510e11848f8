package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, actor policy.Actor, in service.CreateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, actor policy.Actor, requestedOwnerID string) ([]model.Document, error) {
	args := m.Called(ctx, actor, requestedOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, actor policy.Actor, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, actor policy.Actor, id string, in service.UpdateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockDocumentService) DownloadRaw(ctx context.Context, actor policy.Actor, id string) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, actor, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, actor policy.Actor, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, actor, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) DownloadText(ctx context.Context, actor policy.Actor, id string) (string, *model.Document, error) {
	args := m.Called(ctx, actor, id)
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return args.String(0), doc, args.Error(2)
}
