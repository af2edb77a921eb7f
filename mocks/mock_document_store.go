package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pagehistory/internal/domain"
)

// MockDocumentStore is a mock implementation of port.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Create(ctx context.Context, page *domain.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockDocumentStore) GetByPath(ctx context.Context, path, locale string) (*domain.Page, error) {
	args := m.Called(ctx, path, locale)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page), args.Error(1)
}

func (m *MockDocumentStore) GetAuthor(ctx context.Context, pageID int64) (*domain.PageAuthor, error) {
	args := m.Called(ctx, pageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PageAuthor), args.Error(1)
}

func (m *MockDocumentStore) GetUpdatedAt(ctx context.Context, pageID int64) (time.Time, error) {
	args := m.Called(ctx, pageID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockDocumentStore) Render(ctx context.Context, page *domain.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockDocumentStore) RebuildTree(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) GetRenderedContent(ctx context.Context, pageID int64) (string, error) {
	args := m.Called(ctx, pageID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) SanitizeToPlainText(html string) string {
	args := m.Called(html)
	return args.String(0)
}

// MockContentRenderer is a mock implementation of port.ContentRenderer.
type MockContentRenderer struct {
	mock.Mock
}

func (m *MockContentRenderer) Render(contentType, content string) (string, error) {
	args := m.Called(contentType, content)
	return args.String(0), args.Error(1)
}

func (m *MockContentRenderer) PlainText(html string) string {
	args := m.Called(html)
	return args.String(0)
}
