package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagehistory/internal/domain"
)

// MockTagService is a mock implementation of port.TagService.
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) AssociateTags(ctx context.Context, tags []string, page *domain.Page) error {
	args := m.Called(ctx, tags, page)
	return args.Error(0)
}

// MockSearchIndex is a mock implementation of port.SearchIndex.
type MockSearchIndex struct {
	mock.Mock
}

func (m *MockSearchIndex) Created(ctx context.Context, page *domain.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

// MockStorageMirror is a mock implementation of port.StorageMirror.
type MockStorageMirror struct {
	mock.Mock
}

func (m *MockStorageMirror) PageEvent(ctx context.Context, event domain.PageEvent, page *domain.Page) error {
	args := m.Called(ctx, event, page)
	return args.Error(0)
}

// MockLinkGraph is a mock implementation of port.LinkGraph.
type MockLinkGraph struct {
	mock.Mock
}

func (m *MockLinkGraph) Reconnect(ctx context.Context, locale, path string, mode domain.ReconnectMode) error {
	args := m.Called(ctx, locale, path, mode)
	return args.Error(0)
}
