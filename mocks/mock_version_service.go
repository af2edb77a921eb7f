package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagehistory/internal/domain"
	"pagehistory/internal/service"
)

// MockVersionService is a mock implementation of service.VersionService.
type MockVersionService struct {
	mock.Mock
}

func (m *MockVersionService) AddVersion(ctx context.Context, input *service.AddVersionInput) (*domain.VersionRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionRecord), args.Error(1)
}

func (m *MockVersionService) ModifyVersion(ctx context.Context, id int64, input *service.ModifyVersionInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockVersionService) GetVersion(ctx context.Context, id int64) (*domain.VersionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionRecord), args.Error(1)
}

func (m *MockVersionService) GetPageVersion(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error) {
	args := m.Called(ctx, pageID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionDetail), args.Error(1)
}

func (m *MockVersionService) ListAuthorVersions(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error) {
	args := m.Called(ctx, authorID, others)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VersionSummary), args.Error(1)
}

func (m *MockVersionService) Purge(ctx context.Context, retention string) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}
