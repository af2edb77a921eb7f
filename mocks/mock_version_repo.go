package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pagehistory/internal/domain"
)

// MockVersionRepo is a mock implementation of port.VersionRepository.
type MockVersionRepo struct {
	mock.Mock
}

func (m *MockVersionRepo) Create(ctx context.Context, rec *domain.VersionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockVersionRepo) Update(ctx context.Context, rec *domain.VersionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockVersionRepo) GetByID(ctx context.Context, id int64) (*domain.VersionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionRecord), args.Error(1)
}

func (m *MockVersionRepo) GetDetail(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error) {
	args := m.Called(ctx, pageID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionDetail), args.Error(1)
}

func (m *MockVersionRepo) ListByPage(ctx context.Context, pageID int64, offset, limit int) ([]domain.HistoryRow, int, error) {
	args := m.Called(ctx, pageID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.HistoryRow), args.Int(1), args.Error(2)
}

func (m *MockVersionRepo) GetAt(ctx context.Context, pageID int64, offset int) (*domain.HistoryRow, error) {
	args := m.Called(ctx, pageID, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HistoryRow), args.Error(1)
}

func (m *MockVersionRepo) ListByAuthor(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error) {
	args := m.Called(ctx, authorID, others)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VersionSummary), args.Error(1)
}

func (m *MockVersionRepo) LinkApproved(ctx context.Context, id, pageID int64) error {
	args := m.Called(ctx, id, pageID)
	return args.Error(0)
}

func (m *MockVersionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
