package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pagehistory/internal/domain"
	"pagehistory/internal/service"
	"pagehistory/mocks"
)

const trailPageID = int64(7)

var trailEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func setupTrailService(repo *memoryVersionRepo, creator int64) (service.TrailService, *mocks.MockDocumentStore) {
	pages := new(mocks.MockDocumentStore)
	pages.On("GetAuthor", mock.Anything, trailPageID).
		Return(&domain.PageAuthor{AuthorID: 2, CreatorID: creator}, nil).Maybe()
	return service.NewTrailService(repo, &service.Collaborators{Pages: pages}), pages
}

func strPtr(s string) *string { return &s }

// --- Build ---

func TestTrailService_Build_Initial(t *testing.T) {
	repo := newMemoryVersionRepo()
	id := repo.seed(trailPageID, 1, "a/b", trailEpoch)
	svc, _ := setupTrailService(repo, 1)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 100)
	require.NoError(t, err)

	require.Len(t, trail.Entries, 1)
	assert.Equal(t, 1, trail.Total)
	entry := trail.Entries[0]
	assert.Equal(t, id, entry.VersionID)
	assert.Equal(t, domain.ActionTypeInitial, entry.ActionType)
	assert.Nil(t, entry.ValueBefore)
	assert.Nil(t, entry.ValueAfter)
	assert.Equal(t, "Alice", entry.AuthorName)
}

func TestTrailService_Build_MoveAndEdit(t *testing.T) {
	repo := newMemoryVersionRepo()
	repo.seed(trailPageID, 1, "a/b", trailEpoch)
	repo.seed(trailPageID, 1, "a/c", trailEpoch.Add(time.Hour))
	repo.seed(trailPageID, 2, "a/d", trailEpoch.Add(2*time.Hour))
	repo.seed(trailPageID, 1, "a/d", trailEpoch.Add(3*time.Hour))
	svc, _ := setupTrailService(repo, 1)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 100)
	require.NoError(t, err)
	require.Len(t, trail.Entries, 4)

	assert.Equal(t, domain.ActionTypeInitial, trail.Entries[0].ActionType)

	assert.Equal(t, domain.ActionTypeMove, trail.Entries[1].ActionType)
	assert.Equal(t, strPtr("a/b"), trail.Entries[1].ValueBefore)
	assert.Equal(t, strPtr("a/c"), trail.Entries[1].ValueAfter)

	// path change by someone other than the original author
	assert.Equal(t, domain.ActionTypeEdit, trail.Entries[2].ActionType)
	assert.Nil(t, trail.Entries[2].ValueBefore)

	assert.Equal(t, domain.ActionTypeEdit, trail.Entries[3].ActionType)
	assert.Nil(t, trail.Entries[3].ValueAfter)

	for i := 1; i < len(trail.Entries); i++ {
		assert.True(t, trail.Entries[i].VersionDate.After(trail.Entries[i-1].VersionDate))
	}
}

func TestTrailService_Build_OldestByOtherAuthorIsEdit(t *testing.T) {
	repo := newMemoryVersionRepo()
	repo.seed(trailPageID, 3, "a/b", trailEpoch)
	svc, _ := setupTrailService(repo, 1)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 10)
	require.NoError(t, err)
	require.Len(t, trail.Entries, 1)
	assert.Equal(t, domain.ActionTypeEdit, trail.Entries[0].ActionType)
}

func TestTrailService_Build_CreatorFallsBackToAuthor(t *testing.T) {
	repo := newMemoryVersionRepo()
	repo.seed(trailPageID, 2, "a/b", trailEpoch)
	svc, _ := setupTrailService(repo, 0)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionTypeInitial, trail.Entries[0].ActionType)
}

func TestTrailService_Build_BoundaryMatchesUnpaginated(t *testing.T) {
	repo := newMemoryVersionRepo()
	for i := 0; i < 101; i++ {
		author := int64(1)
		if i%3 == 2 {
			author = 2
		}
		path := fmt.Sprintf("docs/v%d", (i+1)/2)
		repo.seed(trailPageID, author, path, trailEpoch.Add(time.Duration(i)*time.Minute))
	}
	svc, _ := setupTrailService(repo, 1)
	ctx := context.Background()

	full, err := svc.Build(ctx, trailPageID, 0, 200)
	require.NoError(t, err)
	require.Len(t, full.Entries, 101)

	window, err := svc.Build(ctx, trailPageID, 0, 100)
	require.NoError(t, err)
	require.Len(t, window.Entries, 100)
	assert.Equal(t, 101, window.Total)

	assert.Equal(t, full.Entries[1:], window.Entries)

	// the oldest row of the window moved relative to the lookahead row
	oldest := window.Entries[0]
	assert.Equal(t, domain.ActionTypeMove, oldest.ActionType)
	assert.Equal(t, strPtr("docs/v0"), oldest.ValueBefore)
	assert.Equal(t, strPtr("docs/v1"), oldest.ValueAfter)

	second, err := svc.Build(ctx, trailPageID, 1, 100)
	require.NoError(t, err)
	require.Len(t, second.Entries, 1)
	assert.Equal(t, full.Entries[0], second.Entries[0])
	assert.Equal(t, domain.ActionTypeInitial, second.Entries[0].ActionType)
}

func TestTrailService_Build_WindowEndsExactlyAtOldest(t *testing.T) {
	repo := new(mocks.MockVersionRepo)
	pages := new(mocks.MockDocumentStore)
	svc := service.NewTrailService(repo, &service.Collaborators{Pages: pages})

	rows := make([]domain.HistoryRow, 100)
	for i := range rows {
		// newest first; the last row is the page's first version
		rows[i] = domain.HistoryRow{
			ID:          int64(100 - i),
			AuthorID:    1,
			Path:        "docs/page",
			VersionDate: trailEpoch.Add(time.Duration(99-i) * time.Minute),
		}
	}
	pages.On("GetAuthor", mock.Anything, trailPageID).Return(&domain.PageAuthor{AuthorID: 1}, nil)
	repo.On("ListByPage", mock.Anything, trailPageID, 0, 100).Return(rows, 100, nil).Once()
	repo.On("ListByPage", mock.Anything, trailPageID, 500, 100).Return([]domain.HistoryRow{}, 100, nil).Once()

	trail, err := svc.Build(context.Background(), trailPageID, 0, 100)
	require.NoError(t, err)
	require.Len(t, trail.Entries, 100)
	assert.Equal(t, 100, trail.Total)
	assert.Equal(t, int64(1), trail.Entries[0].VersionID)
	assert.Equal(t, domain.ActionTypeInitial, trail.Entries[0].ActionType)
	assert.Equal(t, domain.ActionTypeEdit, trail.Entries[99].ActionType)

	past, err := svc.Build(context.Background(), trailPageID, 5, 100)
	require.NoError(t, err)
	assert.Empty(t, past.Entries)
	assert.Equal(t, 100, past.Total)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetAt", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrailService_Build_Idempotent(t *testing.T) {
	repo := newMemoryVersionRepo()
	for i := 0; i < 12; i++ {
		repo.seed(trailPageID, int64(1+i%2), fmt.Sprintf("p/%d", i%4), trailEpoch.Add(time.Duration(i)*time.Hour))
	}
	svc, _ := setupTrailService(repo, 1)

	first, err := svc.Build(context.Background(), trailPageID, 1, 5)
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), trailPageID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTrailService_Build_SameVersionDateOrderedByID(t *testing.T) {
	repo := newMemoryVersionRepo()
	a := repo.seed(trailPageID, 1, "x", trailEpoch)
	b := repo.seed(trailPageID, 1, "y", trailEpoch)
	svc, _ := setupTrailService(repo, 1)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 10)
	require.NoError(t, err)
	require.Len(t, trail.Entries, 2)
	assert.Equal(t, a, trail.Entries[0].VersionID)
	assert.Equal(t, b, trail.Entries[1].VersionID)
	assert.Equal(t, domain.ActionTypeMove, trail.Entries[1].ActionType)
}

func TestTrailService_Build_EmptyHistory(t *testing.T) {
	svc, _ := setupTrailService(newMemoryVersionRepo(), 1)

	trail, err := svc.Build(context.Background(), trailPageID, 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, trail.Entries)
	assert.Empty(t, trail.Entries)
	assert.Equal(t, 0, trail.Total)
}

func TestTrailService_Build_DefaultWindow(t *testing.T) {
	repo := new(mocks.MockVersionRepo)
	pages := new(mocks.MockDocumentStore)
	svc := service.NewTrailService(repo, &service.Collaborators{Pages: pages})

	pages.On("GetAuthor", mock.Anything, int64(4)).Return(&domain.PageAuthor{AuthorID: 1}, nil)
	repo.On("ListByPage", mock.Anything, int64(4), 0, service.DefaultTrailSize).Return([]domain.HistoryRow{}, 0, nil)

	trail, err := svc.Build(context.Background(), 4, -3, 0)
	require.NoError(t, err)
	assert.Empty(t, trail.Entries)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetAt", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrailService_Build_PageMissing(t *testing.T) {
	repo := newMemoryVersionRepo()
	repo.seed(trailPageID, 1, "a/b", trailEpoch)
	pages := new(mocks.MockDocumentStore)
	pages.On("GetAuthor", mock.Anything, trailPageID).Return(nil, domain.ErrPageNotFound)
	svc := service.NewTrailService(repo, &service.Collaborators{Pages: pages})

	trail, err := svc.Build(context.Background(), trailPageID, 0, 10)
	require.NoError(t, err)
	require.Len(t, trail.Entries, 1)
	assert.Equal(t, domain.ActionTypeEdit, trail.Entries[0].ActionType)
}

func TestTrailService_Build_Errors(t *testing.T) {
	repo := new(mocks.MockVersionRepo)
	pages := new(mocks.MockDocumentStore)
	svc := service.NewTrailService(repo, &service.Collaborators{Pages: pages})

	pages.On("GetAuthor", mock.Anything, int64(1)).Return(nil, errors.New("conn reset")).Once()
	_, err := svc.Build(context.Background(), 1, 0, 10)
	assert.ErrorContains(t, err, "conn reset")

	pages.On("GetAuthor", mock.Anything, int64(1)).Return(&domain.PageAuthor{AuthorID: 1}, nil)
	repo.On("ListByPage", mock.Anything, int64(1), 0, 10).Return([]domain.HistoryRow{{ID: 1}}, 11, nil)
	repo.On("GetAt", mock.Anything, int64(1), 10).Return(nil, errors.New("lookahead failed"))
	_, err = svc.Build(context.Background(), 1, 0, 10)
	assert.ErrorContains(t, err, "lookahead failed")
}

// --- ClassifyTrail ---

func TestClassifyTrail_NoLookaheadBeforeStart(t *testing.T) {
	rows := []domain.HistoryRow{{ID: 5, AuthorID: 1, Path: "a"}}

	entries := service.ClassifyTrail(rows, nil, 1, false)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionTypeMove, entries[0].ActionType)
	assert.Equal(t, strPtr(""), entries[0].ValueBefore)
	assert.Equal(t, strPtr("a"), entries[0].ValueAfter)
}

func TestClassifyTrail_LookaheadSamePath(t *testing.T) {
	rows := []domain.HistoryRow{{ID: 5, AuthorID: 1, Path: "a"}}
	prev := &domain.HistoryRow{ID: 4, AuthorID: 1, Path: "a"}

	entries := service.ClassifyTrail(rows, prev, 1, false)
	assert.Equal(t, domain.ActionTypeEdit, entries[0].ActionType)
}
