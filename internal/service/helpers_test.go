package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

// memoryVersionRepo is an in-memory port.VersionRepository with the same
// ordering and not-found behavior as the postgres implementation.
type memoryVersionRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*domain.VersionRecord
	authors map[int64]string
}

var _ port.VersionRepository = (*memoryVersionRepo)(nil)

func newMemoryVersionRepo() *memoryVersionRepo {
	return &memoryVersionRepo{
		records: make(map[int64]*domain.VersionRecord),
		authors: map[int64]string{1: "Alice", 2: "Bob", 3: "Carol"},
	}
}

func (r *memoryVersionRepo) Create(_ context.Context, rec *domain.VersionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

func (r *memoryVersionRepo) Update(_ context.Context, rec *domain.VersionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[rec.ID]
	if !ok {
		return domain.ErrVersionNotFound
	}
	existing.Content = rec.Content
	existing.ContentType = rec.ContentType
	existing.Description = rec.Description
	existing.EditorKey = rec.EditorKey
	existing.IsPrivate = rec.IsPrivate
	existing.IsPublished = rec.IsPublished
	existing.LocaleCode = rec.LocaleCode
	existing.Path = rec.Path
	existing.PublishEndDate = rec.PublishEndDate
	existing.PublishStartDate = rec.PublishStartDate
	existing.Title = rec.Title
	existing.Action = rec.Action
	existing.VersionDate = rec.VersionDate
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryVersionRepo) GetByID(_ context.Context, id int64) (*domain.VersionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	out := *rec
	return &out, nil
}

func (r *memoryVersionRepo) GetDetail(_ context.Context, pageID, versionID int64) (*domain.VersionDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[versionID]
	if !ok || rec.PageID == nil || *rec.PageID != pageID {
		return nil, nil
	}
	return &domain.VersionDetail{
		VersionID:  rec.ID,
		PageID:     rec.PageID,
		AuthorID:   rec.AuthorID,
		AuthorName: r.authors[rec.AuthorID],
		Path:       rec.Path,
		Title:      rec.Title,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (r *memoryVersionRepo) history(pageID int64) []domain.HistoryRow {
	rows := []domain.HistoryRow{}
	for _, rec := range r.records {
		if rec.PageID == nil || *rec.PageID != pageID {
			continue
		}
		rows = append(rows, domain.HistoryRow{
			ID:            rec.ID,
			Path:          rec.Path,
			AuthorID:      rec.AuthorID,
			AuthorName:    r.authors[rec.AuthorID],
			Action:        rec.Action,
			AdminApproval: rec.AdminApproval,
			VersionDate:   rec.VersionDate,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].VersionDate.Equal(rows[j].VersionDate) {
			return rows[i].VersionDate.After(rows[j].VersionDate)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows
}

func (r *memoryVersionRepo) ListByPage(_ context.Context, pageID int64, offset, limit int) ([]domain.HistoryRow, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.history(pageID)
	total := len(rows)
	if offset >= total {
		return []domain.HistoryRow{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

func (r *memoryVersionRepo) GetAt(_ context.Context, pageID int64, offset int) (*domain.HistoryRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.history(pageID)
	if offset >= len(rows) {
		return nil, nil
	}
	row := rows[offset]
	return &row, nil
}

func (r *memoryVersionRepo) ListByAuthor(_ context.Context, authorID int64, others bool) ([]domain.VersionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.VersionSummary{}
	for _, rec := range r.records {
		if (rec.AuthorID == authorID) == others {
			continue
		}
		out = append(out, domain.VersionSummary{ID: rec.ID, AuthorID: rec.AuthorID, Path: rec.Path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryVersionRepo) LinkApproved(_ context.Context, id, pageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.ErrVersionNotFound
	}
	rec.PageID = &pageID
	rec.AdminApproval = true
	return nil
}

func (r *memoryVersionRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, rec := range r.records {
		if rec.VersionDate.Before(cutoff) {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// seed stores a version of pageID without going through the service.
func (r *memoryVersionRepo) seed(pageID, authorID int64, path string, at time.Time) int64 {
	rec := &domain.VersionRecord{
		PageID:      &pageID,
		AuthorID:    authorID,
		Path:        path,
		Title:       path,
		Action:      domain.ActionUpdated,
		VersionDate: at,
	}
	_ = r.Create(context.Background(), rec)
	return rec.ID
}

func (r *memoryVersionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func int64Ptr(v int64) *int64 { return &v }
