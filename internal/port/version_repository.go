package port

import (
	"context"
	"time"

	"pagehistory/internal/domain"
)

// VersionRepository defines the contract for page version persistence.
type VersionRepository interface {
	// Create inserts rec and fills in its ID and timestamps.
	Create(ctx context.Context, rec *domain.VersionRecord) error
	// Update rewrites the mutable fields of an existing record. Returns
	// domain.ErrVersionNotFound when no row matches rec.ID.
	Update(ctx context.Context, rec *domain.VersionRecord) error
	// GetByID returns domain.ErrVersionNotFound when absent.
	GetByID(ctx context.Context, id int64) (*domain.VersionRecord, error)
	// GetDetail returns nil without error when no version of pageID has versionID.
	GetDetail(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error)
	// ListByPage returns one window of history, newest first, and the page's total row count.
	ListByPage(ctx context.Context, pageID int64, offset, limit int) ([]domain.HistoryRow, int, error)
	// GetAt returns the row at offset in the same ordering as ListByPage, or nil.
	GetAt(ctx context.Context, pageID int64, offset int) (*domain.HistoryRow, error)
	ListByAuthor(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error)
	// LinkApproved marks a draft approved and attaches it to pageID.
	LinkApproved(ctx context.Context, id, pageID int64) error
	// DeleteOlderThan removes every record whose version date precedes cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
