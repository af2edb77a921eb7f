package port

import (
	"context"
	"time"

	"pagehistory/internal/domain"
)

// DocumentStore is the live page collaborator used by the approval workflow
// and the trail builder.
type DocumentStore interface {
	// Create inserts page and fills in its ID and timestamps.
	Create(ctx context.Context, page *domain.Page) error
	GetByPath(ctx context.Context, path, locale string) (*domain.Page, error)
	GetAuthor(ctx context.Context, pageID int64) (*domain.PageAuthor, error)
	GetUpdatedAt(ctx context.Context, pageID int64) (time.Time, error)
	// Render converts the page content into its render field.
	Render(ctx context.Context, page *domain.Page) error
	RebuildTree(ctx context.Context) error
	GetRenderedContent(ctx context.Context, pageID int64) (string, error)
	SanitizeToPlainText(html string) string
}

// ContentRenderer turns stored page content into HTML and HTML into plain text.
type ContentRenderer interface {
	Render(contentType, content string) (string, error)
	PlainText(html string) string
}
