package port

import (
	"context"

	"pagehistory/internal/domain"
)

// TagService associates tag names with a live page.
type TagService interface {
	AssociateTags(ctx context.Context, tags []string, page *domain.Page) error
}

// SearchIndex receives pages once they are rendered and sanitized.
type SearchIndex interface {
	Created(ctx context.Context, page *domain.Page) error
}

// StorageMirror replicates page events to an external store.
type StorageMirror interface {
	PageEvent(ctx context.Context, event domain.PageEvent, page *domain.Page) error
}

// LinkGraph re-resolves links that point at a locale/path pair.
type LinkGraph interface {
	Reconnect(ctx context.Context, locale, path string, mode domain.ReconnectMode) error
}
