package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

type linkRepo struct {
	db *sqlx.DB
}

// NewLinkRepo creates a new PostgreSQL-backed LinkGraph.
func NewLinkRepo(db *sqlx.DB) port.LinkGraph {
	return &linkRepo{db: db}
}

// Reconnect points dangling links at the page now living at locale/path, or
// detaches them when the page went away.
func (r *linkRepo) Reconnect(ctx context.Context, locale, path string, mode domain.ReconnectMode) error {
	var err error
	switch mode {
	case domain.ReconnectDelete:
		_, err = r.db.ExecContext(ctx,
			`UPDATE page_links SET target_id = NULL WHERE locale_code = $1 AND path = $2`,
			locale, path)
	case domain.ReconnectCreate, domain.ReconnectMove:
		_, err = r.db.ExecContext(ctx,
			`UPDATE page_links pl SET target_id = p.id
			 FROM pages p
			 WHERE p.locale_code = $1 AND p.path = $2
			   AND pl.locale_code = $1 AND pl.path = $2`,
			locale, path)
	default:
		return fmt.Errorf("linkRepo.Reconnect: unknown mode %q", mode)
	}
	if err != nil {
		return fmt.Errorf("linkRepo.Reconnect: %w", err)
	}
	return nil
}
