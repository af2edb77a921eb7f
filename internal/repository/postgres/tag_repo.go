package postgres

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jmoiron/sqlx"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

type tagRepo struct {
	db *sqlx.DB
}

// NewTagRepo creates a new PostgreSQL-backed TagService.
func NewTagRepo(db *sqlx.DB) port.TagService {
	return &tagRepo{db: db}
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen.Contains(t) {
			continue
		}
		seen.Add(t)
		out = append(out, t)
	}
	return out
}

func (r *tagRepo) AssociateTags(ctx context.Context, tags []string, page *domain.Page) error {
	tags = normalizeTags(tags)
	if len(tags) == 0 {
		return nil
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		tagIDs, err := upsertTags(ctx, tx, tags)
		if err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO page_tags (page_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				page.ID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tagRepo.AssociateTags: %w", err)
	}
	return nil
}
