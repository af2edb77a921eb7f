package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

const versionColumns = `id, page_id, author_id, editor_key, locale_code, path, hash, title,
	description, content, content_type, is_private, is_published,
	publish_start_date, publish_end_date, action, version_date, admin_approval,
	created_at, updated_at`

const historyRowSelect = `SELECT ph.id, ph.path, ph.author_id, u.name AS author_name,
	ph.action, ph.admin_approval, ph.version_date
	FROM page_history ph
	INNER JOIN users u ON u.id = ph.author_id
	WHERE ph.page_id = $1
	ORDER BY ph.version_date DESC, ph.id DESC`

type versionRepo struct {
	db *sqlx.DB
}

// NewVersionRepo creates a new PostgreSQL-backed VersionRepository.
func NewVersionRepo(db *sqlx.DB) port.VersionRepository {
	return &versionRepo{db: db}
}

func (r *versionRepo) Create(ctx context.Context, rec *domain.VersionRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO page_history (
				page_id, author_id, editor_key, locale_code, path, hash, title,
				description, content, content_type, is_private, is_published,
				publish_start_date, publish_end_date, action, version_date, admin_approval,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7,
				$8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17,
				$18, $19
			) RETURNING id`,
			rec.PageID, rec.AuthorID, rec.EditorKey, rec.LocaleCode, rec.Path, rec.Hash, rec.Title,
			rec.Description, rec.Content, rec.ContentType, rec.IsPrivate, rec.IsPublished,
			rec.PublishStartDate, rec.PublishEndDate, rec.Action, rec.VersionDate, rec.AdminApproval,
			rec.CreatedAt, rec.UpdatedAt).Scan(&rec.ID)
		if err != nil {
			return err
		}

		tags := normalizeTags(rec.Tags)
		if len(tags) == 0 {
			return nil
		}
		tagIDs, err := upsertTags(ctx, tx, tags)
		if err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO page_history_tags (page_history_id, tag_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`, rec.ID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("versionRepo.Create: %w", err)
	}
	return nil
}

func (r *versionRepo) Update(ctx context.Context, rec *domain.VersionRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE page_history SET
			content = $1, content_type = $2, description = $3, editor_key = $4,
			is_private = $5, is_published = $6, locale_code = $7, path = $8,
			publish_end_date = $9, publish_start_date = $10, title = $11,
			action = $12, version_date = $13, updated_at = $14
		 WHERE id = $15`,
		rec.Content, rec.ContentType, rec.Description, rec.EditorKey,
		rec.IsPrivate, rec.IsPublished, rec.LocaleCode, rec.Path,
		rec.PublishEndDate, rec.PublishStartDate, rec.Title,
		rec.Action, rec.VersionDate, rec.UpdatedAt,
		rec.ID)
	if err != nil {
		return fmt.Errorf("versionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *versionRepo) GetByID(ctx context.Context, id int64) (*domain.VersionRecord, error) {
	var rec domain.VersionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT "+versionColumns+" FROM page_history WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("versionRepo.GetByID: %w", err)
	}

	tags := []string{}
	err = r.db.SelectContext(ctx, &tags,
		`SELECT t.tag FROM tags t
		 INNER JOIN page_history_tags pht ON pht.tag_id = t.id
		 WHERE pht.page_history_id = $1
		 ORDER BY t.tag`, id)
	if err != nil {
		return nil, fmt.Errorf("versionRepo.GetByID tags: %w", err)
	}
	rec.Tags = tags
	return &rec, nil
}

func (r *versionRepo) GetDetail(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error) {
	var detail domain.VersionDetail
	err := r.db.GetContext(ctx, &detail,
		`SELECT ph.id AS version_id, ph.page_id, ph.author_id, u.name AS author_name,
			ph.editor_key AS editor, ph.locale_code AS locale, ph.path, ph.title,
			ph.description, ph.content, ph.content_type, ph.is_private, ph.is_published,
			ph.publish_start_date, ph.publish_end_date, ph.action, ph.version_date, ph.created_at
		 FROM page_history ph
		 INNER JOIN users u ON u.id = ph.author_id
		 WHERE ph.id = $1 AND ph.page_id = $2`,
		versionID, pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("versionRepo.GetDetail: %w", err)
	}
	return &detail, nil
}

func (r *versionRepo) ListByPage(ctx context.Context, pageID int64, offset, limit int) ([]domain.HistoryRow, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM page_history ph
		 INNER JOIN users u ON u.id = ph.author_id
		 WHERE ph.page_id = $1`, pageID)
	if err != nil {
		return nil, 0, fmt.Errorf("versionRepo.ListByPage count: %w", err)
	}

	rows := []domain.HistoryRow{}
	err = r.db.SelectContext(ctx, &rows, historyRowSelect+" LIMIT $2 OFFSET $3", pageID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("versionRepo.ListByPage: %w", err)
	}
	return rows, total, nil
}

func (r *versionRepo) GetAt(ctx context.Context, pageID int64, offset int) (*domain.HistoryRow, error) {
	var row domain.HistoryRow
	err := r.db.GetContext(ctx, &row, historyRowSelect+" LIMIT 1 OFFSET $2", pageID, offset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("versionRepo.GetAt: %w", err)
	}
	return &row, nil
}

func (r *versionRepo) ListByAuthor(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error) {
	op := "="
	if others {
		op = "<>"
	}

	versions := []domain.VersionSummary{}
	err := r.db.SelectContext(ctx, &versions,
		`SELECT ph.id, ph.path, ph.title, ph.content, ph.locale_code AS locale,
			ph.created_at, ph.updated_at, ph.author_id, ph.page_id, ph.admin_approval,
			u.name AS author_name
		 FROM page_history ph
		 INNER JOIN users u ON u.id = ph.author_id
		 WHERE ph.author_id `+op+` $1
		 ORDER BY ph.updated_at DESC, ph.id DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("versionRepo.ListByAuthor: %w", err)
	}
	return versions, nil
}

func (r *versionRepo) LinkApproved(ctx context.Context, id, pageID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE page_history SET page_id = $1, admin_approval = TRUE, updated_at = $2 WHERE id = $3`,
		pageID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("versionRepo.LinkApproved: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *versionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM page_history WHERE version_date < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("versionRepo.DeleteOlderThan: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
