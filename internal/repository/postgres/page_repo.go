package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

const pageColumns = `id, path, hash, title, description, is_private, is_published,
	publish_start_date, publish_end_date, content, render, toc, content_type,
	editor_key, locale_code, author_id, creator_id, created_at, updated_at`

type pageRepo struct {
	db       *sqlx.DB
	renderer port.ContentRenderer
}

// NewPageRepo creates a PostgreSQL-backed DocumentStore. Rendering and
// sanitizing are delegated to renderer.
func NewPageRepo(db *sqlx.DB, renderer port.ContentRenderer) port.DocumentStore {
	return &pageRepo{db: db, renderer: renderer}
}

func (r *pageRepo) Create(ctx context.Context, page *domain.Page) error {
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO pages (
			path, hash, title, description, is_private, is_published,
			publish_start_date, publish_end_date, content, render, toc, content_type,
			editor_key, locale_code, author_id, creator_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18
		) RETURNING id`,
		page.Path, page.Hash, page.Title, page.Description, page.IsPrivate, page.IsPublished,
		page.PublishStartDate, page.PublishEndDate, page.Content, page.Render, page.TOC, page.ContentType,
		page.EditorKey, page.LocaleCode, page.AuthorID, page.CreatorID, page.CreatedAt, page.UpdatedAt,
	).Scan(&page.ID)
	if err != nil {
		return fmt.Errorf("pageRepo.Create: %w", err)
	}
	return nil
}

func (r *pageRepo) GetByPath(ctx context.Context, path, locale string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.GetContext(ctx, &page,
		"SELECT "+pageColumns+" FROM pages WHERE path = $1 AND locale_code = $2", path, locale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("pageRepo.GetByPath: %w", err)
	}
	return &page, nil
}

func (r *pageRepo) GetAuthor(ctx context.Context, pageID int64) (*domain.PageAuthor, error) {
	var author domain.PageAuthor
	err := r.db.GetContext(ctx, &author,
		"SELECT author_id, creator_id FROM pages WHERE id = $1", pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("pageRepo.GetAuthor: %w", err)
	}
	return &author, nil
}

func (r *pageRepo) GetUpdatedAt(ctx context.Context, pageID int64) (time.Time, error) {
	var updatedAt time.Time
	err := r.db.GetContext(ctx, &updatedAt,
		"SELECT updated_at FROM pages WHERE id = $1", pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, domain.ErrPageNotFound
		}
		return time.Time{}, fmt.Errorf("pageRepo.GetUpdatedAt: %w", err)
	}
	return updatedAt, nil
}

func (r *pageRepo) Render(ctx context.Context, page *domain.Page) error {
	html, err := r.renderer.Render(page.ContentType, page.Content)
	if err != nil {
		return fmt.Errorf("pageRepo.Render: %w", err)
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE pages SET render = $1, updated_at = $2 WHERE id = $3", html, now, page.ID)
	if err != nil {
		return fmt.Errorf("pageRepo.Render: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPageNotFound
	}
	page.Render = html
	page.UpdatedAt = now
	return nil
}

func (r *pageRepo) GetRenderedContent(ctx context.Context, pageID int64) (string, error) {
	var render string
	err := r.db.GetContext(ctx, &render, "SELECT render FROM pages WHERE id = $1", pageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrPageNotFound
		}
		return "", fmt.Errorf("pageRepo.GetRenderedContent: %w", err)
	}
	return render, nil
}

func (r *pageRepo) SanitizeToPlainText(html string) string {
	return r.renderer.PlainText(html)
}

// treeSource is the subset of a page needed to place it in the navigation tree.
type treeSource struct {
	ID         int64  `db:"id"`
	Path       string `db:"path"`
	Title      string `db:"title"`
	IsPrivate  bool   `db:"is_private"`
	LocaleCode string `db:"locale_code"`
}

type treeNode struct {
	Path       string
	Depth      int
	Title      string
	IsPrivate  bool
	IsFolder   bool
	ParentPath string
	PageID     *int64
	LocaleCode string
}

// buildTree expands page paths into folder and page nodes. A path that is both
// a page and the parent of other pages becomes a single folder node carrying
// the page id.
func buildTree(pages []treeSource) []treeNode {
	index := make(map[string]int)
	var nodes []treeNode

	key := func(locale, path string) string { return locale + ":" + path }

	for _, p := range pages {
		segments := strings.Split(strings.Trim(p.Path, "/"), "/")
		for depth := 1; depth <= len(segments); depth++ {
			path := strings.Join(segments[:depth], "/")
			parent := strings.Join(segments[:depth-1], "/")
			isLeaf := depth == len(segments)

			k := key(p.LocaleCode, path)
			pos, seen := index[k]
			if !seen {
				node := treeNode{
					Path:       path,
					Depth:      depth,
					Title:      segments[depth-1],
					IsFolder:   !isLeaf,
					ParentPath: parent,
					LocaleCode: p.LocaleCode,
				}
				nodes = append(nodes, node)
				pos = len(nodes) - 1
				index[k] = pos
			}

			if isLeaf {
				id := p.ID
				nodes[pos].PageID = &id
				nodes[pos].Title = p.Title
				nodes[pos].IsPrivate = p.IsPrivate
			} else {
				nodes[pos].IsFolder = true
			}
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].LocaleCode != nodes[j].LocaleCode {
			return nodes[i].LocaleCode < nodes[j].LocaleCode
		}
		return nodes[i].Path < nodes[j].Path
	})
	return nodes
}

func (r *pageRepo) RebuildTree(ctx context.Context) error {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var pages []treeSource
		if err := tx.SelectContext(ctx, &pages,
			"SELECT id, path, title, is_private, locale_code FROM pages ORDER BY locale_code, path"); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM page_tree"); err != nil {
			return err
		}

		for _, n := range buildTree(pages) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO page_tree (path, depth, title, is_private, is_folder, parent_path, page_id, locale_code)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				n.Path, n.Depth, n.Title, n.IsPrivate, n.IsFolder, n.ParentPath, n.PageID, n.LocaleCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pageRepo.RebuildTree: %w", err)
	}
	return nil
}
