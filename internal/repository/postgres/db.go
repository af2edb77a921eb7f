package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"pagehistory/internal/config"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// withTx runs fn in a transaction and commits it when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// upsertTags makes sure every tag exists and returns their ids in input order.
func upsertTags(ctx context.Context, q sqlx.QueryerContext, tags []string) ([]int64, error) {
	ids := make([]int64, 0, len(tags))
	for _, tag := range tags {
		var id int64
		err := q.QueryRowxContext(ctx,
			`INSERT INTO tags (tag, title) VALUES ($1, $1)
			 ON CONFLICT (tag) DO UPDATE SET updated_at = NOW()
			 RETURNING id`, tag).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upserting tag %q: %w", tag, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
