package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"pagehistory/internal/compress"
	"pagehistory/internal/config"
	"pagehistory/internal/mirror"
	"pagehistory/internal/render"
	"pagehistory/internal/repository/postgres"
	searchredis "pagehistory/internal/search/redis"
	"pagehistory/internal/service"
	s3storage "pagehistory/internal/storage/s3"
)

// app holds the services and the connections they share.
type app struct {
	db       *sqlx.DB
	redis    *goredis.Client
	index    *searchredis.Index
	versions service.VersionService
	trails   service.TrailService
	approver service.ApprovalService
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	versionRepo := postgres.NewVersionRepo(db)
	collab := &service.Collaborators{
		Pages: postgres.NewPageRepo(db, render.New()),
		Tags:  postgres.NewTagRepo(db),
		Links: postgres.NewLinkRepo(db),
	}

	// Initialize search index
	redisClient := searchredis.NewClient(&cfg.Redis)
	index := searchredis.NewIndex(redisClient, cfg.Redis.KeyPrefix)
	collab.Search = index

	// Initialize storage mirror
	if cfg.Mirror.Enabled {
		s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			_ = db.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		codec, err := compress.New(cfg.Mirror.Compression)
		if err != nil {
			_ = db.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to initialize mirror codec: %w", err)
		}
		collab.Mirror = mirror.New(s3Client, codec, cfg.S3.Bucket, cfg.Mirror.KeyPrefix)
	}

	// Initialize services
	return &app{
		db:       db,
		redis:    redisClient,
		index:    index,
		versions: service.NewVersionService(versionRepo),
		trails:   service.NewTrailService(versionRepo, collab),
		approver: service.NewApprovalService(versionRepo, collab),
	}, nil
}

func (a *app) Close() {
	_ = a.redis.Close()
	_ = a.db.Close()
}
