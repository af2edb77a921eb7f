// Package mirror replicates approved pages to object storage.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pagehistory/internal/compress"
	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

type snapshot struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Locale      string    `json:"locale"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	Render      string    `json:"render"`
	IsPrivate   bool      `json:"is_private"`
	IsPublished bool      `json:"is_published"`
	AuthorID    int64     `json:"author_id"`
	CreatorID   int64     `json:"creator_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type objectMirror struct {
	storage port.ObjectStorage
	codec   compress.Compress
	bucket  string
	prefix  string
}

// New returns a StorageMirror that writes one compressed JSON snapshot per
// page to bucket under prefix.
func New(storage port.ObjectStorage, codec compress.Compress, bucket, prefix string) port.StorageMirror {
	return &objectMirror{
		storage: storage,
		codec:   codec,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
	}
}

// objectKey returns the object key used for a page.
func (m *objectMirror) objectKey(page *domain.Page) string {
	parts := []string{}
	if m.prefix != "" {
		parts = append(parts, m.prefix)
	}
	parts = append(parts, page.LocaleCode, strings.Trim(page.Path, "/"))
	return strings.Join(parts, "/") + ".json" + m.codec.Ext()
}

func (m *objectMirror) PageEvent(ctx context.Context, event domain.PageEvent, page *domain.Page) error {
	key := m.objectKey(page)

	switch event {
	case domain.PageEventCreated, domain.PageEventUpdated:
		return m.put(ctx, key, page)
	case domain.PageEventDeleted:
		if err := m.storage.Delete(ctx, m.bucket, key); err != nil {
			return fmt.Errorf("mirror.PageEvent: %w", err)
		}
		logrus.WithFields(logrus.Fields{"page_id": page.ID, "key": key}).Debug("mirror.PageEvent: deleted")
		return nil
	default:
		return fmt.Errorf("mirror.PageEvent: unknown event %q", event)
	}
}

func (m *objectMirror) put(ctx context.Context, key string, page *domain.Page) error {
	data, err := json.Marshal(snapshot{
		ID:          page.ID,
		Path:        page.Path,
		Locale:      page.LocaleCode,
		Title:       page.Title,
		Description: page.Description,
		ContentType: page.ContentType,
		Content:     page.Content,
		Render:      page.Render,
		IsPrivate:   page.IsPrivate,
		IsPublished: page.IsPublished,
		AuthorID:    page.AuthorID,
		CreatorID:   page.CreatorID,
		UpdatedAt:   page.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("mirror.PageEvent marshal: %w", err)
	}

	encoded, err := m.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("mirror.PageEvent encode: %w", err)
	}

	out, err := m.storage.Upload(ctx, port.UploadInput{
		Bucket:          m.bucket,
		Key:             key,
		Body:            bytes.NewReader(encoded),
		ContentType:     "application/json",
		ContentEncoding: m.codec.Encoding(),
		Metadata: map[string]string{
			"snapshot-id": uuid.New().String(),
			"page-id":     strconv.FormatInt(page.ID, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("mirror.PageEvent: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"page_id": page.ID,
		"key":     key,
		"etag":    out.ETag,
		"bytes":   len(encoded),
	}).Debug("mirror.PageEvent: uploaded")
	return nil
}
