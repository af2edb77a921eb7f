package domain

import (
	"time"
)

// VersionRecord is one row of a page's version history. Rows are append-only
// except for draft revision (ModifyVersion) and approval linkage.
type VersionRecord struct {
	ID               int64     `db:"id" json:"id"`
	PageID           *int64    `db:"page_id" json:"page_id"`
	AuthorID         int64     `db:"author_id" json:"author_id"`
	EditorKey        string    `db:"editor_key" json:"editor_key"`
	LocaleCode       string    `db:"locale_code" json:"locale_code"`
	Path             string    `db:"path" json:"path"`
	Hash             string    `db:"hash" json:"hash"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Content          string    `db:"content" json:"content"`
	ContentType      string    `db:"content_type" json:"content_type"`
	IsPrivate        bool      `db:"is_private" json:"is_private"`
	IsPublished      bool      `db:"is_published" json:"is_published"`
	PublishStartDate string    `db:"publish_start_date" json:"publish_start_date"`
	PublishEndDate   string    `db:"publish_end_date" json:"publish_end_date"`
	Action           Action    `db:"action" json:"action"`
	VersionDate      time.Time `db:"version_date" json:"version_date"`
	AdminApproval    bool      `db:"admin_approval" json:"admin_approval"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	Tags []string `db:"-" json:"tags"`
}

// IsDraft reports whether the record is still awaiting approval.
func (v *VersionRecord) IsDraft() bool {
	return !v.AdminApproval
}

// VersionDetail is a version row joined with its author's display name.
type VersionDetail struct {
	VersionID        int64     `db:"version_id" json:"version_id"`
	PageID           *int64    `db:"page_id" json:"page_id"`
	AuthorID         int64     `db:"author_id" json:"author_id"`
	AuthorName       string    `db:"author_name" json:"author_name"`
	Editor           string    `db:"editor" json:"editor"`
	Locale           string    `db:"locale" json:"locale"`
	Path             string    `db:"path" json:"path"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	Content          string    `db:"content" json:"content"`
	ContentType      string    `db:"content_type" json:"content_type"`
	IsPrivate        bool      `db:"is_private" json:"is_private"`
	IsPublished      bool      `db:"is_published" json:"is_published"`
	PublishStartDate string    `db:"publish_start_date" json:"publish_start_date"`
	PublishEndDate   string    `db:"publish_end_date" json:"publish_end_date"`
	Action           Action    `db:"action" json:"action"`
	VersionDate      time.Time `db:"version_date" json:"version_date"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"-" json:"updated_at"`
	Tags             []string  `db:"-" json:"tags"`
}

// VersionSummary is the moderation-list view of a version.
type VersionSummary struct {
	ID            int64     `db:"id" json:"id"`
	PageID        *int64    `db:"page_id" json:"page_id"`
	AuthorID      int64     `db:"author_id" json:"author_id"`
	AuthorName    string    `db:"author_name" json:"author_name"`
	Path          string    `db:"path" json:"path"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	Locale        string    `db:"locale" json:"locale"`
	AdminApproval bool      `db:"admin_approval" json:"admin_approval"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// HistoryRow is the narrow projection of a version used to build a trail.
type HistoryRow struct {
	ID            int64     `db:"id"`
	Path          string    `db:"path"`
	AuthorID      int64     `db:"author_id"`
	AuthorName    string    `db:"author_name"`
	Action        Action    `db:"action"`
	AdminApproval bool      `db:"admin_approval"`
	VersionDate   time.Time `db:"version_date"`
}

// TrailEntry is a classified history row. It is derived on every read and never stored.
type TrailEntry struct {
	VersionID     int64      `json:"version_id"`
	AuthorID      int64      `json:"author_id"`
	AuthorName    string     `json:"author_name"`
	ActionType    ActionType `json:"action_type"`
	AdminApproval bool       `json:"admin_approval"`
	ValueBefore   *string    `json:"value_before"`
	ValueAfter    *string    `json:"value_after"`
	VersionDate   time.Time  `json:"version_date"`
}

// Trail is one window of a page's history, oldest entry first.
type Trail struct {
	Entries []TrailEntry `json:"trail"`
	Total   int          `json:"total"`
}

// Page is the live document owned by the document store.
type Page struct {
	ID               int64     `db:"id" json:"id"`
	Path             string    `db:"path" json:"path"`
	Hash             string    `db:"hash" json:"hash"`
	Title            string    `db:"title" json:"title"`
	Description      string    `db:"description" json:"description"`
	IsPrivate        bool      `db:"is_private" json:"is_private"`
	IsPublished      bool      `db:"is_published" json:"is_published"`
	PublishStartDate string    `db:"publish_start_date" json:"publish_start_date"`
	PublishEndDate   string    `db:"publish_end_date" json:"publish_end_date"`
	Content          string    `db:"content" json:"content"`
	Render           string    `db:"render" json:"render"`
	TOC              string    `db:"toc" json:"toc"`
	ContentType      string    `db:"content_type" json:"content_type"`
	EditorKey        string    `db:"editor_key" json:"editor_key"`
	LocaleCode       string    `db:"locale_code" json:"locale_code"`
	AuthorID         int64     `db:"author_id" json:"author_id"`
	CreatorID        int64     `db:"creator_id" json:"creator_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// SafeContent is the sanitized plain-text body pushed to the search index.
	SafeContent string `db:"-" json:"-"`
}

// PageAuthor identifies who created a page and who last authored it.
type PageAuthor struct {
	AuthorID  int64 `db:"author_id"`
	CreatorID int64 `db:"creator_id"`
}

// OriginalAuthor returns the creator, falling back to the author for pages
// that predate creator tracking.
func (a PageAuthor) OriginalAuthor() int64 {
	if a.CreatorID != 0 {
		return a.CreatorID
	}
	return a.AuthorID
}
