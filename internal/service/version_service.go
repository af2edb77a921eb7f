package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
	"github.com/sosodev/duration"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

// AddVersionInput is the DTO for recording a new version. Path and Title are
// required. IsPrivate and IsPublished accept any value and are normalized with
// domain.ToStrictBool.
type AddVersionInput struct {
	PageID           *int64
	AuthorID         int64
	EditorKey        string
	LocaleCode       string
	Path             string
	Hash             string
	Title            string
	Description      string
	Content          string
	ContentType      string
	IsPrivate        any
	IsPublished      any
	PublishStartDate string
	PublishEndDate   string
	Action           domain.Action
	VersionDate      time.Time
	AdminApproval    bool
	Tags             []string
}

// ModifyVersionInput is the DTO for revising a pending draft in place.
type ModifyVersionInput struct {
	EditorKey        string
	LocaleCode       string
	Path             string
	Title            string
	Description      string
	Content          string
	ContentType      string
	IsPrivate        any
	IsPublished      any
	PublishStartDate string
	PublishEndDate   string
	Action           domain.Action
	VersionDate      time.Time
}

// VersionService defines the version log contract.
type VersionService interface {
	AddVersion(ctx context.Context, input *AddVersionInput) (*domain.VersionRecord, error)
	ModifyVersion(ctx context.Context, id int64, input *ModifyVersionInput) error
	// GetVersion returns nil without error when id is unknown.
	GetVersion(ctx context.Context, id int64) (*domain.VersionRecord, error)
	// GetPageVersion returns nil without error when pageID has no version versionID.
	GetPageVersion(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error)
	ListAuthorVersions(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error)
	// Purge deletes every version older than the ISO-8601 retention duration
	// and returns how many were removed.
	Purge(ctx context.Context, retention string) (int64, error)
}

type versionService struct {
	repo port.VersionRepository
	now  func() time.Time
}

// NewVersionService creates a new VersionService.
func NewVersionService(repo port.VersionRepository) VersionService {
	return &versionService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func requireFields(path, title string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path is required", domain.ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return nil
}

func actionOrDefault(a domain.Action) domain.Action {
	if a == "" {
		return domain.ActionUpdated
	}
	return a
}

func (s *versionService) versionDateOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t.UTC()
}

func (s *versionService) AddVersion(ctx context.Context, input *AddVersionInput) (*domain.VersionRecord, error) {
	if err := requireFields(input.Path, input.Title); err != nil {
		return nil, err
	}

	rec := &domain.VersionRecord{
		PageID:           input.PageID,
		AuthorID:         input.AuthorID,
		EditorKey:        input.EditorKey,
		LocaleCode:       input.LocaleCode,
		Path:             input.Path,
		Hash:             input.Hash,
		Title:            input.Title,
		Description:      input.Description,
		Content:          input.Content,
		ContentType:      input.ContentType,
		IsPrivate:        domain.ToStrictBool(input.IsPrivate),
		IsPublished:      domain.ToStrictBool(input.IsPublished),
		PublishStartDate: input.PublishStartDate,
		PublishEndDate:   input.PublishEndDate,
		Action:           actionOrDefault(input.Action),
		VersionDate:      s.versionDateOrNow(input.VersionDate),
		AdminApproval:    input.AdminApproval,
		Tags:             input.Tags,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("versionService.AddVersion: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"version_id": rec.ID,
		"author_id":  rec.AuthorID,
		"action":     rec.Action,
	}).Debug("versionService.AddVersion: recorded")
	return rec, nil
}

func (s *versionService) ModifyVersion(ctx context.Context, id int64, input *ModifyVersionInput) error {
	if err := requireFields(input.Path, input.Title); err != nil {
		return err
	}

	rec := &domain.VersionRecord{
		ID:               id,
		EditorKey:        input.EditorKey,
		LocaleCode:       input.LocaleCode,
		Path:             input.Path,
		Title:            input.Title,
		Description:      input.Description,
		Content:          input.Content,
		ContentType:      input.ContentType,
		IsPrivate:        domain.ToStrictBool(input.IsPrivate),
		IsPublished:      domain.ToStrictBool(input.IsPublished),
		PublishStartDate: input.PublishStartDate,
		PublishEndDate:   input.PublishEndDate,
		Action:           actionOrDefault(input.Action),
		VersionDate:      s.versionDateOrNow(input.VersionDate),
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return err
		}
		return fmt.Errorf("versionService.ModifyVersion: %w", err)
	}
	return nil
}

func (s *versionService) GetVersion(ctx context.Context, id int64) (*domain.VersionRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("versionService.GetVersion: %w", err)
	}
	return rec, nil
}

func (s *versionService) GetPageVersion(ctx context.Context, pageID, versionID int64) (*domain.VersionDetail, error) {
	detail, err := s.repo.GetDetail(ctx, pageID, versionID)
	if err != nil {
		return nil, fmt.Errorf("versionService.GetPageVersion: %w", err)
	}
	if detail == nil {
		return nil, nil
	}
	detail.UpdatedAt = detail.CreatedAt
	detail.Tags = []string{}
	return detail, nil
}

func (s *versionService) ListAuthorVersions(ctx context.Context, authorID int64, others bool) ([]domain.VersionSummary, error) {
	versions, err := s.repo.ListByAuthor(ctx, authorID, others)
	if err != nil {
		return nil, fmt.Errorf("versionService.ListAuthorVersions: %w", err)
	}
	if versions == nil {
		versions = []domain.VersionSummary{}
	}
	return versions, nil
}

func (s *versionService) Purge(ctx context.Context, retention string) (int64, error) {
	retention = strings.TrimSpace(retention)
	if retention == "" {
		return 0, fmt.Errorf("%w: empty retention", domain.ErrMalformedDuration)
	}
	// "P" and "PT" parse as zero and would purge everything.
	if strings.IndexFunc(retention, unicode.IsDigit) < 0 {
		return 0, fmt.Errorf("%w: %q has no components", domain.ErrMalformedDuration, retention)
	}
	d, err := duration.Parse(retention)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", domain.ErrMalformedDuration, retention, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("%w: %q is negative", domain.ErrMalformedDuration, retention)
	}

	cutoff := SubtractDuration(s.now(), d)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("versionService.Purge: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"retention": retention,
		"cutoff":    cutoff.Format(time.RFC3339),
		"deleted":   deleted,
	}).Info("versionService.Purge: completed")
	return deleted, nil
}

// SubtractDuration moves t back by d. Whole years, months, weeks and days are
// applied on the calendar; clock units and any fractional remainder are
// applied as an elapsed duration.
func SubtractDuration(t time.Time, d *duration.Duration) time.Time {
	years, fracYears := math.Modf(d.Years)
	months, fracMonths := math.Modf(d.Months)
	weeks, fracWeeks := math.Modf(d.Weeks)
	days, fracDays := math.Modf(d.Days)

	t = t.AddDate(-int(years), -int(months), -int(weeks)*7-int(days))

	rest := duration.Duration{
		Years:   fracYears,
		Months:  fracMonths,
		Weeks:   fracWeeks,
		Days:    fracDays,
		Hours:   d.Hours,
		Minutes: d.Minutes,
		Seconds: d.Seconds,
	}
	return t.Add(-rest.ToTimeDuration())
}
