package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

// DefaultTrailSize is the window size used when the caller passes none.
const DefaultTrailSize = 100

// TrailService reconstructs a page's classified change history.
type TrailService interface {
	// Build returns window offsetPage of size offsetSize, oldest entry first,
	// and the page's total version count.
	Build(ctx context.Context, pageID int64, offsetPage, offsetSize int) (*domain.Trail, error)
}

type trailService struct {
	repo  port.VersionRepository
	pages port.DocumentStore
}

// NewTrailService creates a new TrailService.
func NewTrailService(repo port.VersionRepository, collab *Collaborators) TrailService {
	return &trailService{repo: repo, pages: collab.Pages}
}

func (s *trailService) Build(ctx context.Context, pageID int64, offsetPage, offsetSize int) (*domain.Trail, error) {
	if offsetPage < 0 {
		offsetPage = 0
	}
	if offsetSize <= 0 {
		offsetSize = DefaultTrailSize
	}

	// Versions can outlive their page; without an author nothing is initial.
	var original int64
	author, err := s.pages.GetAuthor(ctx, pageID)
	switch {
	case err == nil:
		original = author.OriginalAuthor()
	case errors.Is(err, domain.ErrPageNotFound):
		logrus.WithField("page_id", pageID).Debug("trailService.Build: page not found, building without original author")
	default:
		return nil, fmt.Errorf("trailService.Build: %w", err)
	}

	rows, total, err := s.repo.ListByPage(ctx, pageID, offsetPage*offsetSize, offsetSize)
	if err != nil {
		return nil, fmt.Errorf("trailService.Build: %w", err)
	}

	upper := (offsetPage + 1) * offsetSize
	var prev *domain.HistoryRow
	if total > upper {
		prev, err = s.repo.GetAt(ctx, pageID, upper)
		if err != nil {
			return nil, fmt.Errorf("trailService.Build lookahead: %w", err)
		}
	}

	return &domain.Trail{
		Entries: ClassifyTrail(rows, prev, original, total <= upper),
		Total:   total,
	}, nil
}

// ClassifyTrail folds rows, given newest first, into trail entries oldest
// first. prev is the row just older than the oldest of rows, if any.
// reachesStart reports whether rows include the oldest version of the page.
func ClassifyTrail(rows []domain.HistoryRow, prev *domain.HistoryRow, originalAuthor int64, reachesStart bool) []domain.TrailEntry {
	entries := make([]domain.TrailEntry, 0, len(rows))

	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		entry := domain.TrailEntry{
			VersionID:     row.ID,
			AuthorID:      row.AuthorID,
			AuthorName:    row.AuthorName,
			AdminApproval: row.AdminApproval,
			VersionDate:   row.VersionDate,
		}

		prevPath := ""
		if prev != nil {
			prevPath = prev.Path
		}
		byOriginal := row.AuthorID == originalAuthor

		switch {
		case prev == nil && byOriginal && reachesStart:
			entry.ActionType = domain.ActionTypeInitial
		case prevPath != row.Path && byOriginal:
			before, after := prevPath, row.Path
			entry.ActionType = domain.ActionTypeMove
			entry.ValueBefore = &before
			entry.ValueAfter = &after
		default:
			entry.ActionType = domain.ActionTypeEdit
		}

		entries = append(entries, entry)
		prev = &rows[i]
	}
	return entries
}
