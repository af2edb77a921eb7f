package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

// ApproveInput is the DTO for promoting a draft into a live page.
type ApproveInput struct {
	VersionID int64
	// UserID is the administrator approving the draft.
	UserID int64
	// SkipStorage leaves the storage mirror untouched.
	SkipStorage bool
}

// ApprovalService promotes pending drafts into live pages.
//
// Approval is best-effort and is not rolled back. A failure after the page has
// been created returns a *domain.StepError naming the failed step and the
// steps already applied, so an operator can reconcile by hand.
type ApprovalService interface {
	Approve(ctx context.Context, input *ApproveInput) (*domain.Page, error)
}

// Approval step names, in execution order.
const (
	StepCreatePage       = "create_page"
	StepFetchPage        = "fetch_page"
	StepAssociateTags    = "associate_tags"
	StepRenderPage       = "render_page"
	StepRebuildTree      = "rebuild_tree"
	StepIndexSearch      = "index_search"
	StepMirrorStorage    = "mirror_storage"
	StepReconnectLinks   = "reconnect_links"
	StepRefreshUpdatedAt = "refresh_updated_at"
	StepRecordApproval   = "record_approval"
	StepLinkDraft        = "link_draft"
)

// approvalRun carries the state one approval accumulates across its steps.
type approvalRun struct {
	id      string
	input   *ApproveInput
	draft   *domain.VersionRecord
	created *domain.Page
	page    *domain.Page
}

type approvalStep struct {
	name string
	skip func(run *approvalRun) bool
	do   func(ctx context.Context, run *approvalRun) error
}

type approvalService struct {
	repo   port.VersionRepository
	collab *Collaborators
	steps  []approvalStep
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(repo port.VersionRepository, collab *Collaborators) ApprovalService {
	s := &approvalService{repo: repo, collab: collab}
	s.steps = []approvalStep{
		{name: StepCreatePage, do: s.createPage},
		{name: StepFetchPage, do: s.fetchPage},
		{name: StepAssociateTags, do: s.associateTags, skip: func(run *approvalRun) bool {
			return len(run.draft.Tags) == 0
		}},
		{name: StepRenderPage, do: s.renderPage},
		{name: StepRebuildTree, do: s.rebuildTree},
		{name: StepIndexSearch, do: s.indexSearch},
		{name: StepMirrorStorage, do: s.mirrorStorage, skip: func(run *approvalRun) bool {
			return run.input.SkipStorage
		}},
		{name: StepReconnectLinks, do: s.reconnectLinks},
		{name: StepRefreshUpdatedAt, do: s.refreshUpdatedAt},
		{name: StepRecordApproval, do: s.recordApproval},
		{name: StepLinkDraft, do: s.linkDraft},
	}
	return s
}

func (s *approvalService) Approve(ctx context.Context, input *ApproveInput) (*domain.Page, error) {
	draft, err := s.repo.GetByID(ctx, input.VersionID)
	if err != nil {
		if errors.Is(err, domain.ErrVersionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("approvalService.Approve: %w", err)
	}
	if !draft.IsDraft() {
		return nil, domain.ErrVersionAlreadyApproved
	}

	run := &approvalRun{
		id:    uuid.New().String(),
		input: input,
		draft: draft,
	}
	log := logrus.WithFields(logrus.Fields{
		"approval_id": run.id,
		"version_id":  draft.ID,
		"user_id":     input.UserID,
	})

	completed := make([]string, 0, len(s.steps))
	for _, step := range s.steps {
		if step.skip != nil && step.skip(run) {
			log.WithField("step", step.name).Debug("approvalService.Approve: step skipped")
			continue
		}

		log.WithField("step", step.name).Debug("approvalService.Approve: step started")
		if err := step.do(ctx, run); err != nil {
			log.WithField("step", step.name).WithError(err).Error("approvalService.Approve: step failed")
			return nil, &domain.StepError{
				RunID:     run.id,
				VersionID: draft.ID,
				Step:      step.name,
				Completed: completed,
				Err:       err,
			}
		}
		completed = append(completed, step.name)
	}

	log.WithField("page_id", run.page.ID).Info("approvalService.Approve: draft approved")
	return run.page, nil
}

func (s *approvalService) createPage(ctx context.Context, run *approvalRun) error {
	d := run.draft
	page := &domain.Page{
		Path:             d.Path,
		Hash:             d.Hash,
		Title:            d.Title,
		Description:      d.Description,
		IsPrivate:        d.IsPrivate,
		IsPublished:      d.IsPublished,
		PublishStartDate: d.PublishStartDate,
		PublishEndDate:   d.PublishEndDate,
		Content:          d.Content,
		Render:           d.Content,
		TOC:              "[]",
		ContentType:      d.ContentType,
		EditorKey:        d.EditorKey,
		LocaleCode:       d.LocaleCode,
		AuthorID:         d.AuthorID,
		CreatorID:        d.AuthorID,
	}
	if err := s.collab.Pages.Create(ctx, page); err != nil {
		return err
	}
	run.created = page
	return nil
}

func (s *approvalService) fetchPage(ctx context.Context, run *approvalRun) error {
	page, err := s.collab.Pages.GetByPath(ctx, run.draft.Path, run.draft.LocaleCode)
	if err != nil {
		return err
	}
	run.page = page
	return nil
}

func (s *approvalService) associateTags(ctx context.Context, run *approvalRun) error {
	return s.collab.Tags.AssociateTags(ctx, run.draft.Tags, run.page)
}

func (s *approvalService) renderPage(ctx context.Context, run *approvalRun) error {
	return s.collab.Pages.Render(ctx, run.page)
}

func (s *approvalService) rebuildTree(ctx context.Context, _ *approvalRun) error {
	return s.collab.Pages.RebuildTree(ctx)
}

func (s *approvalService) indexSearch(ctx context.Context, run *approvalRun) error {
	render, err := s.collab.Pages.GetRenderedContent(ctx, run.page.ID)
	if err != nil {
		return err
	}
	run.page.SafeContent = s.collab.Pages.SanitizeToPlainText(render)
	return s.collab.Search.Created(ctx, run.page)
}

func (s *approvalService) mirrorStorage(ctx context.Context, run *approvalRun) error {
	return s.collab.Mirror.PageEvent(ctx, domain.PageEventCreated, run.page)
}

func (s *approvalService) reconnectLinks(ctx context.Context, run *approvalRun) error {
	return s.collab.Links.Reconnect(ctx, run.page.LocaleCode, run.page.Path, domain.ReconnectCreate)
}

func (s *approvalService) refreshUpdatedAt(ctx context.Context, run *approvalRun) error {
	updatedAt, err := s.collab.Pages.GetUpdatedAt(ctx, run.page.ID)
	if err != nil {
		return err
	}
	run.page.UpdatedAt = updatedAt
	return nil
}

func (s *approvalService) recordApproval(ctx context.Context, run *approvalRun) error {
	d := run.draft
	pageID := run.created.ID
	return s.repo.Create(ctx, &domain.VersionRecord{
		PageID:           &pageID,
		AuthorID:         d.AuthorID,
		EditorKey:        d.EditorKey,
		LocaleCode:       d.LocaleCode,
		Path:             d.Path,
		Hash:             d.Hash,
		Title:            d.Title,
		Description:      d.Description,
		Content:          d.Content,
		ContentType:      d.ContentType,
		IsPrivate:        d.IsPrivate,
		IsPublished:      d.IsPublished,
		PublishStartDate: d.PublishStartDate,
		PublishEndDate:   d.PublishEndDate,
		Action:           domain.ActionApproved,
		VersionDate:      d.VersionDate,
		AdminApproval:    true,
	})
}

func (s *approvalService) linkDraft(ctx context.Context, run *approvalRun) error {
	return s.repo.LinkApproved(ctx, run.draft.ID, run.created.ID)
}
