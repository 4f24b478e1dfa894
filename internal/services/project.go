package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/falak-club/apiserver/types"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Get(ctx context.Context, id int) (types.Project, error)
	List(ctx context.Context, status types.ApprovalStatus) ([]types.Project, error)
	ListByUser(ctx context.Context, userID string) ([]types.Project, error)
	Create(ctx context.Context, project types.Project) (types.Project, error)
	SetStatus(ctx context.Context, id int, status types.ApprovalStatus) error
	Delete(ctx context.Context, id int) error
}

// ProjectService encapsulates project submission and review use-cases.
type ProjectService struct {
	repo     ProjectRepository
	notifier *Notifier
}

func NewProjectService(repo ProjectRepository, notifier *Notifier) *ProjectService {
	return &ProjectService{repo: repo, notifier: notifier}
}

func (s *ProjectService) Get(ctx context.Context, id int) (types.Project, error) {
	return s.repo.Get(ctx, id)
}

// Submit creates a project for an approved member. New projects always
// start pending regardless of what the caller supplies.
func (s *ProjectService) Submit(ctx context.Context, callerStatus types.ApprovalStatus, project types.Project) (types.Project, error) {
	if callerStatus != types.StatusApproved {
		return types.Project{}, ErrNotApproved
	}

	project.Title = strings.TrimSpace(project.Title)
	project.Description = strings.TrimSpace(project.Description)
	project.GithubLink = strings.TrimSpace(project.GithubLink)
	if project.Title == "" || project.Description == "" || project.GithubLink == "" {
		return types.Project{}, fmt.Errorf("%w: title, description, and github link are required", ErrInvalidInput)
	}

	project.Status = types.StatusPending
	return s.repo.Create(ctx, project)
}

// SetStatus applies an admin review decision. The transition is
// idempotent: setting the status a project already has is a no-op, not an
// error.
func (s *ProjectService) SetStatus(ctx context.Context, id int, status types.ApprovalStatus) error {
	if status != types.StatusApproved && status != types.StatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", ErrInvalidInput)
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if project.Status == status {
		return nil
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.notifier.ProjectStatusChanged(ctx, id, string(status))
	return nil
}

// Showcase returns the approved projects, newest first.
func (s *ProjectService) Showcase(ctx context.Context) ([]types.Project, error) {
	return s.repo.List(ctx, types.StatusApproved)
}

// All returns every project for the admin review queue.
func (s *ProjectService) All(ctx context.Context) ([]types.Project, error) {
	return s.repo.List(ctx, "")
}

func (s *ProjectService) ListByUser(ctx context.Context, userID string) ([]types.Project, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ProjectService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
