package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

const defaultProjectPageSize = 10

// ProjectService implements the project catalogue. Only administrators write.
type ProjectService struct {
	repo        ports.ProjectRepository
	invalidator SummaryInvalidator
	now         func() time.Time
	log         zerolog.Logger
}

var _ ports.ProjectService = (*ProjectService)(nil)

func NewProjectService(repo ports.ProjectRepository, invalidator SummaryInvalidator, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, invalidator: invalidator, now: time.Now, log: log}
}

func (s *ProjectService) CreateProject(ctx context.Context, actor domain.Actor, in ports.CreateProjectInput) (*domain.Project, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	if err := domain.ValidateProjectName(name); err != nil {
		return nil, err
	}
	if err := domain.ValidateProjectDescription(in.Description); err != nil {
		return nil, err
	}
	if err := domain.ValidateBillingRate(in.BillingRate); err != nil {
		return nil, err
	}
	status := domain.ProjectActive
	if in.Status != "" {
		status = domain.ProjectStatus(in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid project status %q", domain.ErrValidation, in.Status)
		}
	}

	created, err := s.repo.InsertProject(ctx, &domain.Project{
		Name:        name,
		Description: in.Description,
		BillingRate: in.BillingRate,
		Status:      status,
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", created.ID).Str("created_by", actor.UserID).Msg("project created")
	return created, nil
}

// GetProject hides archived projects from employees.
func (s *ProjectService) GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	p, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsArchived() && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// ListProjects returns a page of projects, newest first. Employees do not see
// archived projects.
func (s *ProjectService) ListProjects(ctx context.Context, actor domain.Actor, in ports.ListProjectsInput) (*ports.ListProjectsResult, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultProjectPageSize)

	filter := ports.ProjectFilter{Skip: (page - 1) * limit, Limit: limit}
	if !actor.IsAdmin() {
		filter.Statuses = []domain.ProjectStatus{domain.ProjectActive, domain.ProjectCompleted}
	}

	items, total, err := s.repo.ListProjects(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return &ports.ListProjectsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateProject applies the given changes. Status changes follow the project
// lifecycle; archived projects are read-only.
func (s *ProjectService) UpdateProject(ctx context.Context, actor domain.Actor, id string, in ports.UpdateProjectInput) (*domain.Project, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	p, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *p
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := domain.ValidateProjectName(name); err != nil {
			return nil, err
		}
		next.Name = name
	}
	if in.Description != nil {
		if err := domain.ValidateProjectDescription(*in.Description); err != nil {
			return nil, err
		}
		next.Description = *in.Description
	}
	if in.BillingRate != nil {
		if err := domain.ValidateBillingRate(*in.BillingRate); err != nil {
			return nil, err
		}
		next.BillingRate = *in.BillingRate
	}
	if in.Status != nil {
		status := domain.ProjectStatus(*in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid project status %q", domain.ErrValidation, *in.Status)
		}
		if !p.Status.CanTransitionTo(status) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidProjectTransition, p.Status, status)
		}
		next.Status = status
	}
	if p.IsArchived() && !sameProjectFields(p, &next) {
		return nil, fmt.Errorf("%w: archived projects cannot be edited", domain.ErrProjectArchived)
	}

	updated, err := s.repo.UpdateProject(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(updated.ID)
	s.log.Info().Str("project_id", updated.ID).Str("status", string(updated.Status)).Msg("project updated")
	return updated, nil
}

// ArchiveProject moves the project to archived. Its logs are kept.
func (s *ProjectService) ArchiveProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	status := string(domain.ProjectArchived)
	return s.UpdateProject(ctx, actor, id, ports.UpdateProjectInput{Status: &status})
}

func sameProjectFields(a, b *domain.Project) bool {
	return a.Name == b.Name && a.Description == b.Description && a.BillingRate.Equal(b.BillingRate)
}
