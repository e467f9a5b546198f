package ports

import (
	"context"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// ProjectFilter narrows project scans. Empty Statuses means any status.
type ProjectFilter struct {
	Statuses []domain.ProjectStatus
	Skip     int
	Limit    int // 0 = no limit
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	// FindProjectByID returns domain.ErrProjectNotFound when absent.
	FindProjectByID(ctx context.Context, id string) (*domain.Project, error)
	// ListProjects returns a page of matching projects, newest first, and the
	// total number of matches.
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*domain.Project, int64, error)
	InsertProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	// UpdateProject replaces the stored project with p (matched by ID).
	UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
}
