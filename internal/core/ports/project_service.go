package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
)

type CreateProjectInput struct {
	Name        string
	Description string
	BillingRate decimal.Decimal
	Status      string // optional, defaults to active
}

// UpdateProjectInput lists the project fields an administrator may change.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	BillingRate *decimal.Decimal
	Status      *string
}

type ListProjectsInput struct {
	Page  int
	Limit int
}

type ListProjectsResult struct {
	Items      []*domain.Project
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProjectService interface {
	CreateProject(ctx context.Context, actor domain.Actor, in CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, actor domain.Actor, in ListProjectsInput) (*ListProjectsResult, error)
	UpdateProject(ctx context.Context, actor domain.Actor, id string, in UpdateProjectInput) (*domain.Project, error)
	ArchiveProject(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
}

// BillingService serves project billing summaries.
type BillingService interface {
	// GetBillingSummary returns the summary and whether it came from cache.
	GetBillingSummary(ctx context.Context, projectID string) (*domain.BillingSummary, bool, error)
}
