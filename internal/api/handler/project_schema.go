package handler

import (
	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/ports"
)

type createProjectRequest struct {
	Name        string           `json:"name"         validate:"required,min=3,max=100"`
	Description string           `json:"description"  validate:"max=500"`
	BillingRate *decimal.Decimal `json:"billing_rate" validate:"required"`
	Status      string           `json:"status"       validate:"omitempty,oneof=active completed archived"`
}

type updateProjectRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description"  validate:"omitempty,max=500"`
	BillingRate *decimal.Decimal `json:"billing_rate"`
	Status      *string          `json:"status"       validate:"omitempty,oneof=active completed archived"`
}

func toCreateProjectInput(req createProjectRequest) ports.CreateProjectInput {
	return ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		BillingRate: *req.BillingRate,
		Status:      req.Status,
	}
}

func toUpdateProjectInput(req updateProjectRequest) ports.UpdateProjectInput {
	return ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		BillingRate: req.BillingRate,
		Status:      req.Status,
	}
}
