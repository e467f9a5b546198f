package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
)

type createTimeLogRequest struct {
	ProjectID string           `json:"project_id" validate:"required"`
	Hours     *decimal.Decimal `json:"hours"      validate:"required"`
	Notes     string           `json:"notes"      validate:"max=2000"`
	LogDate   string           `json:"log_date"   validate:"required"`
	Status    string           `json:"status"`
}

type updateTimeLogRequest struct {
	Hours  *decimal.Decimal `json:"hours"`
	Notes  *string          `json:"notes"  validate:"omitempty,max=2000"`
	Status *string          `json:"status"`
}

type updateTimeLogStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type timeLogResponse struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	UserID    string          `json:"user_id"`
	Hours     decimal.Decimal `json:"hours"`
	Notes     string          `json:"notes"`
	LogDate   string          `json:"log_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toTimeLogResponse(l *domain.TimeLog) timeLogResponse {
	return timeLogResponse{
		ID:        l.ID,
		ProjectID: l.ProjectID,
		UserID:    l.UserID,
		Hours:     l.Hours,
		Notes:     l.Notes,
		LogDate:   l.Day(),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toTimeLogResponses(logs []*domain.TimeLog) []timeLogResponse {
	out := make([]timeLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toTimeLogResponse(l))
	}
	return out
}

func toTimeLogPatch(req updateTimeLogRequest) domain.TimeLogPatch {
	return domain.TimeLogPatch{Hours: req.Hours, Notes: req.Notes, Status: req.Status}
}
