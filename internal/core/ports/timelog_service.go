package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// CreateTimeLogInput carries all data needed to log hours. The author is the
// acting user.
type CreateTimeLogInput struct {
	ProjectID      string
	Hours          decimal.Decimal
	Notes          string
	LogDate        time.Time
	Status         string // optional, defaults to todo
	IdempotencyKey string // optional
}

// ListTimeLogsInput carries the list endpoint parameters.
type ListTimeLogsInput struct {
	Filter TimeLogFilter
	Page   int
	Limit  int
}

// ListTimeLogsResult is one page of time logs.
type ListTimeLogsResult struct {
	Items      []*domain.TimeLog
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// TimeLogService defines the use cases around time logs.
type TimeLogService interface {
	CreateTimeLog(ctx context.Context, actor domain.Actor, in CreateTimeLogInput) (*domain.TimeLog, error)
	GetTimeLog(ctx context.Context, actor domain.Actor, id string) (*domain.TimeLog, error)
	ListTimeLogs(ctx context.Context, actor domain.Actor, in ListTimeLogsInput) (*ListTimeLogsResult, error)
	UpdateTimeLogFields(ctx context.Context, actor domain.Actor, id string, patch domain.TimeLogPatch) (*domain.TimeLog, error)
	UpdateTimeLogStatus(ctx context.Context, actor domain.Actor, id, status string) (*domain.TimeLog, error)
	DeleteTimeLog(ctx context.Context, actor domain.Actor, id string) (*domain.TimeLog, error)
}
