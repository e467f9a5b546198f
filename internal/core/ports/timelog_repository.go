package ports

import (
	"context"
	"time"

	"github.com/billable/timesheet-api/internal/core/domain"
)

// TimeLogFilter carries the optional criteria for scanning time logs. Zero
// values mean "no filter". Date matches the UTC calendar day of log_date.
type TimeLogFilter struct {
	ProjectID string
	UserID    string
	Status    domain.TimeLogStatus
	Date      *time.Time
}

// TimeLogRepository defines persistence operations for time logs. Scans are
// returned ordered by (log_date, created_at, id).
type TimeLogRepository interface {
	// FindTimeLogByID returns domain.ErrTimeLogNotFound when absent.
	FindTimeLogByID(ctx context.Context, id string) (*domain.TimeLog, error)
	ListTimeLogs(ctx context.Context, filter TimeLogFilter) ([]*domain.TimeLog, error)
	InsertTimeLog(ctx context.Context, log *domain.TimeLog) (*domain.TimeLog, error)
	// UpdateTimeLog applies patch to the stored log. Hours and Notes are
	// copied as given; Status must already be validated.
	UpdateTimeLog(ctx context.Context, id string, patch domain.TimeLogPatch, updatedAt time.Time) (*domain.TimeLog, error)
	DeleteTimeLog(ctx context.Context, id string) (*domain.TimeLog, error)
}
