package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
	"github.com/billable/timesheet-api/internal/pkg/metrics"
)

const (
	defaultTimeLogPageSize = 20
	maxPageSize            = 100
)

// IdempotencyStore remembers which time log a client-supplied
// Idempotency-Key produced, per user.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (timeLogID string, found bool, err error)
	Remember(ctx context.Context, userID, key, timeLogID string) error
}

// SummaryInvalidator drops derived billing state for a project.
type SummaryInvalidator interface {
	Invalidate(projectID string)
}

// TimeLogService implements the time log write and read paths.
type TimeLogService struct {
	projects    ports.ProjectRepository
	logs        ports.TimeLogRepository
	cap         *DailyCapValidator
	invalidator SummaryInvalidator
	idempotency IdempotencyStore // optional
	userLocks   *keyedMutex
	now         func() time.Time
	log         zerolog.Logger
}

var _ ports.TimeLogService = (*TimeLogService)(nil)

// NewTimeLogService wires the time log use cases. idempotency may be nil, in
// which case Idempotency-Key values are ignored.
func NewTimeLogService(
	projects ports.ProjectRepository,
	logs ports.TimeLogRepository,
	invalidator SummaryInvalidator,
	idempotency IdempotencyStore,
	log zerolog.Logger,
) *TimeLogService {
	return &TimeLogService{
		projects:    projects,
		logs:        logs,
		cap:         NewDailyCapValidator(logs),
		invalidator: invalidator,
		idempotency: idempotency,
		userLocks:   newKeyedMutex(defaultLockStripes),
		now:         time.Now,
		log:         log,
	}
}

// CreateTimeLog logs hours for the acting user. Archived projects are rejected
// before the daily cap is consulted. The cap check and the insert run under
// the user's lock so concurrent requests cannot both pass the check.
func (s *TimeLogService) CreateTimeLog(ctx context.Context, actor domain.Actor, in ports.CreateTimeLogInput) (*domain.TimeLog, error) {
	status, err := validateCreate(actor, in)
	if err != nil {
		metrics.TimeLogRejectionsTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	project, err := s.projects.FindProjectByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.IsArchived() {
		metrics.TimeLogRejectionsTotal.WithLabelValues("project_archived").Inc()
		return nil, fmt.Errorf("%w: cannot add time logs to archived project %s", domain.ErrProjectArchived, project.ID)
	}

	unlock := s.userLocks.Lock(actor.UserID)
	defer unlock()

	existing, err := s.replay(ctx, actor.UserID, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if err := s.cap.Validate(ctx, actor.UserID, in.LogDate, in.Hours, ""); err != nil {
		if errors.Is(err, domain.ErrDailyCapExceeded) {
			metrics.TimeLogRejectionsTotal.WithLabelValues("daily_cap").Inc()
			s.log.Warn().Str("user_id", actor.UserID).Str("log_date", domain.TruncateDay(in.LogDate).Format(domain.DayLayout)).Msg("daily cap exceeded")
		}
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.logs.InsertTimeLog(ctx, &domain.TimeLog{
		ProjectID: project.ID,
		UserID:    actor.UserID,
		Hours:     in.Hours,
		Notes:     in.Notes,
		LogDate:   in.LogDate.UTC(),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert time log")
		return nil, fmt.Errorf("create time log: %w", err)
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, actor.UserID, in.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.invalidator.Invalidate(project.ID)
	metrics.TimeLogsCreatedTotal.Inc()
	s.log.Info().Str("time_log_id", created.ID).Str("project_id", project.ID).Str("user_id", actor.UserID).Msg("time log created")

	return created, nil
}

// replay returns the log previously created with the request's idempotency
// key, or nil. Lookup failures are logged and treated as a miss. A key whose
// log no longer matches project, hours and day yields ErrIdempotencyKeyReused.
func (s *TimeLogService) replay(ctx context.Context, userID string, in ports.CreateTimeLogInput) (*domain.TimeLog, error) {
	key := in.IdempotencyKey
	if key == "" || s.idempotency == nil {
		return nil, nil
	}
	id, found, err := s.idempotency.Lookup(ctx, userID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil, nil
	}
	if !found {
		return nil, nil
	}
	existing, err := s.logs.FindTimeLogByID(ctx, id)
	if err != nil {
		return nil, nil
	}
	if existing.ProjectID != in.ProjectID ||
		!existing.Hours.Equal(in.Hours) ||
		!domain.SameDay(existing.LogDate, in.LogDate) {
		s.log.Warn().Str("idempotency_key", key).Str("time_log_id", id).Msg("idempotency key reused with a different body")
		return nil, fmt.Errorf("%w: key %q belongs to time log %s", domain.ErrIdempotencyKeyReused, key, id)
	}
	metrics.IdempotentReplaysTotal.Inc()
	s.log.Info().Str("idempotency_key", key).Str("time_log_id", id).Msg("idempotent replay")
	return existing, nil
}

func validateCreate(actor domain.Actor, in ports.CreateTimeLogInput) (domain.TimeLogStatus, error) {
	if actor.UserID == "" {
		return "", fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}
	if in.ProjectID == "" {
		return "", fmt.Errorf("%w: project_id is required", domain.ErrValidation)
	}
	if in.LogDate.IsZero() {
		return "", fmt.Errorf("%w: log_date is required", domain.ErrValidation)
	}
	if err := domain.ValidateHours(in.Hours); err != nil {
		return "", err
	}
	if in.Status == "" {
		return domain.StatusTodo, nil
	}
	return domain.ParseTimeLogStatus(in.Status)
}

// GetTimeLog returns a log the actor is allowed to see.
func (s *TimeLogService) GetTimeLog(ctx context.Context, actor domain.Actor, id string) (*domain.TimeLog, error) {
	l, err := s.logs.FindTimeLogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor, l) {
		return nil, domain.ErrForbidden
	}
	return l, nil
}

// ListTimeLogs returns a page of logs. Employees are always scoped to their
// own logs; asking for another user's logs is forbidden.
func (s *TimeLogService) ListTimeLogs(ctx context.Context, actor domain.Actor, in ports.ListTimeLogsInput) (*ports.ListTimeLogsResult, error) {
	filter := in.Filter
	if !actor.IsAdmin() {
		if filter.UserID != "" && filter.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		filter.UserID = actor.UserID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, filter.Status)
	}

	all, err := s.logs.ListTimeLogs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list time logs: %w", err)
	}

	page, limit := normalizePage(in.Page, in.Limit, defaultTimeLogPageSize)
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))

	return &ports.ListTimeLogsResult{
		Items:      all[start:end],
		Total:      len(all),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(int64(len(all)), limit),
	}, nil
}

// UpdateTimeLogFields applies a partial update. Every field is validated
// before anything is written. A change of hours is re-checked against the
// daily cap without counting the log's current hours.
func (s *TimeLogService) UpdateTimeLogFields(ctx context.Context, actor domain.Actor, id string, patch domain.TimeLogPatch) (*domain.TimeLog, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	if patch.Hours != nil {
		if err := domain.ValidateHours(*patch.Hours); err != nil {
			return nil, err
		}
	}
	var requested domain.TimeLogStatus
	if patch.Status != nil {
		st, err := domain.ParseTimeLogStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		requested = st
	}

	existing, err := s.logs.FindTimeLogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor, existing) {
		metrics.TimeLogRejectionsTotal.WithLabelValues("forbidden").Inc()
		return nil, fmt.Errorf("%w: not authorized to update this time log", domain.ErrForbidden)
	}

	if patch.Hours != nil {
		unlock := s.userLocks.Lock(existing.UserID)
		defer unlock()

		// Re-read under the lock; the log may have changed or gone.
		if existing, err = s.logs.FindTimeLogByID(ctx, id); err != nil {
			return nil, err
		}
		if err := s.cap.Validate(ctx, existing.UserID, existing.LogDate, *patch.Hours, existing.ID); err != nil {
			if errors.Is(err, domain.ErrDailyCapExceeded) {
				metrics.TimeLogRejectionsTotal.WithLabelValues("daily_cap").Inc()
			}
			return nil, err
		}
	}

	if patch.Status != nil {
		next, err := domain.Transition(existing.Status, requested)
		if err != nil {
			return nil, err
		}
		st := string(next)
		patch.Status = &st
	}

	updated, err := s.logs.UpdateTimeLog(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if patch.AffectsBilling() {
		s.invalidator.Invalidate(updated.ProjectID)
	}
	s.log.Info().Str("time_log_id", id).Str("user_id", actor.UserID).Msg("time log updated")

	return updated, nil
}

// UpdateTimeLogStatus moves a log to another board column. Status is not part
// of any billing summary, so the cache is left alone.
func (s *TimeLogService) UpdateTimeLogStatus(ctx context.Context, actor domain.Actor, id, status string) (*domain.TimeLog, error) {
	return s.UpdateTimeLogFields(ctx, actor, id, domain.TimeLogPatch{Status: &status})
}

// DeleteTimeLog removes a log the actor may modify.
func (s *TimeLogService) DeleteTimeLog(ctx context.Context, actor domain.Actor, id string) (*domain.TimeLog, error) {
	existing, err := s.logs.FindTimeLogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanModify(actor, existing) {
		metrics.TimeLogRejectionsTotal.WithLabelValues("forbidden").Inc()
		return nil, fmt.Errorf("%w: not authorized to delete this time log", domain.ErrForbidden)
	}

	deleted, err := s.logs.DeleteTimeLog(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(deleted.ProjectID)
	s.log.Info().Str("time_log_id", id).Str("user_id", actor.UserID).Msg("time log deleted")

	return deleted, nil
}

func normalizePage(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
