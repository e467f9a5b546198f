package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// BillingAggregator derives billing summaries from the time logs of a
// project. It never mutates projects or logs.
type BillingAggregator struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	logs     ports.TimeLogRepository
	now      func() time.Time
}

func NewBillingAggregator(projects ports.ProjectRepository, users ports.UserRepository, logs ports.TimeLogRepository) *BillingAggregator {
	return &BillingAggregator{projects: projects, users: users, logs: logs, now: time.Now}
}

// Summarize computes total hours and amount for a project along with per-user
// and per-day breakdowns. Archived projects are still summarizable.
//
// Logs are walked in (log_date, created_at, id) order, which fixes the order of
// HoursByUser (first occurrence) independently of insertion order. HoursByDate
// is sorted by date.
func (a *BillingAggregator) Summarize(ctx context.Context, projectID string) (*domain.BillingSummary, error) {
	project, err := a.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	logs, err := a.logs.ListTimeLogs(ctx, ports.TimeLogFilter{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("summarize %s: list time logs: %w", projectID, err)
	}
	sortCanonical(logs)

	rate := project.BillingRate
	total := decimal.Zero
	userIdx := make(map[string]int)
	dateIdx := make(map[string]int)
	var byUser []domain.UserHours
	var byDate []domain.DateHours

	for _, l := range logs {
		if err := checkLog(l, projectID); err != nil {
			return nil, fmt.Errorf("summarize %s: %w", projectID, err)
		}
		total = total.Add(l.Hours)

		i, ok := userIdx[l.UserID]
		if !ok {
			row, err := a.userRow(ctx, l.UserID)
			if err != nil {
				return nil, fmt.Errorf("summarize %s: %w", projectID, err)
			}
			i = len(byUser)
			userIdx[l.UserID] = i
			byUser = append(byUser, row)
		}
		byUser[i].Hours = byUser[i].Hours.Add(l.Hours)

		day := l.Day()
		j, ok := dateIdx[day]
		if !ok {
			j = len(byDate)
			dateIdx[day] = j
			byDate = append(byDate, domain.DateHours{Date: day, Hours: decimal.Zero})
		}
		byDate[j].Hours = byDate[j].Hours.Add(l.Hours)
	}

	// Amounts come from summed hours so rounding happens once per row.
	for i := range byUser {
		byUser[i].Amount = domain.Amount(byUser[i].Hours, rate)
	}
	for j := range byDate {
		byDate[j].Amount = domain.Amount(byDate[j].Hours, rate)
	}
	sort.Slice(byDate, func(x, y int) bool { return byDate[x].Date < byDate[y].Date })

	if byUser == nil {
		byUser = []domain.UserHours{}
	}
	if byDate == nil {
		byDate = []domain.DateHours{}
	}

	return &domain.BillingSummary{
		Project: domain.ProjectHeader{
			ID:          project.ID,
			Name:        project.Name,
			BillingRate: rate,
			Status:      project.Status,
		},
		TotalHours:  total,
		TotalAmount: domain.Amount(total, rate),
		HoursByUser: byUser,
		HoursByDate: byDate,
		ComputedAt:  a.now().UTC(),
	}, nil
}

// userRow resolves a log author. Authors missing from the store get a
// placeholder row rather than being dropped.
func (a *BillingAggregator) userRow(ctx context.Context, userID string) (domain.UserHours, error) {
	row := domain.UserHours{UserID: userID, Hours: decimal.Zero}
	u, err := a.users.FindUserByID(ctx, userID)
	switch {
	case err == nil:
		row.Name = u.Name
		row.Email = u.Email
	case errors.Is(err, domain.ErrUserNotFound):
		row.Name = domain.UnknownUserName
	default:
		return row, fmt.Errorf("resolve user %s: %w", userID, err)
	}
	return row, nil
}

// checkLog rejects logs that cannot have been committed through the write
// path. These surface as internal errors, not validation errors.
func checkLog(l *domain.TimeLog, projectID string) error {
	if l == nil {
		return errors.New("nil time log in dataset")
	}
	if l.ProjectID != projectID {
		return fmt.Errorf("time log %s belongs to project %s", l.ID, l.ProjectID)
	}
	if l.Hours.LessThan(domain.MinLogHours) || l.Hours.GreaterThan(domain.MaxLogHours) {
		return fmt.Errorf("time log %s has out-of-range hours %s", l.ID, l.Hours)
	}
	return nil
}

func sortCanonical(logs []*domain.TimeLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if !a.LogDate.Equal(b.LogDate) {
			return a.LogDate.Before(b.LogDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
