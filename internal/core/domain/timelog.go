package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLogStatus is the work status of a time log, shown as a column on the
// drag-and-drop board.
type TimeLogStatus string

const (
	StatusTodo       TimeLogStatus = "todo"
	StatusInProgress TimeLogStatus = "in-progress"
	StatusDone       TimeLogStatus = "done"
)

// DayLayout is the ISO calendar date format used for log dates.
const DayLayout = "2006-01-02"

var (
	MinLogHours   = decimal.RequireFromString("0.5")
	MaxLogHours   = decimal.NewFromInt(12)
	DailyHoursCap = decimal.NewFromInt(12)
)

// ParseTimeLogStatus accepts exactly "todo", "in-progress" and "done".
func ParseTimeLogStatus(s string) (TimeLogStatus, error) {
	st := TimeLogStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: invalid status %q, must be todo, in-progress, or done", ErrValidation, s)
	}
	return st, nil
}

func (s TimeLogStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Transition moves a log from current to requested. Every status is reachable
// from every other in one step; only values outside the board's three columns
// are rejected.
func Transition(current, requested TimeLogStatus) (TimeLogStatus, error) {
	if !requested.Valid() {
		return current, fmt.Errorf("%w: invalid status %q, must be todo, in-progress, or done", ErrValidation, requested)
	}
	return requested, nil
}

// TimeLog is a dated record of hours worked by a user on a project.
type TimeLog struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	UserID    string          `json:"user_id"`
	Hours     decimal.Decimal `json:"hours"`
	Notes     string          `json:"notes"`
	LogDate   time.Time       `json:"log_date"`
	Status    TimeLogStatus   `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Day returns the log's calendar day as an ISO date.
func (l *TimeLog) Day() string {
	return TruncateDay(l.LogDate).Format(DayLayout)
}

// ValidateHours enforces 0.5 <= hours <= 12.
func ValidateHours(hours decimal.Decimal) error {
	if hours.LessThan(MinLogHours) || hours.GreaterThan(MaxLogHours) {
		return fmt.Errorf("%w: hours must be between %s and %s", ErrValidation, MinLogHours, MaxLogHours)
	}
	return nil
}

// TruncateDay returns midnight UTC of t's UTC calendar day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateDay(a).Equal(TruncateDay(b))
}

// ParseLogDate accepts an ISO date or an RFC 3339 timestamp.
func ParseLogDate(s string) (time.Time, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: log_date must be YYYY-MM-DD or RFC 3339", ErrValidation)
	}
	return t.UTC(), nil
}

// TimeLogPatch enumerates the fields a caller may change on an existing log.
// Nil fields are left untouched.
type TimeLogPatch struct {
	Hours  *decimal.Decimal
	Notes  *string
	Status *string
}

// Empty reports whether the patch carries no changes.
func (p TimeLogPatch) Empty() bool {
	return p.Hours == nil && p.Notes == nil && p.Status == nil
}

// AffectsBilling reports whether applying the patch can change billing
// output. Status is not part of any summary.
func (p TimeLogPatch) AffectsBilling() bool {
	return p.Hours != nil || p.Notes != nil
}
