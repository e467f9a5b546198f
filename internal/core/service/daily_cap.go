package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// DailyCapValidator decides whether logging more hours for a user on a given
// day would push the day's total past domain.DailyHoursCap. It only reads.
type DailyCapValidator struct {
	logs ports.TimeLogRepository
}

func NewDailyCapValidator(logs ports.TimeLogRepository) *DailyCapValidator {
	return &DailyCapValidator{logs: logs}
}

// Validate returns domain.ErrDailyCapExceeded when the user's existing hours on
// logDate's UTC day plus proposed exceed the cap. excludingLogID, when set,
// leaves that log out of the existing total so an update does not count
// itself twice. Exactly reaching the cap is allowed.
func (v *DailyCapValidator) Validate(ctx context.Context, userID string, logDate time.Time, proposed decimal.Decimal, excludingLogID string) error {
	existing, err := v.DayTotal(ctx, userID, logDate, excludingLogID)
	if err != nil {
		return err
	}
	if existing.Add(proposed).GreaterThan(domain.DailyHoursCap) {
		return fmt.Errorf("%w: %s hours already logged on %s, adding %s would exceed %s",
			domain.ErrDailyCapExceeded, existing, domain.TruncateDay(logDate).Format(domain.DayLayout), proposed, domain.DailyHoursCap)
	}
	return nil
}

// DayTotal sums the user's hours on logDate's UTC day.
func (v *DailyCapValidator) DayTotal(ctx context.Context, userID string, logDate time.Time, excludingLogID string) (decimal.Decimal, error) {
	day := domain.TruncateDay(logDate)
	logs, err := v.logs.ListTimeLogs(ctx, ports.TimeLogFilter{UserID: userID, Date: &day})
	if err != nil {
		return decimal.Zero, fmt.Errorf("daily cap: list time logs: %w", err)
	}

	total := decimal.Zero
	for _, l := range logs {
		if excludingLogID != "" && l.ID == excludingLogID {
			continue
		}
		total = total.Add(l.Hours)
	}
	return total, nil
}
