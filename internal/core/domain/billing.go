package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places money amounts are rounded to.
const AmountPlaces = 2

// UnknownUserName is reported for log authors missing from the user store.
const UnknownUserName = "Unknown user"

// ProjectHeader identifies the project a billing summary belongs to.
type ProjectHeader struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	BillingRate decimal.Decimal `json:"billing_rate"`
	Status      ProjectStatus   `json:"status"`
}

// UserHours is the per-user breakdown row of a billing summary.
type UserHours struct {
	UserID string          `json:"user_id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Hours  decimal.Decimal `json:"hours"`
	Amount decimal.Decimal `json:"amount"`
}

// DateHours is the per-day breakdown row of a billing summary.
type DateHours struct {
	Date   string          `json:"date"`
	Hours  decimal.Decimal `json:"hours"`
	Amount decimal.Decimal `json:"amount"`
}

// BillingSummary is the derived billing view of a project.
type BillingSummary struct {
	Project     ProjectHeader   `json:"project"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	HoursByUser []UserHours     `json:"hours_by_user"`
	HoursByDate []DateHours     `json:"hours_by_date"`
	ComputedAt  time.Time       `json:"computed_at"`
}

// Amount returns hours*rate rounded to AmountPlaces.
func Amount(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate).Round(AmountPlaces)
}

// Clone returns a deep copy so cached snapshots cannot be mutated by callers.
func (s *BillingSummary) Clone() *BillingSummary {
	if s == nil {
		return nil
	}
	out := *s
	out.HoursByUser = make([]UserHours, len(s.HoursByUser))
	copy(out.HoursByUser, s.HoursByUser)
	out.HoursByDate = make([]DateHours, len(s.HoursByDate))
	copy(out.HoursByDate, s.HoursByDate)
	return &out
}
