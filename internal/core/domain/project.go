package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// projectTransitions lists the allowed project lifecycle moves. Archived is
// terminal.
var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectActive:    {ProjectCompleted, ProjectArchived},
	ProjectCompleted: {ProjectArchived},
}

const (
	projectNameMin        = 3
	projectNameMax        = 100
	projectDescriptionMax = 500
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a move from s to next is allowed. Staying
// in the same status is always allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Project is a billable unit of work.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BillingRate decimal.Decimal `json:"billing_rate"`
	Status      ProjectStatus   `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IsArchived reports whether the project rejects new time logs.
func (p *Project) IsArchived() bool { return p.Status == ProjectArchived }

// ValidateProjectName checks the trimmed name length.
func ValidateProjectName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < projectNameMin || n > projectNameMax {
		return fmt.Errorf("%w: name must be between %d and %d characters", ErrValidation, projectNameMin, projectNameMax)
	}
	return nil
}

func ValidateProjectDescription(desc string) error {
	if utf8.RuneCountInString(desc) > projectDescriptionMax {
		return fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, projectDescriptionMax)
	}
	return nil
}

// ValidateBillingRate enforces billing_rate >= 0.
func ValidateBillingRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: billing rate cannot be negative", ErrValidation)
	}
	return nil
}
