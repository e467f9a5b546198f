// Package seed loads the demo data set: one administrator, two employees,
// four projects and six time logs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// AdminEmail identifies the seeded administrator. Its presence means the
// store has already been seeded.
const AdminEmail = "admin@example.com"

type demoUser struct {
	id, name, email, password, role string
}

var demoUsers = []demoUser{
	{"1", "Admin User", AdminEmail, "password123", domain.RoleAdmin},
	{"2", "Employee User", "employee@example.com", "password123", domain.RoleEmployee},
	{"3", "Ibad Ahmed Khan", "ibad@gmail.com", "123456", domain.RoleEmployee},
}

var demoProjects = []domain.Project{
	{ID: "1", Name: "E-commerce Website", Description: "Build a full-featured e-commerce platform with payment integration", BillingRate: decimal.NewFromInt(50), Status: domain.ProjectActive, CreatedBy: "1", CreatedAt: at("2024-01-15T10:30:00Z")},
	{ID: "2", Name: "Mobile App Development", Description: "Cross-platform mobile application for iOS and Android", BillingRate: decimal.NewFromInt(65), Status: domain.ProjectActive, CreatedBy: "1", CreatedAt: at("2024-01-10T14:20:00Z")},
	{ID: "3", Name: "API Integration", Description: "Third-party API integration project", BillingRate: decimal.NewFromInt(45), Status: domain.ProjectCompleted, CreatedBy: "1", CreatedAt: at("2024-01-05T09:15:00Z")},
	{ID: "4", Name: "Dashboard Redesign", Description: "Modernize user dashboard interface", BillingRate: decimal.NewFromInt(55), Status: domain.ProjectActive, CreatedBy: "1", CreatedAt: at("2024-01-20T09:00:00Z")},
}

var demoLogs = []domain.TimeLog{
	{ID: "1", ProjectID: "1", UserID: "2", Hours: decimal.NewFromInt(8), Notes: "User authentication implementation", LogDate: at("2024-01-15T00:00:00Z"), Status: domain.StatusDone, CreatedAt: at("2024-01-15T09:00:00Z")},
	{ID: "2", ProjectID: "1", UserID: "2", Hours: decimal.NewFromInt(6), Notes: "Frontend dashboard design", LogDate: at("2024-01-16T00:00:00Z"), Status: domain.StatusInProgress, CreatedAt: at("2024-01-16T10:30:00Z")},
	{ID: "3", ProjectID: "1", UserID: "3", Hours: decimal.RequireFromString("7.5"), Notes: "Backend API development", LogDate: at("2024-01-15T00:00:00Z"), Status: domain.StatusDone, CreatedAt: at("2024-01-15T14:20:00Z")},
	{ID: "4", ProjectID: "1", UserID: "2", Hours: decimal.NewFromInt(4), Notes: "Database schema design", LogDate: at("2024-01-17T00:00:00Z"), Status: domain.StatusTodo, CreatedAt: at("2024-01-17T11:15:00Z")},
	{ID: "5", ProjectID: "2", UserID: "3", Hours: decimal.NewFromInt(5), Notes: "Mobile UI design", LogDate: at("2024-01-18T00:00:00Z"), Status: domain.StatusInProgress, CreatedAt: at("2024-01-18T13:45:00Z")},
	{ID: "6", ProjectID: "2", UserID: "2", Hours: decimal.NewFromInt(3), Notes: "Setup development environment", LogDate: at("2024-01-19T00:00:00Z"), Status: domain.StatusTodo, CreatedAt: at("2024-01-19T10:00:00Z")},
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Load inserts the demo data through the repositories. It is a no-op when
// the seeded administrator already exists. It reports whether data was loaded.
func Load(ctx context.Context, users ports.UserRepository, projects ports.ProjectRepository, logs ports.TimeLogRepository) (bool, error) {
	if _, err := users.FindUserByEmail(ctx, AdminEmail); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("seed: check admin: %w", err)
	}

	created := at("2024-01-01T00:00:00Z")
	for _, du := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(du.password), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("seed: hash password: %w", err)
		}
		u := &domain.User{ID: du.id, Name: du.name, Email: du.email, PasswordHash: string(hash), Role: du.role, CreatedAt: created}
		if _, err := users.InsertUser(ctx, u); err != nil {
			return false, fmt.Errorf("seed: insert user %s: %w", du.email, err)
		}
	}

	for i := range demoProjects {
		p := demoProjects[i]
		if _, err := projects.InsertProject(ctx, &p); err != nil {
			return false, fmt.Errorf("seed: insert project %s: %w", p.ID, err)
		}
	}

	for i := range demoLogs {
		l := demoLogs[i]
		l.UpdatedAt = l.CreatedAt
		if _, err := logs.InsertTimeLog(ctx, &l); err != nil {
			return false, fmt.Errorf("seed: insert time log %s: %w", l.ID, err)
		}
	}

	return true, nil
}
