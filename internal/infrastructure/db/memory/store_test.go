package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
	"github.com/billable/timesheet-api/internal/infrastructure/db/seed"
)

func day(s string) time.Time {
	t, _ := time.Parse(domain.DayLayout, s)
	return t
}

func TestStore_UsersUniqueEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.InsertUser(ctx, &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleEmployee})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.InsertUser(ctx, &domain.User{Name: "Other", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	found, err := s.FindUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStore_UpdateUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	alice, err := s.InsertUser(ctx, &domain.User{Name: "Alice", Email: "alice@example.com", Role: domain.RoleEmployee, PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.InsertUser(ctx, &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleEmployee})
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, &domain.User{ID: alice.ID, Name: "Alice", Email: "BOB@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.UpdateUser(ctx, &domain.User{ID: "missing", Name: "X", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	updated, err := s.UpdateUser(ctx, &domain.User{ID: alice.ID, Name: "Alicia", Email: "alicia@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, domain.RoleEmployee, updated.Role, "role is not a profile field")
	assert.Equal(t, "h", updated.PasswordHash)

	updated.Name = "Mutated"
	found, err := s.FindUserByEmail(ctx, "alicia@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", found.Name)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p, err := s.InsertProject(ctx, &domain.Project{Name: "Original", BillingRate: decimal.NewFromInt(10), Status: domain.ProjectActive})
	require.NoError(t, err)
	p.Name = "Mutated"

	again, err := s.FindProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func TestStore_ListProjects(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []domain.ProjectStatus{domain.ProjectActive, domain.ProjectArchived, domain.ProjectCompleted} {
		_, err := s.InsertProject(ctx, &domain.Project{Name: string(st), Status: st, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	all, total, err := s.ListProjects(ctx, ports.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "completed", all[0].Name, "newest first")

	visible, total, err := s.ListProjects(ctx, ports.ProjectFilter{Statuses: []domain.ProjectStatus{domain.ProjectActive, domain.ProjectCompleted}, Skip: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, visible, 1)
	assert.Equal(t, "active", visible[0].Name)

	_, err = s.UpdateProject(ctx, &domain.Project{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestStore_ListTimeLogs_FiltersAndOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	created := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	insert := func(id, project, user, date string, offset time.Duration) {
		_, err := s.InsertTimeLog(ctx, &domain.TimeLog{
			ID: id, ProjectID: project, UserID: user, Hours: decimal.NewFromInt(1),
			LogDate: day(date), Status: domain.StatusTodo, CreatedAt: created.Add(offset),
		})
		require.NoError(t, err)
	}
	insert("c", "p1", "u1", "2024-01-16", 0)
	insert("b", "p1", "u2", "2024-01-15", time.Minute)
	insert("a", "p1", "u1", "2024-01-15", time.Minute)
	insert("d", "p2", "u1", "2024-01-15", 0)

	logs, err := s.ListTimeLogs(ctx, ports.TimeLogFilter{ProjectID: "p1"})
	require.NoError(t, err)
	var ids []string
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	d := day("2024-01-15").Add(15 * time.Hour)
	logs, err = s.ListTimeLogs(ctx, ports.TimeLogFilter{UserID: "u1", Date: &d})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestStore_UpdateAndDeleteTimeLog(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	l, err := s.InsertTimeLog(ctx, &domain.TimeLog{ProjectID: "p1", UserID: "u1", Hours: decimal.NewFromInt(2), LogDate: day("2024-01-15"), Status: domain.StatusTodo})
	require.NoError(t, err)

	hours := decimal.NewFromInt(3)
	status := string(domain.StatusDone)
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	updated, err := s.UpdateTimeLog(ctx, l.ID, domain.TimeLogPatch{Hours: &hours, Status: &status}, now)
	require.NoError(t, err)
	assert.True(t, updated.Hours.Equal(hours))
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Equal(t, now, updated.UpdatedAt)

	s.mu.RLock()
	stored := s.logs[l.ID]
	s.mu.RUnlock()

	deleted, err := s.DeleteTimeLog(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ID, deleted.ID)
	assert.NotSame(t, stored, deleted)
	assert.True(t, deleted.Hours.Equal(hours))

	_, err = s.FindTimeLogByID(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrTimeLogNotFound)
	_, err = s.UpdateTimeLog(ctx, l.ID, domain.TimeLogPatch{Hours: &hours}, now)
	assert.ErrorIs(t, err, domain.ErrTimeLogNotFound)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.InsertTimeLog(ctx, &domain.TimeLog{ProjectID: "p1", UserID: "u1", Hours: decimal.NewFromInt(1), LogDate: day("2024-01-15")})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.ListTimeLogs(ctx, ports.TimeLogFilter{ProjectID: "p1"})
		}()
	}
	wg.Wait()

	logs, err := s.ListTimeLogs(ctx, ports.TimeLogFilter{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Len(t, logs, 50)
}

func TestSeed_LoadsDemoDataOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	loaded, err := seed.Load(ctx, s, s, s)
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = seed.Load(ctx, s, s, s)
	require.NoError(t, err)
	assert.False(t, loaded)

	_, total, err := s.ListProjects(ctx, ports.ProjectFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	p1, err := s.ListTimeLogs(ctx, ports.TimeLogFilter{ProjectID: "1"})
	require.NoError(t, err)
	assert.Len(t, p1, 4)

	admin, err := s.FindUserByEmail(ctx, seed.AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}
