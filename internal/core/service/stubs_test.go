package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

// stubStore implements the project, user and time log repositories on plain
// maps. It is safe for concurrent use so the locking tests can share it.
type stubStore struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	users    map[string]*domain.User
	logs     map[string]*domain.TimeLog
	seq      int

	listErr error // if set, ListTimeLogs returns this error
}

func newStubStore() *stubStore {
	return &stubStore{
		projects: make(map[string]*domain.Project),
		users:    make(map[string]*domain.User),
		logs:     make(map[string]*domain.TimeLog),
	}
}

func (s *stubStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%d", prefix, s.seq)
}

func (s *stubStore) FindProjectByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *stubStore) ListProjects(_ context.Context, f ports.ProjectFilter) ([]*domain.Project, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*domain.Project
	for _, p := range s.projects {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := min(f.Skip, len(matched))
	end := len(matched)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func containsStatus(list []domain.ProjectStatus, s domain.ProjectStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *stubStore) InsertProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *p
	if clone.ID == "" {
		clone.ID = s.nextID("prj")
	}
	stored := clone
	s.projects[clone.ID] = &stored
	return &clone, nil
}

func (s *stubStore) UpdateProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	stored := *p
	s.projects[p.ID] = &stored
	clone := *p
	return &clone, nil
}

func (s *stubStore) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubStore) InsertUser(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = s.nextID("usr")
	}
	stored := clone
	s.users[clone.ID] = &stored
	return &clone, nil
}

func (s *stubStore) UpdateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	existing.Name = u.Name
	existing.Email = u.Email
	clone := *existing
	return &clone, nil
}

func (s *stubStore) FindTimeLogByID(_ context.Context, id string) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrTimeLogNotFound
	}
	clone := *l
	return &clone, nil
}

func (s *stubStore) ListTimeLogs(_ context.Context, f ports.TimeLogFilter) ([]*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*domain.TimeLog
	for _, l := range s.logs {
		if f.ProjectID != "" && l.ProjectID != f.ProjectID {
			continue
		}
		if f.UserID != "" && l.UserID != f.UserID {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Date != nil && !domain.SameDay(l.LogDate, *f.Date) {
			continue
		}
		clone := *l
		out = append(out, &clone)
	}
	sortCanonical(out)
	return out, nil
}

func (s *stubStore) InsertTimeLog(_ context.Context, l *domain.TimeLog) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *l
	if clone.ID == "" {
		clone.ID = s.nextID("log")
	}
	stored := clone
	s.logs[clone.ID] = &stored
	return &clone, nil
}

func (s *stubStore) UpdateTimeLog(_ context.Context, id string, patch domain.TimeLogPatch, updatedAt time.Time) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrTimeLogNotFound
	}
	if patch.Hours != nil {
		l.Hours = *patch.Hours
	}
	if patch.Notes != nil {
		l.Notes = *patch.Notes
	}
	if patch.Status != nil {
		l.Status = domain.TimeLogStatus(*patch.Status)
	}
	l.UpdatedAt = updatedAt
	clone := *l
	return &clone, nil
}

func (s *stubStore) DeleteTimeLog(_ context.Context, id string) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrTimeLogNotFound
	}
	delete(s.logs, id)
	return l, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func (s *stubStore) addProject(id string, rate string, status domain.ProjectStatus) *domain.Project {
	p := &domain.Project{
		ID:          id,
		Name:        "Project " + id,
		BillingRate: decimal.RequireFromString(rate),
		Status:      status,
		CreatedBy:   "admin",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.projects[id] = p
	return p
}

func (s *stubStore) addUser(id, name, role string) {
	s.users[id] = &domain.User{ID: id, Name: name, Email: id + "@example.com", Role: role}
}

func (s *stubStore) addLog(id, projectID, userID, hours, day string) *domain.TimeLog {
	date := mustDay(day)
	l := &domain.TimeLog{
		ID:        id,
		ProjectID: projectID,
		UserID:    userID,
		Hours:     decimal.RequireFromString(hours),
		LogDate:   date,
		Status:    domain.StatusTodo,
		CreatedAt: date.Add(time.Hour),
		UpdatedAt: date.Add(time.Hour),
	}
	s.logs[id] = l
	return l
}

func mustDay(day string) time.Time {
	t, err := time.Parse(domain.DayLayout, day)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// recordingInvalidator counts invalidations per project.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls map[string]int
}

func newRecordingInvalidator() *recordingInvalidator {
	return &recordingInvalidator{calls: make(map[string]int)}
}

func (r *recordingInvalidator) Invalidate(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[projectID]++
}

func (r *recordingInvalidator) count(projectID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[projectID]
}
