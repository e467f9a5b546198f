// Package memory is the in-process entity store. It keeps users, projects and
// time logs in maps guarded by a single RWMutex and hands out copies only.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	projects map[string]*domain.Project
	logs     map[string]*domain.TimeLog
	newID    func() string
}

var (
	_ ports.UserRepository    = (*Store)(nil)
	_ ports.ProjectRepository = (*Store)(nil)
	_ ports.TimeLogRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		projects: make(map[string]*domain.Project),
		logs:     make(map[string]*domain.TimeLog),
		newID:    uuid.NewString,
	}
}

// --- Users ---

func (s *Store) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) InsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	u := copyUser(user)
	if u.ID == "" {
		u.ID = s.newID()
	}
	if _, taken := s.users[u.ID]; taken {
		return nil, domain.ErrUserExists
	}
	s.users[u.ID] = u
	return copyUser(u), nil
}

func (s *Store) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserExists
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	return copyUser(existing), nil
}

// --- Projects ---

func (s *Store) FindProjectByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return copyProject(p), nil
}

// ListProjects returns projects newest first.
func (s *Store) ListProjects(_ context.Context, filter ports.ProjectFilter) ([]*domain.Project, int64, error) {
	s.mu.RLock()
	matched := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, p.Status) {
			continue
		}
		matched = append(matched, copyProject(p))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	start := min(max(filter.Skip, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func (s *Store) InsertProject(_ context.Context, project *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := copyProject(project)
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.projects[p.ID] = p
	return copyProject(p), nil
}

func (s *Store) UpdateProject(_ context.Context, project *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	p := copyProject(project)
	s.projects[p.ID] = p
	return copyProject(p), nil
}

// --- Time logs ---

func (s *Store) FindTimeLogByID(_ context.Context, id string) (*domain.TimeLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrTimeLogNotFound
	}
	return copyTimeLog(l), nil
}

// ListTimeLogs returns matching logs ordered by (log_date, created_at, id).
func (s *Store) ListTimeLogs(_ context.Context, filter ports.TimeLogFilter) ([]*domain.TimeLog, error) {
	s.mu.RLock()
	out := make([]*domain.TimeLog, 0)
	for _, l := range s.logs {
		if filter.ProjectID != "" && l.ProjectID != filter.ProjectID {
			continue
		}
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Date != nil && !domain.SameDay(l.LogDate, *filter.Date) {
			continue
		}
		out = append(out, copyTimeLog(l))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.LogDate.Equal(b.LogDate) {
			return a.LogDate.Before(b.LogDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (s *Store) InsertTimeLog(_ context.Context, log *domain.TimeLog) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := copyTimeLog(log)
	if l.ID == "" {
		l.ID = s.newID()
	}
	s.logs[l.ID] = l
	return copyTimeLog(l), nil
}

func (s *Store) UpdateTimeLog(_ context.Context, id string, patch domain.TimeLogPatch, updatedAt time.Time) (*domain.TimeLog, error) {
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
	return copyTimeLog(l), nil
}

func (s *Store) DeleteTimeLog(_ context.Context, id string) (*domain.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[id]
	if !ok {
		return nil, domain.ErrTimeLogNotFound
	}
	delete(s.logs, id)
	return copyTimeLog(l), nil
}

func hasStatus(list []domain.ProjectStatus, st domain.ProjectStatus) bool {
	for _, v := range list {
		if v == st {
			return true
		}
	}
	return false
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copyProject(p *domain.Project) *domain.Project {
	c := *p
	return &c
}

func copyTimeLog(l *domain.TimeLog) *domain.TimeLog {
	c := *l
	return &c
}
