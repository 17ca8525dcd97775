// Package memory is an in-process implementation of the repositories, used
// by tests and by the API when database.driver is "memory".
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

// Store keeps every table in maps guarded by one lock
type Store struct {
	mu           sync.RWMutex
	nextID       int64
	categories   map[int64]domain.Category
	jobs         map[int64]domain.Job
	applications map[int64]domain.Application
	adminUsers   map[int64]domain.AdminUser
	sessions     map[string]domain.Session
}

func New() *Store {
	return &Store{
		categories:   make(map[int64]domain.Category),
		jobs:         make(map[int64]domain.Job),
		applications: make(map[int64]domain.Application),
		adminUsers:   make(map[int64]domain.AdminUser),
		sessions:     make(map[string]domain.Session),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, name string, createdAt time.Time) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := domain.Category{ID: s.id(), Name: name, CreatedAt: createdAt}
	s.categories[c.ID] = c
	return &c, nil
}

// withCategory fills the joined category name; the caller holds the lock
func (s *Store) withCategory(job domain.Job) domain.Job {
	job.Category = ""
	if job.CategoryID != nil {
		if c, ok := s.categories[*job.CategoryID]; ok {
			job.Category = c.Name
		}
	}
	return job
}

func (s *Store) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := filter.Status
	if status == "" {
		status = domain.JobStatusActive
	}

	jobs := make([]domain.Job, 0)
	for _, job := range s.jobs {
		if status != domain.JobStatusAll && job.Status != status {
			continue
		}
		if filter.CategoryID > 0 && (job.CategoryID == nil || *job.CategoryID != filter.CategoryID) {
			continue
		}
		jobs = append(jobs, s.withCategory(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].PostedDate.Equal(jobs[j].PostedDate) {
			return jobs[i].PostedDate.After(jobs[j].PostedDate)
		}
		return jobs[i].ID > jobs[j].ID
	})
	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	job = s.withCategory(job)
	return &job, nil
}

func (s *Store) CreateJob(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.CategoryID != nil {
		if _, ok := s.categories[*job.CategoryID]; !ok {
			return fmt.Errorf("failed to create job: category %d does not exist", *job.CategoryID)
		}
	}

	job.ID = s.id()
	s.jobs[job.ID] = *job
	return nil
}

func (s *Store) UpdateJob(ctx context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[job.ID]
	if !ok {
		return domain.ErrJobNotFound
	}
	if job.CategoryID != nil {
		if _, ok := s.categories[*job.CategoryID]; !ok {
			return fmt.Errorf("failed to update job: category %d does not exist", *job.CategoryID)
		}
	}

	updated := *job
	updated.PostedDate = existing.PostedDate
	updated.CreatedAt = existing.CreatedAt
	s.jobs[job.ID] = updated
	return nil
}

// DeleteJob leaves applications of the job in place, like the SQL schema
func (s *Store) DeleteJob(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return domain.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

// withJobTitle fills the joined job title; the caller holds the lock
func (s *Store) withJobTitle(app domain.Application) domain.Application {
	app.JobTitle = ""
	if job, ok := s.jobs[app.JobID]; ok {
		app.JobTitle = job.Title
	}
	return app
}

func (s *Store) ListApplications(ctx context.Context, jobID int64) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]domain.Application, 0)
	for _, app := range s.applications {
		if jobID > 0 && app.JobID != jobID {
			continue
		}
		apps = append(apps, s.withJobTitle(app))
	}
	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].CreatedAt.After(apps[j].CreatedAt)
		}
		return apps[i].ID > apps[j].ID
	})
	return apps, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app.ID = s.id()
	s.applications[app.ID] = *app
	return nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status string, updatedAt time.Time) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = &updatedAt
	s.applications[id] = app

	app = s.withJobTitle(app)
	return &app, nil
}

func (s *Store) GetAdminUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.adminUsers {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrAdminUserNotFound
}

func (s *Store) CreateAdminUser(ctx context.Context, user *domain.AdminUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.adminUsers {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("failed to create admin user %s: %w", user.Email, domain.ErrAdminUserExists)
		}
	}
	user.ID = s.id()
	s.adminUsers[user.ID] = *user
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adminUsers[session.UserID]; !ok {
		return fmt.Errorf("failed to create session: admin user %d does not exist", session.UserID)
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetSessionIdentity(ctx context.Context, sessionID string, now time.Time) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || !session.Valid(now) {
		return nil, domain.ErrSessionNotFound
	}
	user, ok := s.adminUsers[session.UserID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// SessionCount reports how many session rows exist, expired ones included
func (s *Store) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// HealthCheck always succeeds
func (s *Store) HealthCheck(ctx context.Context) error {
	return nil
}
