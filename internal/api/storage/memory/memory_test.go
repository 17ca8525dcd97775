package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

func seedJob(t *testing.T, s *Store, title string, categoryID int64, status string, posted time.Time) *domain.Job {
	t.Helper()
	job := &domain.Job{
		Title:      title,
		CategoryID: &categoryID,
		Status:     status,
		PostedDate: posted,
		CreatedAt:  posted,
	}
	require.NoError(t, s.CreateJob(context.Background(), job))
	return job
}

func TestStore_ListJobs(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	eng, err := s.CreateCategory(ctx, "Engineering", base)
	require.NoError(t, err)
	sales, err := s.CreateCategory(ctx, "Sales", base)
	require.NoError(t, err)

	older := seedJob(t, s, "Backend", eng.ID, domain.JobStatusActive, base)
	newer := seedJob(t, s, "Frontend", eng.ID, domain.JobStatusActive, base.Add(time.Hour))
	seedJob(t, s, "Closed", eng.ID, domain.JobStatusClosed, base.Add(2*time.Hour))
	seedJob(t, s, "Account Exec", sales.ID, domain.JobStatusActive, base)

	tests := []struct {
		name   string
		filter domain.JobFilter
		want   []string
	}{
		{name: "active by default", filter: domain.JobFilter{}, want: []string{"Frontend", "Account Exec", "Backend"}},
		{name: "by category", filter: domain.JobFilter{CategoryID: eng.ID}, want: []string{"Frontend", "Backend"}},
		{name: "all statuses", filter: domain.JobFilter{CategoryID: eng.ID, Status: domain.JobStatusAll}, want: []string{"Closed", "Frontend", "Backend"}},
		{name: "closed only", filter: domain.JobFilter{Status: domain.JobStatusClosed}, want: []string{"Closed"}},
		{name: "unknown category", filter: domain.JobFilter{CategoryID: 999}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := s.ListJobs(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(jobs))
			for _, j := range jobs {
				titles = append(titles, j.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	got, err := s.GetJob(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Category)
	assert.NotEqual(t, older.ID, newer.ID)
}

func TestStore_DeleteJobKeepsApplications(t *testing.T) {
	s := New()
	ctx := context.Background()
	cat, _ := s.CreateCategory(ctx, "Engineering", time.Now())
	job := seedJob(t, s, "Backend", cat.ID, domain.JobStatusActive, time.Now())

	app := &domain.Application{JobID: job.ID, FullName: "Jane Doe", Email: "jane@x.com", Status: domain.ApplicationStatusNew, CreatedAt: time.Now()}
	require.NoError(t, s.CreateApplication(ctx, app))

	require.NoError(t, s.DeleteJob(ctx, job.ID))
	assert.ErrorIs(t, s.DeleteJob(ctx, job.ID), domain.ErrJobNotFound)

	apps, err := s.ListApplications(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Empty(t, apps[0].JobTitle)
}

func TestStore_Sessions(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	user := &domain.AdminUser{Email: "admin@example.com", PasswordHash: "x", CreatedAt: now}
	require.NoError(t, s.CreateAdminUser(ctx, user))
	assert.ErrorIs(t, s.CreateAdminUser(ctx, &domain.AdminUser{Email: "ADMIN@example.com"}), domain.ErrAdminUserExists)

	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "live", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.CreateSession(ctx, &domain.Session{ID: "stale", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}))
	assert.Error(t, s.CreateSession(ctx, &domain.Session{ID: "orphan", UserID: 404, ExpiresAt: now}))

	identity, err := s.GetSessionIdentity(ctx, "live", now)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", identity.Email)

	_, err = s.GetSessionIdentity(ctx, "stale", now)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, s.DeleteSession(ctx, "live"))
	require.NoError(t, s.DeleteSession(ctx, "live"))
	assert.Equal(t, 1, s.SessionCount())
}
