// Package service implements the job board operations on top of the
// repositories, the resume store and the change event publisher.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/events"
	"github.com/cuongbtq/job-board/internal/metrics"
)

// CategoryRepository persists categories
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string, createdAt time.Time) (*domain.Category, error)
}

// JobRepository persists jobs
type JobRepository interface {
	ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	CreateJob(ctx context.Context, job *domain.Job) error
	UpdateJob(ctx context.Context, job *domain.Job) error
	DeleteJob(ctx context.Context, id int64) error
}

// ApplicationRepository persists applications
type ApplicationRepository interface {
	ListApplications(ctx context.Context, jobID int64) ([]domain.Application, error)
	CreateApplication(ctx context.Context, app *domain.Application) error
	UpdateApplicationStatus(ctx context.Context, id int64, status string, updatedAt time.Time) (*domain.Application, error)
}

// AuthRepository persists admin users and their sessions
type AuthRepository interface {
	GetAdminUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionIdentity(ctx context.Context, sessionID string, now time.Time) (*domain.Identity, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// ResumeStore keeps uploaded resume files and hands back their public reference
type ResumeStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
	Backend() string
}

// emitter publishes change events after a write has been committed.
// A failed publish never fails the write.
type emitter struct {
	publisher events.Publisher
	logger    *slog.Logger
}

func (e emitter) emit(ctx context.Context, event events.Event) {
	if err := e.publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(event.Type, metrics.ResultFailure).Inc()
		e.logger.Warn("Change event not fully delivered",
			slog.String("event_id", event.ID),
			slog.String("type", event.Type),
			slog.Int64("entity_id", event.EntityID),
			slog.Any("error", err),
		)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(event.Type, metrics.ResultSuccess).Inc()
}
