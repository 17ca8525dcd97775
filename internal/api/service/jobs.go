package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/events"
)

// JobService manages job postings
type JobService struct {
	repo   JobRepository
	events emitter
	logger *slog.Logger
	now    func() time.Time
}

func NewJobService(repo JobRepository, publisher events.Publisher, logger *slog.Logger) *JobService {
	return &JobService{
		repo:   repo,
		events: emitter{publisher: publisher, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// ListJobs returns jobs newest-posted first. An empty filter status means Active.
func (s *JobService) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if filter.Status != "" && filter.Status != domain.JobStatusAll && !domain.IsValidJobStatus(filter.Status) {
		return nil, domain.NewInvalidFieldError("status", "unknown job status")
	}

	jobs, err := s.repo.ListJobs(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list jobs",
			slog.Int64("category_id", filter.CategoryID),
			slog.String("status", filter.Status),
			slog.Any("error", err),
		)
		return nil, err
	}
	return jobs, nil
}

// GetJob returns a job with its requirement and responsibility lists split
func (s *JobService) GetJob(ctx context.Context, id int64) (*domain.JobDetail, error) {
	job, err := s.repo.GetJob(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to get job", slog.Int64("job_id", id), slog.Any("error", err))
		}
		return nil, err
	}
	return domain.NewJobDetail(*job), nil
}

// CreateJob stores a new Active job posted now
func (s *JobService) CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing...)
	}

	now := s.now()
	job := newJobFromInput(in)
	job.Status = domain.JobStatusActive
	job.PostedDate = now
	job.CreatedAt = now

	if err := s.repo.CreateJob(ctx, job); err != nil {
		s.logger.Error("Failed to create job", slog.String("title", job.Title), slog.Any("error", err))
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("Job created", slog.Int64("job_id", job.ID), slog.String("title", job.Title))
	s.events.emit(ctx, events.New(events.JobCreated, job.ID,
		events.ViewAdminDashboard, events.ViewPublicListing))

	return job, nil
}

// UpdateJob overwrites every field of the job, status included
func (s *JobService) UpdateJob(ctx context.Context, id int64, in domain.JobInput) (*domain.Job, error) {
	missing := in.MissingFields()
	if strings.TrimSpace(in.Status) == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing...)
	}
	if !domain.IsValidJobStatus(in.Status) {
		return nil, domain.NewInvalidFieldError("status", "unknown job status")
	}

	now := s.now()
	job := newJobFromInput(in)
	job.ID = id
	job.Status = in.Status
	job.UpdatedAt = &now

	if err := s.repo.UpdateJob(ctx, job); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to update job", slog.Int64("job_id", id), slog.Any("error", err))
			return nil, fmt.Errorf("update job: %w", err)
		}
		return nil, err
	}

	updated, err := s.repo.GetJob(ctx, id)
	if err != nil {
		s.logger.Warn("Updated job could not be re-read", slog.Int64("job_id", id), slog.Any("error", err))
		updated = job
	}

	s.logger.Info("Job updated", slog.Int64("job_id", id), slog.String("status", job.Status))
	s.events.emit(ctx, events.New(events.JobUpdated, id,
		events.ViewAdminDashboard, events.ViewPublicListing, events.ViewJobDetail(id)).
		With(events.AttrStatus, job.Status))

	return updated, nil
}

// DeleteJob removes the job. Its applications are left in place.
func (s *JobService) DeleteJob(ctx context.Context, id int64) error {
	if err := s.repo.DeleteJob(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to delete job", slog.Int64("job_id", id), slog.Any("error", err))
			return fmt.Errorf("delete job: %w", err)
		}
		return err
	}

	s.logger.Info("Job deleted", slog.Int64("job_id", id))
	s.events.emit(ctx, events.New(events.JobDeleted, id,
		events.ViewAdminDashboard, events.ViewPublicListing, events.ViewJobDetail(id)))

	return nil
}

func newJobFromInput(in domain.JobInput) *domain.Job {
	categoryID := in.CategoryID
	return &domain.Job{
		Title:            strings.TrimSpace(in.Title),
		Company:          strings.TrimSpace(in.Company),
		Location:         strings.TrimSpace(in.Location),
		Type:             strings.TrimSpace(in.Type),
		Salary:           strings.TrimSpace(in.Salary),
		CategoryID:       &categoryID,
		Description:      in.Description,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
	}
}
