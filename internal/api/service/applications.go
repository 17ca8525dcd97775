package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/events"
	"github.com/cuongbtq/job-board/internal/metrics"
)

// DefaultMaxResumeBytes caps resume uploads when no limit is configured
const DefaultMaxResumeBytes = 10 << 20

var errResumeTooLarge = errors.New("resume exceeds the size limit")

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ApplicationService accepts candidate applications and lets admins triage them
type ApplicationService struct {
	apps           ApplicationRepository
	jobs           JobRepository
	resumes        ResumeStore
	maxResumeBytes int64
	events         emitter
	logger         *slog.Logger
	now            func() time.Time
}

// NewApplicationService creates an ApplicationService. A non-positive
// maxResumeBytes falls back to DefaultMaxResumeBytes.
func NewApplicationService(
	apps ApplicationRepository,
	jobs JobRepository,
	resumes ResumeStore,
	maxResumeBytes int64,
	publisher events.Publisher,
	logger *slog.Logger,
) *ApplicationService {
	if maxResumeBytes <= 0 {
		maxResumeBytes = DefaultMaxResumeBytes
	}
	return &ApplicationService{
		apps:           apps,
		jobs:           jobs,
		resumes:        resumes,
		maxResumeBytes: maxResumeBytes,
		events:         emitter{publisher: publisher, logger: logger},
		logger:         logger,
		now:            time.Now,
	}
}

// MaxResumeBytes is the largest resume upload accepted
func (s *ApplicationService) MaxResumeBytes() int64 {
	return s.maxResumeBytes
}

// ListApplications returns every application newest first
func (s *ApplicationService) ListApplications(ctx context.Context) ([]domain.Application, error) {
	return s.list(ctx, 0)
}

// ListApplicationsForJob returns the applications submitted against one job
func (s *ApplicationService) ListApplicationsForJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	if jobID <= 0 {
		return nil, domain.NewInvalidFieldError("job_id", "must be a positive id")
	}
	return s.list(ctx, jobID)
}

func (s *ApplicationService) list(ctx context.Context, jobID int64) ([]domain.Application, error) {
	apps, err := s.apps.ListApplications(ctx, jobID)
	if err != nil {
		s.logger.Error("Failed to list applications", slog.Int64("job_id", jobID), slog.Any("error", err))
		return nil, err
	}
	return apps, nil
}

// CreateApplication stores the resume, if any, then the application row.
// A failed resume write leaves no row behind.
func (s *ApplicationService) CreateApplication(ctx context.Context, in domain.ApplicationInput, resume *domain.ResumeUpload) (*domain.Application, error) {
	if missing := in.MissingFields(); len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing...)
	}
	if resume.Present() && resume.Size > s.maxResumeBytes {
		return nil, domain.NewInvalidFieldError("resume", fmt.Sprintf("file larger than %d bytes", s.maxResumeBytes))
	}

	if _, err := s.jobs.GetJob(ctx, in.JobID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to check job", slog.Int64("job_id", in.JobID), slog.Any("error", err))
			return nil, fmt.Errorf("create application: %w", err)
		}
		return nil, err
	}

	var resumeURL string
	if resume.Present() {
		ref, err := s.saveResume(ctx, resume)
		if err != nil {
			return nil, err
		}
		resumeURL = ref
	}

	app := &domain.Application{
		JobID:       in.JobID,
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		CoverLetter: in.CoverLetter,
		ResumeURL:   resumeURL,
		Status:      domain.ApplicationStatusNew,
		CreatedAt:   s.now(),
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		s.logger.Error("Failed to create application",
			slog.Int64("job_id", in.JobID),
			slog.String("resume_url", resumeURL),
			slog.Any("error", err),
		)
		if resumeURL != "" {
			s.events.emit(ctx, events.New(events.ResumeOrphaned, in.JobID).
				With(events.AttrResumeURL, resumeURL).
				With(events.AttrReason, "application insert failed"))
		}
		return nil, fmt.Errorf("create application: %w: %v", domain.ErrStorage, err)
	}

	metrics.ApplicationsSubmittedTotal.Inc()
	s.logger.Info("Application created",
		slog.Int64("application_id", app.ID),
		slog.Int64("job_id", app.JobID),
		slog.Bool("has_resume", resumeURL != ""),
	)
	s.events.emit(ctx, events.New(events.ApplicationCreated, app.ID, events.ViewAdminDashboard))

	return app, nil
}

func (s *ApplicationService) saveResume(ctx context.Context, resume *domain.ResumeUpload) (string, error) {
	name := ResumeFilename(resume.Filename)
	backend := s.resumes.Backend()

	ref, err := s.resumes.Save(ctx, name, &limitedReader{r: resume.Content, remaining: s.maxResumeBytes})
	if err != nil {
		metrics.ResumesStoredTotal.WithLabelValues(backend, metrics.ResultFailure).Inc()
		if rmErr := s.resumes.Remove(ctx, name); rmErr != nil {
			s.logger.Warn("Failed to remove partial resume", slog.String("name", name), slog.Any("error", rmErr))
		}
		if errors.Is(err, errResumeTooLarge) {
			return "", domain.NewInvalidFieldError("resume", fmt.Sprintf("file larger than %d bytes", s.maxResumeBytes))
		}
		s.logger.Error("Failed to store resume", slog.String("name", name), slog.String("backend", backend), slog.Any("error", err))
		return "", fmt.Errorf("store resume: %w: %v", domain.ErrStorage, err)
	}

	metrics.ResumesStoredTotal.WithLabelValues(backend, metrics.ResultSuccess).Inc()
	return ref, nil
}

// UpdateApplicationStatus overwrites the status; the last write wins
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, id int64, status string) (*domain.Application, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, domain.NewMissingFieldsError("status")
	}
	if !domain.IsValidApplicationStatus(status) {
		return nil, domain.NewInvalidFieldError("status", "unknown application status")
	}

	app, err := s.apps.UpdateApplicationStatus(ctx, id, status, s.now())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to update application status", slog.Int64("application_id", id), slog.Any("error", err))
			return nil, fmt.Errorf("update application status: %w", err)
		}
		return nil, err
	}

	s.logger.Info("Application status updated", slog.Int64("application_id", id), slog.String("status", status))
	s.events.emit(ctx, events.New(events.ApplicationStatusUpdated, id, events.ViewAdminDashboard).
		With(events.AttrStatus, status))

	return app, nil
}

// ResumeFilename builds a collision-resistant storage name from a random
// identifier and the sanitized base of the uploaded name
func ResumeFilename(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "resume"
	}
	return uuid.NewString() + "-" + base
}

// limitedReader fails once more than remaining bytes have been read
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errResumeTooLarge
	}
	return n, err
}
