package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Storage runs the integrity queries of the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// JobExists reports whether a job row with the id is present
func (s *Storage) JobExists(ctx context.Context, jobID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to check job: %w", err)
	}
	return exists, nil
}

// CountApplicationsByJob counts the applications that reference a job id
func (s *Storage) CountApplicationsByJob(ctx context.Context, jobID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications for job: %w", err)
	}

	s.logger.Debug("Counted applications for job",
		slog.Int64("job_id", jobID),
		slog.Int("count", count),
	)
	return count, nil
}

// CountApplicationsByResume counts the applications that reference a resume
func (s *Storage) CountApplicationsByResume(ctx context.Context, resumeURL string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE resume_url = $1`, resumeURL)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications for resume: %w", err)
	}
	return count, nil
}
