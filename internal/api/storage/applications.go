package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/model"
)

const selectApplications = `
	SELECT
		a.id, a.job_id, j.title AS job_title, a.full_name, a.email,
		a.phone, a.cover_letter, a.resume_url, a.status,
		a.created_at, a.updated_at
	FROM applications a
	LEFT JOIN jobs j ON a.job_id = j.id
`

// ListApplications returns applications newest first. A zero jobID lists all of them.
func (s *Storage) ListApplications(ctx context.Context, jobID int64) ([]domain.Application, error) {
	query := selectApplications
	args := []interface{}{}
	if jobID > 0 {
		query += " WHERE a.job_id = $1"
		args = append(args, jobID)
	}
	query += " ORDER BY a.created_at DESC, a.id DESC"

	var rows []model.Application
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	apps := make([]domain.Application, len(rows))
	for i, row := range rows {
		apps[i] = row.ToDomain()
	}
	return apps, nil
}

func (s *Storage) CreateApplication(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (
			job_id, full_name, email, phone, cover_letter,
			resume_url, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.GetContext(ctx, &app.ID, query,
		app.JobID,
		app.FullName,
		app.Email,
		model.NullString(app.Phone),
		model.NullString(app.CoverLetter),
		model.NullString(app.ResumeURL),
		app.Status,
		app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// UpdateApplicationStatus sets the status and returns the updated row with its job title
func (s *Storage) UpdateApplicationStatus(ctx context.Context, id int64, status string, updatedAt time.Time) (*domain.Application, error) {
	query := `
		WITH a AS (
			UPDATE applications
			SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING *
		)
		SELECT
			a.id, a.job_id, j.title AS job_title, a.full_name, a.email,
			a.phone, a.cover_letter, a.resume_url, a.status,
			a.created_at, a.updated_at
		FROM a
		LEFT JOIN jobs j ON a.job_id = j.id
	`

	var row model.Application
	if err := s.db.GetContext(ctx, &row, query, status, updatedAt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	app := row.ToDomain()
	return &app, nil
}
