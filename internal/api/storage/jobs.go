package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/model"
)

const selectJobs = `
	SELECT
		j.id, j.title, j.company, j.location, j.type, j.salary,
		j.category_id, c.name AS category, j.description,
		j.requirements, j.responsibilities, j.status,
		j.posted_date, j.created_at, j.updated_at
	FROM jobs j
	LEFT JOIN categories c ON j.category_id = c.id
`

func (s *Storage) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	query := selectJobs + " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	status := filter.Status
	if status == "" {
		status = domain.JobStatusActive
	}
	if status != domain.JobStatusAll {
		query += fmt.Sprintf(" AND j.status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	if filter.CategoryID > 0 {
		query += fmt.Sprintf(" AND j.category_id = $%d", argIdx)
		args = append(args, filter.CategoryID)
		argIdx++
	}

	// Newest posting first; id breaks ties between jobs posted in the same instant
	query += " ORDER BY j.posted_date DESC, j.id DESC"

	var rows []model.Job
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]domain.Job, len(rows))
	for i, row := range rows {
		jobs[i] = row.ToDomain()
	}
	return jobs, nil
}

func (s *Storage) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var row model.Job
	err := s.db.GetContext(ctx, &row, selectJobs+" WHERE j.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	job := row.ToDomain()
	return &job, nil
}

func (s *Storage) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			title, company, location, type, salary, category_id,
			description, requirements, responsibilities, status,
			posted_date, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12
		)
		RETURNING id
	`

	err := s.db.GetContext(ctx, &job.ID, query,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Salary,
		model.NullInt64(job.CategoryID),
		job.Description,
		job.Requirements,
		job.Responsibilities,
		job.Status,
		job.PostedDate,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// UpdateJob overwrites every writable column of the job
func (s *Storage) UpdateJob(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET title = $1, company = $2, location = $3, type = $4, salary = $5,
		    category_id = $6, description = $7, requirements = $8,
		    responsibilities = $9, status = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := s.db.ExecContext(ctx, query,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Salary,
		model.NullInt64(job.CategoryID),
		job.Description,
		job.Requirements,
		job.Responsibilities,
		job.Status,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	return expectOneRow(result, domain.ErrJobNotFound)
}

// DeleteJob removes the job row only; applications keep their job_id
func (s *Storage) DeleteJob(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return expectOneRow(result, domain.ErrJobNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
