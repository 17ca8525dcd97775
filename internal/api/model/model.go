package model

import (
	"database/sql"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

// Category is a categories row
type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (c Category) ToDomain() domain.Category {
	return domain.Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// Job is a jobs row with the category name LEFT JOINed in
type Job struct {
	ID               int64          `db:"id"`
	Title            string         `db:"title"`
	Company          string         `db:"company"`
	Location         string         `db:"location"`
	Type             string         `db:"type"`
	Salary           string         `db:"salary"`
	CategoryID       sql.NullInt64  `db:"category_id"`
	Category         sql.NullString `db:"category"`
	Description      string         `db:"description"`
	Requirements     sql.NullString `db:"requirements"`
	Responsibilities sql.NullString `db:"responsibilities"`
	Status           string         `db:"status"`
	PostedDate       time.Time      `db:"posted_date"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        sql.NullTime   `db:"updated_at"`
}

// ToDomain maps NULL text columns to empty strings
func (j Job) ToDomain() domain.Job {
	job := domain.Job{
		ID:               j.ID,
		Title:            j.Title,
		Company:          j.Company,
		Location:         j.Location,
		Type:             j.Type,
		Salary:           j.Salary,
		Category:         j.Category.String,
		Description:      j.Description,
		Requirements:     j.Requirements.String,
		Responsibilities: j.Responsibilities.String,
		Status:           j.Status,
		PostedDate:       j.PostedDate,
		CreatedAt:        j.CreatedAt,
	}
	if j.CategoryID.Valid {
		id := j.CategoryID.Int64
		job.CategoryID = &id
	}
	if j.UpdatedAt.Valid {
		t := j.UpdatedAt.Time
		job.UpdatedAt = &t
	}
	return job
}

// Application is an applications row with the job title LEFT JOINed in
type Application struct {
	ID          int64          `db:"id"`
	JobID       int64          `db:"job_id"`
	JobTitle    sql.NullString `db:"job_title"`
	FullName    string         `db:"full_name"`
	Email       string         `db:"email"`
	Phone       sql.NullString `db:"phone"`
	CoverLetter sql.NullString `db:"cover_letter"`
	ResumeURL   sql.NullString `db:"resume_url"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (a Application) ToDomain() domain.Application {
	app := domain.Application{
		ID:          a.ID,
		JobID:       a.JobID,
		JobTitle:    a.JobTitle.String,
		FullName:    a.FullName,
		Email:       a.Email,
		Phone:       a.Phone.String,
		CoverLetter: a.CoverLetter.String,
		ResumeURL:   a.ResumeURL.String,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
	if a.UpdatedAt.Valid {
		t := a.UpdatedAt.Time
		app.UpdatedAt = &t
	}
	return app
}

// AdminUser is an admin_users row
type AdminUser struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u AdminUser) ToDomain() domain.AdminUser {
	return domain.AdminUser{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}
}

// SessionIdentity is a sessions row joined with its admin's email
type SessionIdentity struct {
	UserID int64  `db:"user_id"`
	Email  string `db:"email"`
}

// NullString stores empty strings as NULL
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NullInt64 stores a nil pointer as NULL
func NullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
