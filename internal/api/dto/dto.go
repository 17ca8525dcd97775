package dto

import (
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
)

// Response is the envelope every API response is wrapped in
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Fields   []string    `json:"fields,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// LoginRequest is accepted as a form or as JSON
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type LoginResponse struct {
	User      domain.Identity `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type CreateCategoryRequest struct {
	Name string `form:"name" json:"name" binding:"required"`
}

// JobRequest carries every writable job field of a new job
type JobRequest struct {
	Title            string `form:"title" json:"title" binding:"required"`
	Company          string `form:"company" json:"company" binding:"required"`
	Location         string `form:"location" json:"location" binding:"required"`
	Type             string `form:"type" json:"type" binding:"required"`
	Salary           string `form:"salary" json:"salary" binding:"required"`
	CategoryID       int64  `form:"category_id" json:"category_id" binding:"required,gt=0"`
	Description      string `form:"description" json:"description" binding:"required"`
	Requirements     string `form:"requirements" json:"requirements" binding:"required"`
	Responsibilities string `form:"responsibilities" json:"responsibilities" binding:"required"`
}

func (r JobRequest) ToInput() domain.JobInput {
	return domain.JobInput{
		Title:            r.Title,
		Company:          r.Company,
		Location:         r.Location,
		Type:             r.Type,
		Salary:           r.Salary,
		CategoryID:       r.CategoryID,
		Description:      r.Description,
		Requirements:     r.Requirements,
		Responsibilities: r.Responsibilities,
	}
}

// UpdateJobRequest overwrites every field of a job, status included
type UpdateJobRequest struct {
	JobRequest
	Status string `form:"status" json:"status" binding:"required,oneof=Active Inactive Closed"`
}

func (r UpdateJobRequest) ToInput() domain.JobInput {
	in := r.JobRequest.ToInput()
	in.Status = r.Status
	return in
}

// ApplicationRequest is the multipart form of a candidate application.
// The resume file is read separately.
type ApplicationRequest struct {
	FullName    string `form:"full_name" binding:"required"`
	Email       string `form:"email" binding:"required"`
	Phone       string `form:"phone"`
	CoverLetter string `form:"cover_letter"`
}

func (r ApplicationRequest) ToInput(jobID int64) domain.ApplicationInput {
	return domain.ApplicationInput{
		JobID:       jobID,
		FullName:    r.FullName,
		Email:       r.Email,
		Phone:       r.Phone,
		CoverLetter: r.CoverLetter,
	}
}

// JobListQuery filters job listings
type JobListQuery struct {
	CategoryID int64  `form:"category_id"`
	Status     string `form:"status"`
}

type UpdateStatusRequest struct {
	Status string `form:"status" json:"status" binding:"required,oneof=New Reviewed Interviewed Hired Rejected"`
}

// JobResponse is a job in list views, with raw requirement text
type JobResponse struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Salary           string     `json:"salary"`
	CategoryID       *int64     `json:"category_id"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	Requirements     string     `json:"requirements"`
	Responsibilities string     `json:"responsibilities"`
	Status           string     `json:"status"`
	PostedDate       time.Time  `json:"posted_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func NewJobResponse(job domain.Job) JobResponse {
	return JobResponse{
		ID:               job.ID,
		Title:            job.Title,
		Company:          job.Company,
		Location:         job.Location,
		Type:             job.Type,
		Salary:           job.Salary,
		CategoryID:       job.CategoryID,
		Category:         job.Category,
		Description:      job.Description,
		Requirements:     job.Requirements,
		Responsibilities: job.Responsibilities,
		Status:           job.Status,
		PostedDate:       job.PostedDate,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}
}

func NewJobListResponse(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		out[i] = NewJobResponse(job)
	}
	return out
}

// JobDetailResponse is a job with requirements and responsibilities as lists
type JobDetailResponse struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Salary           string     `json:"salary"`
	CategoryID       *int64     `json:"category_id"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	Requirements     []string   `json:"requirements"`
	Responsibilities []string   `json:"responsibilities"`
	Status           string     `json:"status"`
	PostedDate       time.Time  `json:"posted_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func NewJobDetailResponse(detail *domain.JobDetail) JobDetailResponse {
	return JobDetailResponse{
		ID:               detail.ID,
		Title:            detail.Title,
		Company:          detail.Company,
		Location:         detail.Location,
		Type:             detail.Type,
		Salary:           detail.Salary,
		CategoryID:       detail.CategoryID,
		Category:         detail.Category,
		Description:      detail.Description,
		Requirements:     detail.RequirementList,
		Responsibilities: detail.ResponsibilityList,
		Status:           detail.Status,
		PostedDate:       detail.PostedDate,
		CreatedAt:        detail.CreatedAt,
		UpdatedAt:        detail.UpdatedAt,
	}
}

type ApplicationResponse struct {
	ID          int64      `json:"id"`
	JobID       int64      `json:"job_id"`
	JobTitle    string     `json:"job_title"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	CoverLetter string     `json:"cover_letter"`
	ResumeURL   string     `json:"resume_url"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func NewApplicationResponse(app domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		JobTitle:    app.JobTitle,
		FullName:    app.FullName,
		Email:       app.Email,
		Phone:       app.Phone,
		CoverLetter: app.CoverLetter,
		ResumeURL:   app.ResumeURL,
		Status:      app.Status,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}

func NewApplicationListResponse(apps []domain.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = NewApplicationResponse(app)
	}
	return out
}

// AdminJobResponse is a job detail together with the applications received for it
type AdminJobResponse struct {
	Job          JobDetailResponse     `json:"job"`
	Applications []ApplicationResponse `json:"applications"`
}

// DashboardResponse backs the admin dashboard tabs
type DashboardResponse struct {
	Jobs                []JobResponse         `json:"jobs"`
	Applications        []ApplicationResponse `json:"applications"`
	Categories          []domain.Category     `json:"categories"`
	ApplicationStatuses []string              `json:"application_statuses"`
	JobStatuses         []string              `json:"job_statuses"`
}
