package domain

import (
	"io"
	"strings"
	"time"
)

const (
	ApplicationStatusNew         = "New"
	ApplicationStatusReviewed    = "Reviewed"
	ApplicationStatusInterviewed = "Interviewed"
	ApplicationStatusHired       = "Hired"
	ApplicationStatusRejected    = "Rejected"
)

// ApplicationStatuses lists the triage statuses in display order
var ApplicationStatuses = []string{
	ApplicationStatusNew,
	ApplicationStatusReviewed,
	ApplicationStatusInterviewed,
	ApplicationStatusHired,
	ApplicationStatusRejected,
}

// IsValidApplicationStatus reports whether status is a known triage status
func IsValidApplicationStatus(status string) bool {
	for _, s := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Application is a candidate's submission against one job
type Application struct {
	ID          int64
	JobID       int64
	JobTitle    string
	FullName    string
	Email       string
	Phone       string
	CoverLetter string
	ResumeURL   string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ApplicationInput carries the candidate-supplied fields
type ApplicationInput struct {
	JobID       int64
	FullName    string
	Email       string
	Phone       string
	CoverLetter string
}

// MissingFields returns the names of required fields left empty
func (in ApplicationInput) MissingFields() []string {
	var missing []string
	if in.JobID <= 0 {
		missing = append(missing, "job_id")
	}
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// ResumeUpload is an uploaded resume file. A nil upload or one with Size 0
// means no resume was attached.
type ResumeUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Present reports whether a non-empty file was attached
func (u *ResumeUpload) Present() bool {
	return u != nil && u.Size > 0 && u.Content != nil
}
