package domain

import (
	"strings"
	"time"
)

const (
	JobStatusActive   = "Active"
	JobStatusInactive = "Inactive"
	JobStatusClosed   = "Closed"

	// JobStatusAll disables the status filter on admin listings
	JobStatusAll = "all"
)

// IsValidJobStatus reports whether status is one a job can be stored with
func IsValidJobStatus(status string) bool {
	switch status {
	case JobStatusActive, JobStatusInactive, JobStatusClosed:
		return true
	}
	return false
}

// Job is a posted position. Requirements and Responsibilities hold the raw
// newline-joined text as stored.
type Job struct {
	ID               int64
	Title            string
	Company          string
	Location         string
	Type             string
	Salary           string
	CategoryID       *int64
	Category         string
	Description      string
	Requirements     string
	Responsibilities string
	Status           string
	PostedDate       time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// JobDetail is a job with its text lists split for display
type JobDetail struct {
	Job
	RequirementList    []string
	ResponsibilityList []string
}

// NewJobDetail splits the stored requirement and responsibility text
func NewJobDetail(job Job) *JobDetail {
	return &JobDetail{
		Job:                job,
		RequirementList:    SplitLines(job.Requirements),
		ResponsibilityList: SplitLines(job.Responsibilities),
	}
}

// SplitLines splits newline-joined text into its ordered lines. Empty text
// yields an empty list; a trailing carriage return is dropped from each line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// JobInput carries every writable job field. Updates overwrite all of them.
type JobInput struct {
	Title            string
	Company          string
	Location         string
	Type             string
	Salary           string
	CategoryID       int64
	Description      string
	Requirements     string
	Responsibilities string
	// Status is ignored on create
	Status string
}

// MissingFields returns the names of required fields left empty
func (in JobInput) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("title", in.Title)
	check("company", in.Company)
	check("location", in.Location)
	check("type", in.Type)
	check("salary", in.Salary)
	if in.CategoryID <= 0 {
		missing = append(missing, "category_id")
	}
	check("description", in.Description)
	check("requirements", in.Requirements)
	check("responsibilities", in.Responsibilities)
	return missing
}

// JobFilter narrows ListJobs. A zero CategoryID means any category; an empty
// Status means Active.
type JobFilter struct {
	CategoryID int64
	Status     string
}
