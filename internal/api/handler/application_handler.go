package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/dto"
)

// formOverheadBytes is the room left above the resume limit for the text fields
// and multipart framing
const formOverheadBytes = 1 << 20

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func bodyTooLargeError(limit int64) error {
	return domain.NewInvalidFieldError("resume", fmt.Sprintf("request body larger than %d bytes", limit))
}

// CreateApplication handles POST /api/v1/jobs/:id/applications
// The body is multipart: full_name, email, phone, cover_letter and an optional resume file
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := h.applications.MaxResumeBytes() + formOverheadBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req dto.ApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			h.logger.Warn("Application body too large", slog.Int64("job_id", jobID), slog.Int64("limit", limit))
			respondError(c, h.logger, bodyTooLargeError(limit), "Failed to submit application")
			return
		}
		respondBindError(c, h.logger, err)
		return
	}
	in := req.ToInput(jobID)

	var upload *domain.ResumeUpload
	header, err := c.FormFile("resume")
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			respondError(c, h.logger, err, "Failed to read resume")
			return
		}
		defer file.Close()
		upload = &domain.ResumeUpload{Filename: header.Filename, Size: header.Size, Content: file}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case tooLarge(err):
		respondError(c, h.logger, bodyTooLargeError(limit), "Failed to submit application")
		return
	default:
		h.logger.Warn("Invalid application body", slog.Int64("job_id", jobID), slog.String("error", err.Error()))
		badRequest(c, "Invalid multipart body")
		return
	}

	app, err := h.applications.CreateApplication(c.Request.Context(), in, upload)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit application")
		return
	}
	respond(c, http.StatusCreated, dto.NewApplicationResponse(*app))
}

// ListApplications handles GET /api/v1/admin/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	apps, err := h.applications.ListApplications(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list applications")
		return
	}
	respond(c, http.StatusOK, dto.NewApplicationListResponse(apps))
}

// ListApplicationsForJob handles GET /api/v1/admin/jobs/:id/applications
func (h *ApplicationHandler) ListApplicationsForJob(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}

	apps, err := h.applications.ListApplicationsForJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list applications")
		return
	}
	respond(c, http.StatusOK, dto.NewApplicationListResponse(apps))
}

// UpdateStatus handles PATCH /api/v1/admin/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	app, err := h.applications.UpdateApplicationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update application status")
		return
	}
	respond(c, http.StatusOK, dto.NewApplicationResponse(*app))
}
