package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/dto"
)

// ListJobs handles GET /api/v1/jobs
// Public listings only ever show Active jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "category_id must be an integer")
		return
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), domain.JobFilter{
		CategoryID: query.CategoryID,
		Status:     domain.JobStatusActive,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to list jobs")
		return
	}
	respond(c, http.StatusOK, dto.NewJobListResponse(jobs))
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}
	respond(c, http.StatusOK, dto.NewJobDetailResponse(detail))
}

// AdminListJobs handles GET /api/v1/admin/jobs
// Any status may be requested; "all" lifts the filter
func (h *JobHandler) AdminListJobs(c *gin.Context) {
	var query dto.JobListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, "category_id must be an integer")
		return
	}
	if query.Status == "" {
		query.Status = domain.JobStatusAll
	}

	jobs, err := h.jobs.ListJobs(c.Request.Context(), domain.JobFilter{
		CategoryID: query.CategoryID,
		Status:     query.Status,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to list jobs")
		return
	}
	respond(c, http.StatusOK, dto.NewJobListResponse(jobs))
}

// AdminGetJob handles GET /api/v1/admin/jobs/:id
func (h *JobHandler) AdminGetJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	detail, err := h.jobs.GetJob(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get job")
		return
	}
	apps, err := h.applications.ListApplicationsForJob(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list applications")
		return
	}

	respond(c, http.StatusOK, dto.AdminJobResponse{
		Job:          dto.NewJobDetailResponse(detail),
		Applications: dto.NewApplicationListResponse(apps),
	})
}

// CreateJob handles POST /api/v1/admin/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	h.logger.Info("CreateJob called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	var req dto.JobRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.logger, err, "Failed to create job")
		return
	}
	respond(c, http.StatusCreated, dto.NewJobResponse(*job))
}

// UpdateJob handles PUT /api/v1/admin/jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), id, req.ToInput())
	if err != nil {
		respondError(c, h.logger, err, "Failed to update job")
		return
	}
	respond(c, http.StatusOK, dto.NewJobResponse(*job))
}

// DeleteJob handles DELETE /api/v1/admin/jobs/:id
func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.jobs.DeleteJob(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete job")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
