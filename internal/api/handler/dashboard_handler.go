package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/dto"
)

// Dashboard handles GET /api/v1/admin/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	jobs, err := h.jobs.ListJobs(ctx, domain.JobFilter{Status: domain.JobStatusAll})
	if err != nil {
		respondError(c, h.logger, err, "Failed to load dashboard")
		return
	}
	apps, err := h.applications.ListApplications(ctx)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load dashboard")
		return
	}
	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load dashboard")
		return
	}

	respond(c, http.StatusOK, dto.DashboardResponse{
		Jobs:                dto.NewJobListResponse(jobs),
		Applications:        dto.NewApplicationListResponse(apps),
		Categories:          categories,
		ApplicationStatuses: domain.ApplicationStatuses,
		JobStatuses:         []string{domain.JobStatusActive, domain.JobStatusInactive, domain.JobStatusClosed},
	})
}
