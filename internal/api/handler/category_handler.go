package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/dto"
)

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list categories")
		return
	}
	respond(c, http.StatusOK, categories)
}

// CreateCategory handles POST /api/v1/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}
	respond(c, http.StatusCreated, category)
}
