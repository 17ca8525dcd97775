package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/job-board/internal/api/service"
	"github.com/cuongbtq/job-board/internal/config"
)

// HealthChecker reports whether the backing store answers
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	AppName      string
	Health       HealthChecker
	Auth         *service.AuthService
	Catalog      *service.CatalogService
	Jobs         *service.JobService
	Applications *service.ApplicationService
	AuthConfig   config.AuthConfig
}

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	logger *slog.Logger
	auth   *service.AuthService
	cfg    config.AuthConfig
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger: deps.Logger,
		auth:   deps.Auth,
		cfg:    deps.AuthConfig,
	}
}

// CategoryHandler handles category requests
type CategoryHandler struct {
	logger  *slog.Logger
	catalog *service.CatalogService
}

func NewCategoryHandler(deps *Dependencies) *CategoryHandler {
	return &CategoryHandler{
		logger:  deps.Logger,
		catalog: deps.Catalog,
	}
}

// JobHandler handles job requests on the public and admin surfaces
type JobHandler struct {
	logger       *slog.Logger
	jobs         *service.JobService
	applications *service.ApplicationService
}

func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:       deps.Logger,
		jobs:         deps.Jobs,
		applications: deps.Applications,
	}
}

// ApplicationHandler handles candidate submissions and admin triage
type ApplicationHandler struct {
	logger       *slog.Logger
	applications *service.ApplicationService
}

func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{
		logger:       deps.Logger,
		applications: deps.Applications,
	}
}

// DashboardHandler serves the admin overview
type DashboardHandler struct {
	logger       *slog.Logger
	catalog      *service.CatalogService
	jobs         *service.JobService
	applications *service.ApplicationService
}

func NewDashboardHandler(deps *Dependencies) *DashboardHandler {
	return &DashboardHandler{
		logger:       deps.Logger,
		catalog:      deps.Catalog,
		jobs:         deps.Jobs,
		applications: deps.Applications,
	}
}
