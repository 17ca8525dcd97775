package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cuongbtq/job-board/internal/api/cache"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/events"
)

// Options carries the router settings that are not handler dependencies
type Options struct {
	AllowedOrigin string
	// UploadsDir is served at UploadsPath when set
	UploadsDir  string
	UploadsPath string
	MetricsPath string
	// Cache is optional; public reads bypass it when nil
	Cache *cache.ViewCache
}

// OptionsFromConfig derives router options from the service config
func OptionsFromConfig(cfg *config.Config, viewCache *cache.ViewCache) Options {
	opts := Options{
		AllowedOrigin: cfg.Server.AllowedOrigin,
		Cache:         viewCache,
	}
	if cfg.Storage.Driver == config.StorageDriverLocal {
		opts.UploadsDir = cfg.Storage.Local.Dir
		opts.UploadsPath = cfg.Storage.Local.PublicPath
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	return opts
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(MetricsMiddleware())
	r.Use(CORSMiddleware(opts.AllowedOrigin))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if err := deps.Health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": deps.AppName,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": deps.AppName,
		})
	})

	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	if opts.UploadsDir != "" && opts.UploadsPath != "" {
		r.Static(opts.UploadsPath, opts.UploadsDir)
	}

	authHandler := handler.NewAuthHandler(deps)
	categoryHandler := handler.NewCategoryHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	applicationHandler := handler.NewApplicationHandler(deps)
	dashboardHandler := handler.NewDashboardHandler(deps)

	var listingView, detailView gin.HandlerFunc = passThrough, passThrough
	if opts.Cache != nil {
		listingView = opts.Cache.Middleware(cache.View(events.ViewPublicListing), "category_id")
		detailView = opts.Cache.Middleware(jobDetailView)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Public surface
		v1.GET("/categories", listingView, categoryHandler.ListCategories)
		v1.GET("/jobs", listingView, jobHandler.ListJobs)
		v1.GET("/jobs/:id", detailView, jobHandler.GetJob)
		v1.POST("/jobs/:id/applications", applicationHandler.CreateApplication)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		admin := v1.Group("/admin", RequireAdmin(deps.Auth, deps.AuthConfig, deps.Logger))
		{
			admin.GET("/me", authHandler.Me)
			admin.GET("/dashboard", dashboardHandler.Dashboard)

			admin.POST("/categories", categoryHandler.CreateCategory)

			admin.GET("/jobs", jobHandler.AdminListJobs)
			admin.POST("/jobs", jobHandler.CreateJob)
			admin.GET("/jobs/:id", jobHandler.AdminGetJob)
			admin.PUT("/jobs/:id", jobHandler.UpdateJob)
			admin.DELETE("/jobs/:id", jobHandler.DeleteJob)
			admin.GET("/jobs/:id/applications", applicationHandler.ListApplicationsForJob)

			admin.GET("/applications", applicationHandler.ListApplications)
			admin.PATCH("/applications/:id/status", applicationHandler.UpdateStatus)
		}
	}

	return r
}

// jobDetailView keys the cache by the canonical job id so that "/jobs/007"
// and "/jobs/7" are invalidated together
func jobDetailView(c *gin.Context) string {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return "/jobs/" + c.Param("id")
	}
	return events.ViewJobDetail(id)
}

func passThrough(c *gin.Context) {
	c.Next()
}
