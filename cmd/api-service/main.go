package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cuongbtq/job-board/internal/api/cache"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/api/resume"
	"github.com/cuongbtq/job-board/internal/api/router"
	"github.com/cuongbtq/job-board/internal/api/service"
	"github.com/cuongbtq/job-board/internal/api/storage"
	"github.com/cuongbtq/job-board/internal/api/storage/memory"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/events"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/cuongbtq/job-board/shared/postgresql"
	"github.com/cuongbtq/job-board/shared/rabbitmq"
)

// repositories is satisfied by both the PostgreSQL and the in-memory store
type repositories interface {
	service.CategoryRepository
	service.JobRepository
	service.ApplicationRepository
	service.AuthRepository
	handler.HealthChecker
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// Initialize repositories
	repos, dbClient, err := initRepositories(ctx, &cfg.Database, cfg.Auth.BootstrapAdmin, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize RabbitMQ publisher when enabled
	var rabbitClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err = initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		appLogger.Info("RabbitMQ connection established")
	}

	// Cleanup function to close all resources
	var viewCache *cache.ViewCache
	cleanup := func() {
		if viewCache != nil {
			viewCache.Close()
		}
		if dbClient != nil {
			dbClient.Close()
		}
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}
	defer cleanup()

	resumes, err := resume.NewStore(ctx, cfg.Storage, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize resume store: %w", err)
	}

	// Change events fan out to the view cache and the broker
	var publishers []events.Publisher
	if cfg.Cache.Enabled {
		viewCache, err = cache.New(cfg.Cache, appLogger.Logger)
		if err != nil {
			return err
		}
		publishers = append(publishers, viewCache)
	}
	if rabbitClient != nil {
		publishers = append(publishers, events.NewAMQPPublisher(rabbitClient))
	}
	publisher := events.NewMulti(appLogger.Logger, publishers...)

	handlerDeps := &handler.Dependencies{
		Logger:       appLogger.Logger,
		AppName:      cfg.App.Name,
		Health:       repos,
		Auth:         service.NewAuthService(repos, cfg.Auth.SessionTTL, appLogger.Logger),
		Catalog:      service.NewCatalogService(repos, publisher, appLogger.Logger),
		Jobs:         service.NewJobService(repos, publisher, appLogger.Logger),
		Applications: service.NewApplicationService(repos, repos, resumes, cfg.Storage.MaxResumeBytes, publisher, appLogger.Logger),
		AuthConfig:   cfg.Auth,
	}

	// Initialize router
	r := initRouter(cfg, handlerDeps, viewCache)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		appLogger.Error("Server failed to start", slog.Any("error", err))
		return err
	}

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initRepositories opens the configured store and applies the schema when
// auto_migrate is set. The memory store is seeded with the bootstrap admin
// when one is configured. The returned client is nil for the memory driver.
func initRepositories(ctx context.Context, cfg *config.DatabaseConfig, seed config.BootstrapAdmin, logger *slog.Logger) (repositories, *postgresql.Client, error) {
	if cfg.Driver == config.DatabaseDriverMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.New()
		if seed.Enabled() {
			if err := seedAdmin(ctx, store, seed, time.Now().UTC(), logger); err != nil {
				return nil, nil, err
			}
		}
		return store, nil, nil
	}

	dbClient, err := initPostgreSQL(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established")

	store := storage.NewStorage(dbClient)
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		logger.Info("Database schema applied")
	}

	return store, dbClient, nil
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes a publish-only RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
		DeclareQueue:       false,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, deps *handler.Dependencies, viewCache *cache.ViewCache) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps, router.OptionsFromConfig(cfg, viewCache))
}
