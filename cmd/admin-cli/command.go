package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/service"
	"github.com/cuongbtq/job-board/internal/api/storage"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/shared/logger"
	"github.com/cuongbtq/job-board/shared/postgresql"
)

// adminCreator persists a new admin account
type adminCreator interface {
	CreateAdminUser(ctx context.Context, user *domain.AdminUser) error
}

func rootCommand() *cobra.Command {
	var configPath string

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "admin-cli",
		Short: "Maintenance commands for the job board database",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")

	cmd.AddCommand(migrateCommand(&configPath), adminCommand(&configPath))
	return cmd
}

func migrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			store, closeFn, err := openStorage(*configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("schema applied")
			return nil
		},
	}
}

func adminCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			store, closeFn, err := openStorage(*configPath)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := createAdmin(cmd.Context(), store, email, password, time.Now().UTC())
			if err != nil {
				return err
			}
			cmd.Printf("created admin %s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "Admin email address")
	create.Flags().StringVar(&password, "password", "", "Admin password")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

// createAdmin stores an admin with a normalized email and a bcrypt hash
func createAdmin(ctx context.Context, repo adminCreator, email, password string, now time.Time) (*domain.AdminUser, error) {
	user, err := service.NewAdminUser(email, password, now)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateAdminUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// openStorage connects to the configured PostgreSQL database
func openStorage(configPath string) (*storage.Storage, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver != config.DatabaseDriverPostgres {
		return nil, nil, fmt.Errorf("admin-cli requires the postgres database driver, got %q (seed the memory store with auth.bootstrap_admin)", cfg.Database.Driver)
	}

	appLogger, err := logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbClient, err := postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, appLogger.Logger)
	if err != nil {
		appLogger.Close()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	closeFn := func() {
		if err := dbClient.Close(); err != nil {
			appLogger.Warn("Failed to close database", slog.Any("error", err))
		}
		appLogger.Close()
	}
	return storage.NewStorage(dbClient), closeFn, nil
}
