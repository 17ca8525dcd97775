package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/service"
	"github.com/cuongbtq/job-board/internal/config"
)

type adminCreator interface {
	CreateAdminUser(ctx context.Context, user *domain.AdminUser) error
}

// seedAdmin creates the configured bootstrap admin
func seedAdmin(ctx context.Context, repo adminCreator, seed config.BootstrapAdmin, now time.Time, logger *slog.Logger) error {
	user, err := service.NewAdminUser(seed.Email, seed.Password, now)
	if err != nil {
		return fmt.Errorf("invalid auth bootstrap_admin: %w", err)
	}
	if err := repo.CreateAdminUser(ctx, user); err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	logger.Info("Bootstrap admin created", slog.String("email", user.Email))
	return nil
}
