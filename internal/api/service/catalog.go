package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/events"
)

// CatalogService manages job categories
type CatalogService struct {
	repo   CategoryRepository
	events emitter
	logger *slog.Logger
	now    func() time.Time
}

func NewCatalogService(repo CategoryRepository, publisher events.Publisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		events: emitter{publisher: publisher, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// ListCategories returns every category ordered by name
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", slog.Any("error", err))
		return nil, err
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewMissingFieldsError("name")
	}

	category, err := s.repo.CreateCategory(ctx, name, s.now())
	if err != nil {
		s.logger.Error("Failed to create category", slog.String("name", name), slog.Any("error", err))
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("Category created", slog.Int64("category_id", category.ID), slog.String("name", category.Name))
	s.events.emit(ctx, events.New(events.CategoryCreated, category.ID,
		events.ViewAdminDashboard, events.ViewPublicListing))

	return category, nil
}
