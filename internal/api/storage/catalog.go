package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/model"
)

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name, id
	`

	var rows []model.Category
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = row.ToDomain()
	}
	return categories, nil
}

func (s *Storage) CreateCategory(ctx context.Context, name string, createdAt time.Time) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, created_at)
		VALUES ($1, $2)
		RETURNING id, name, created_at
	`

	var row model.Category
	if err := s.db.GetContext(ctx, &row, query, name, createdAt); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	category := row.ToDomain()
	return &category, nil
}
