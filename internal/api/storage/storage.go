package storage

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cuongbtq/job-board/shared/postgresql"
)

//go:embed schema.sql
var schema string

// Storage implements the repositories on PostgreSQL through the shared client
type Storage struct {
	db *postgresql.Client
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg,
	}
}

// Migrate applies the schema. Every statement is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// HealthCheck verifies the database answers queries
func (s *Storage) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}
