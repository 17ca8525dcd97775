package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/model"
)

// uniqueViolation is the PostgreSQL error code for a unique index conflict
const uniqueViolation = pq.ErrorCode("23505")

func (s *Storage) GetAdminUserByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE email = $1
	`

	var row model.AdminUser
	if err := s.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	user := row.ToDomain()
	return &user, nil
}

func (s *Storage) CreateAdminUser(ctx context.Context, user *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := s.db.GetContext(ctx, &user.ID, query, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("failed to create admin user %s: %w", user.Email, domain.ErrAdminUserExists)
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func (s *Storage) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.db.ExecContext(ctx, query, session.ID, session.UserID, session.ExpiresAt, session.CreatedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionIdentity resolves a session that is still valid at now
func (s *Storage) GetSessionIdentity(ctx context.Context, sessionID string, now time.Time) (*domain.Identity, error) {
	query := `
		SELECT s.user_id, u.email
		FROM sessions s
		JOIN admin_users u ON s.user_id = u.id
		WHERE s.id = $1 AND s.expires_at > $2
	`

	var row model.SessionIdentity
	if err := s.db.GetContext(ctx, &row, query, sessionID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &domain.Identity{UserID: row.UserID, Email: row.Email}, nil
}

// DeleteSession removes the session; deleting an unknown id is not an error
func (s *Storage) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
