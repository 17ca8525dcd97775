package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/metrics"
)

const (
	// DefaultSessionTTL is how long a session stays valid after sign-in
	DefaultSessionTTL = 7 * 24 * time.Hour

	// MinPasswordLength is the shortest admin password accepted
	MinPasswordLength = 8
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash is compared against when the email is unknown so that
// both failure paths cost one bcrypt comparison
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		secret := make([]byte, 16)
		_, _ = rand.Read(secret)
		dummyHash, _ = bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	})
	return dummyHash
}

// AuthService signs admins in and out and resolves sessions
type AuthService struct {
	repo       AuthRepository
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewAuthService creates an AuthService. A non-positive ttl falls back to DefaultSessionTTL.
func NewAuthService(repo AuthRepository, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		repo:       repo,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn verifies the credentials and opens a new session
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, *domain.Identity, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.GetAdminUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrAdminUserNotFound) {
			s.logger.Error("Failed to look up admin user", slog.Any("error", err))
			return nil, nil, fmt.Errorf("sign in: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		return nil, nil, s.rejectSignIn(email, "unknown email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, s.rejectSignIn(email, "password mismatch")
	}

	token, err := generateToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:        token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.logger.Error("Failed to create session", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, nil, fmt.Errorf("sign in: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info("Admin signed in",
		slog.Int64("user_id", user.ID),
		slog.Time("expires_at", session.ExpiresAt),
	)

	return session, &domain.Identity{UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) rejectSignIn(email, reason string) error {
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
	s.logger.Warn("Admin sign-in rejected",
		slog.String("email", email),
		slog.String("reason", reason),
	)
	return domain.ErrInvalidCredentials
}

// SignOut deletes the session. An empty or unknown id is not an error.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// CheckAuth resolves a session id to the signed-in admin. Missing, unknown
// and expired sessions all yield ErrUnauthorized.
func (s *AuthService) CheckAuth(ctx context.Context, sessionID string) (*domain.Identity, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	identity, err := s.repo.GetSessionIdentity(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("check auth: %w", err)
	}

	return identity, nil
}

// HashPassword bcrypt-hashes a password for storage
// NewAdminUser builds an admin account with a normalized email and a bcrypt
// hash of password. The account is not stored.
func NewAdminUser(email, password string, now time.Time) (*domain.AdminUser, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewMissingFieldsError("email")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewInvalidFieldError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &domain.AdminUser{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
