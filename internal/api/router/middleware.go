package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/dto"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/metrics"
)

// LoggerMiddleware logs HTTP requests with slog
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)

		attrs := []any{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Duration("latency", latency),
			slog.Int("body_size", c.Writer.Size()),
		}
		if identity, ok := handler.CurrentIdentity(c); ok {
			attrs = append(attrs, slog.Int64("admin_id", identity.UserID))
		}
		logger.Info("HTTP Request", attrs...)

		// Log errors if any
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				logger.Debug("Request error",
					slog.String("error", e.Error()),
					slog.Uint64("type", uint64(e.Type)),
				)
			}
		}
	}
}

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing. Credentials are only
// allowed for an explicit origin.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowedOrigin == "" || allowedOrigin == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authChecker resolves a session id to the signed-in admin
type authChecker interface {
	CheckAuth(ctx context.Context, sessionID string) (*domain.Identity, error)
}

// RequireAdmin gates admin routes on a valid session cookie. Browsers are
// redirected to the login page; JSON clients get 401.
func RequireAdmin(auth authChecker, cfg config.AuthConfig, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(cfg.CookieName)

		identity, err := auth.CheckAuth(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				logger.Error("Failed to check session", slog.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{
					Success: false,
					Error:   "Failed to check session",
				})
				return
			}

			if sessionID != "" {
				handler.ClearSessionCookie(c, cfg.CookieName, cfg.CookieSecure)
			}
			if wantsJSON(c.Request) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Response{
					Success:  false,
					Error:    domain.ErrUnauthorized.Error(),
					Redirect: cfg.LoginPath,
				})
				return
			}
			c.Redirect(http.StatusSeeOther, cfg.LoginPath)
			c.Abort()
			return
		}

		handler.SetIdentity(c, identity)
		c.Next()
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
