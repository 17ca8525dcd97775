package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/dto"
)

const identityKey = "admin_identity"

// SetIdentity attaches the signed-in admin to the request
func SetIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

// CurrentIdentity returns the admin attached by the auth guard
func CurrentIdentity(c *gin.Context) (*domain.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*domain.Identity)
	return identity, ok
}

// SetSessionCookie writes the session cookie expiring with the session
func SetSessionCookie(c *gin.Context, name string, secure bool, session *domain.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie
func ClearSessionCookie(c *gin.Context, name string, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	session, identity, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Failed to sign in")
		return
	}

	SetSessionCookie(c, h.cfg.CookieName, h.cfg.CookieSecure, session)
	respond(c, http.StatusOK, dto.LoginResponse{User: *identity, ExpiresAt: session.ExpiresAt})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cfg.CookieName); err == nil {
		if err := h.auth.SignOut(c.Request.Context(), sessionID); err != nil {
			h.logger.Error("Failed to delete session", slog.Any("error", err))
		}
	}

	ClearSessionCookie(c, h.cfg.CookieName, h.cfg.CookieSecure)
	c.Redirect(http.StatusSeeOther, h.cfg.LoginPath)
}

// Me handles GET /api/v1/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, h.logger, domain.ErrUnauthorized, "Unauthorized")
		return
	}
	respond(c, http.StatusOK, identity)
}
