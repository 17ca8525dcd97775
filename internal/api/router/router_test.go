package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuongbtq/job-board/internal/api/cache"
	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/api/handler"
	"github.com/cuongbtq/job-board/internal/api/resume"
	"github.com/cuongbtq/job-board/internal/api/service"
	"github.com/cuongbtq/job-board/internal/api/storage/memory"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/events"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct horse"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	fs     afero.Fs
	cache  *cache.ViewCache
	cfg    config.AuthConfig
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	fs := afero.NewMemMapFs()

	viewCache, err := cache.New(config.CacheConfig{Enabled: true}, logger)
	require.NoError(t, err)
	t.Cleanup(viewCache.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateAdminUser(context.Background(), &domain.AdminUser{
		Email: adminEmail, PasswordHash: string(hash), CreatedAt: time.Now(),
	}))

	publisher := events.NewMulti(logger, viewCache)
	authCfg := config.AuthConfig{
		SessionTTL: 7 * 24 * time.Hour,
		CookieName: "session_id",
		LoginPath:  "/admin/login",
	}

	deps := &handler.Dependencies{
		Logger:       logger,
		AppName:      "job-board-api",
		Health:       store,
		Auth:         service.NewAuthService(store, authCfg.SessionTTL, logger),
		Catalog:      service.NewCatalogService(store, publisher, logger),
		Jobs:         service.NewJobService(store, publisher, logger),
		Applications: service.NewApplicationService(store, store, resume.NewFSStore(fs, "/uploads"), 1<<20, publisher, logger),
		AuthConfig:   authCfg,
	}

	return &testServer{
		t:      t,
		engine: SetupRouter(deps, Options{Cache: viewCache}),
		store:  store,
		fs:     fs,
		cache:  viewCache,
		cfg:    authCfg,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login() *http.Cookie {
	s.t.Helper()
	body := strings.NewReader(fmt.Sprintf(`{"email":%q,"password":%q}`, adminEmail, adminPassword))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	w := s.do(req)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	s.t.Fatal("no session cookie set")
	return nil
}

func (s *testServer) admin(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return s.do(req)
}

type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Fields   []string        `json:"fields"`
	Redirect string          `json:"redirect"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func jobBody(categoryID int64) map[string]interface{} {
	return map[string]interface{}{
		"title":            "Backend Engineer",
		"company":          "Acme",
		"location":         "Remote",
		"type":             "Full-time",
		"salary":           "$120k",
		"category_id":      categoryID,
		"description":      "Build APIs",
		"requirements":     "A\nB\nC",
		"responsibilities": "Ship\nReview",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"job-board-api"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), cookie.Expires, time.Minute)
	assert.NotEmpty(t, cookie.Value)
}

func TestLogin_Form(t *testing.T) {
	s := newTestServer(t)
	form := strings.NewReader("email=ADMIN%40example.com&password=correct+horse")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := s.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	env := decode(t, w, &data)
	assert.True(t, env.Success)
	assert.Equal(t, adminEmail, data.User.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	w := s.admin(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail, "password": "wrong"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid email or password", env.Error)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, s.store.SessionCount())
}

func TestRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		cookie      *http.Cookie
		accept      string
		wantStatus  int
		wantCleared bool
	}{
		{name: "no cookie browser", accept: "text/html", wantStatus: http.StatusSeeOther},
		{name: "no cookie json", accept: "application/json", wantStatus: http.StatusUnauthorized},
		{name: "unknown session", cookie: &http.Cookie{Name: "session_id", Value: "forged"}, accept: "text/html", wantStatus: http.StatusSeeOther, wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
			req.Header.Set("Accept", tt.accept)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			w := s.do(req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/admin/login", w.Header().Get("Location"))
			} else {
				env := decode(t, w, nil)
				assert.Equal(t, "unauthorized", env.Error)
				assert.Equal(t, "/admin/login", env.Redirect)
			}

			cleared := false
			for _, c := range w.Result().Cookies() {
				if c.Name == "session_id" && c.MaxAge < 0 {
					cleared = true
				}
			}
			assert.Equal(t, tt.wantCleared, cleared)
		})
	}
}

func TestRequireAdmin_ExpiredSession(t *testing.T) {
	s := newTestServer(t)
	user, err := s.store.GetAdminUserByEmail(context.Background(), adminEmail)
	require.NoError(t, err)
	require.NoError(t, s.store.CreateSession(context.Background(), &domain.Session{
		ID: "expired", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute),
	}))

	w := s.admin(http.MethodGet, "/api/v1/admin/me", nil, &http.Cookie{Name: "session_id", Value: "expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()

	me := s.admin(http.MethodGet, "/api/v1/admin/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	w := s.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	assert.Equal(t, 0, s.store.SessionCount())

	after := s.admin(http.MethodGet, "/api/v1/admin/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestScenario(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()

	var category domain.Category
	w := s.admin(http.MethodPost, "/api/v1/admin/categories", map[string]string{"name": "Engineering"}, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &category)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Engineering"`)

	var job struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	w = s.admin(http.MethodPost, "/api/v1/admin/jobs", jobBody(category.ID), cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &job)
	assert.Equal(t, domain.JobStatusActive, job.Status)

	var listed []struct {
		ID           int64  `json:"id"`
		Requirements string `json:"requirements"`
	}
	w = s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs?category_id=%d", category.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, job.ID, listed[0].ID)
	assert.Equal(t, "A\nB\nC", listed[0].Requirements)

	var detail struct {
		Requirements []string `json:"requirements"`
		Category     string   `json:"category"`
	}
	w = s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", job.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &detail)
	assert.Equal(t, []string{"A", "B", "C"}, detail.Requirements)
	assert.Equal(t, "Engineering", detail.Category)

	var app struct {
		ID        int64  `json:"id"`
		Status    string `json:"status"`
		ResumeURL string `json:"resume_url"`
	}
	w = s.submitApplication(job.ID, map[string]string{"full_name": "Jane Doe", "email": "jane@x.com"}, "", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &app)
	assert.Equal(t, domain.ApplicationStatusNew, app.Status)
	assert.Empty(t, app.ResumeURL)

	w = s.admin(http.MethodPatch, fmt.Sprintf("/api/v1/admin/applications/%d/status", app.ID), map[string]string{"status": "Hired"}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, path := range []string{"/api/v1/admin/applications", fmt.Sprintf("/api/v1/admin/jobs/%d/applications", job.ID)} {
		var apps []struct {
			Status   string `json:"status"`
			JobTitle string `json:"job_title"`
		}
		w = s.admin(http.MethodGet, path, nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &apps)
		require.Len(t, apps, 1, path)
		assert.Equal(t, "Hired", apps[0].Status)
		assert.Equal(t, "Backend Engineer", apps[0].JobTitle)
	}

	var dashboard struct {
		Jobs         []json.RawMessage `json:"jobs"`
		Applications []json.RawMessage `json:"applications"`
		Categories   []json.RawMessage `json:"categories"`
	}
	w = s.admin(http.MethodGet, "/api/v1/admin/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &dashboard)
	assert.Len(t, dashboard.Jobs, 1)
	assert.Len(t, dashboard.Applications, 1)
	assert.Len(t, dashboard.Categories, 1)

	w = s.admin(http.MethodDelete, fmt.Sprintf("/api/v1/admin/jobs/%d", job.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", job.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	decode(t, w, &listed)
	assert.Empty(t, listed)
}

func (s *testServer) submitApplication(jobID int64, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	s.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("resume", filename)
		require.NoError(s.t, err)
		_, err = part.Write([]byte(content))
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/applications", jobID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *testServer) seedJob() (int64, int64) {
	s.t.Helper()
	ctx := context.Background()
	category, err := s.store.CreateCategory(ctx, "Engineering", time.Now())
	require.NoError(s.t, err)
	categoryID := category.ID
	job := &domain.Job{Title: "Backend Engineer", CategoryID: &categoryID, Status: domain.JobStatusActive, PostedDate: time.Now()}
	require.NoError(s.t, s.store.CreateJob(ctx, job))
	return job.ID, categoryID
}

func TestCreateApplication_WithResume(t *testing.T) {
	s := newTestServer(t)
	jobID, _ := s.seedJob()

	var app struct {
		ResumeURL string `json:"resume_url"`
	}
	w := s.submitApplication(jobID, map[string]string{"full_name": "Jane Doe", "email": "jane@x.com"}, "cv.pdf", "%PDF-1.4")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &app)

	assert.True(t, strings.HasPrefix(app.ResumeURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(app.ResumeURL, "-cv.pdf"))
	assert.NotEqual(t, "/uploads/cv.pdf", app.ResumeURL)

	stored, err := afero.ReadFile(s.fs, strings.TrimPrefix(app.ResumeURL, "/uploads"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(stored))
}

func TestCreateApplication_Errors(t *testing.T) {
	s := newTestServer(t)
	jobID, _ := s.seedJob()

	tests := []struct {
		name       string
		jobID      int64
		fields     map[string]string
		wantStatus int
		wantFields []string
	}{
		{name: "missing fields", jobID: jobID, fields: map[string]string{"phone": "555"}, wantStatus: http.StatusBadRequest, wantFields: []string{"full_name", "email"}},
		{name: "unknown job", jobID: 9999, fields: map[string]string{"full_name": "Jane", "email": "j@x.com"}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.submitApplication(tt.jobID, tt.fields, "", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w, nil)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantFields, env.Fields)
		})
	}
}

func TestCreateApplication_BodyTooLarge(t *testing.T) {
	s := newTestServer(t)
	jobID, _ := s.seedJob()

	resumeBody := strings.Repeat("x", 3<<20)
	w := s.submitApplication(jobID, map[string]string{"full_name": "Jane Doe", "email": "jane@x.com"}, "cv.pdf", resumeBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w, nil)
	assert.False(t, env.Success)
	assert.Equal(t, []string{"resume"}, env.Fields)
	assert.Contains(t, env.Error, "request body larger than")

	apps, err := s.store.ListApplications(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCreateJob_BindingRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()
	_, categoryID := s.seedJob()

	noTitle := jobBody(categoryID)
	delete(noTitle, "title")
	noCategory := jobBody(categoryID)
	noCategory["category_id"] = 0

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantFields []string
	}{
		{name: "missing title", body: noTitle, wantFields: []string{"title"}},
		{name: "zero category", body: noCategory, wantFields: []string{"category_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.admin(http.MethodPost, "/api/v1/admin/jobs", tt.body, cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			env := decode(t, w, nil)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantFields, env.Fields)
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	s := newTestServer(t)

	w := s.admin(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": adminEmail}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, []string{"password"}, env.Fields)
}

func TestAdminJobs_Errors(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()
	jobID, categoryID := s.seedJob()

	incomplete := jobBody(categoryID)
	delete(incomplete, "salary")

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{name: "create missing salary", method: http.MethodPost, path: "/api/v1/admin/jobs", body: incomplete, wantStatus: http.StatusBadRequest},
		{name: "update without status", method: http.MethodPut, path: fmt.Sprintf("/api/v1/admin/jobs/%d", jobID), body: jobBody(categoryID), wantStatus: http.StatusBadRequest},
		{name: "update unknown job", method: http.MethodPut, path: "/api/v1/admin/jobs/9999", body: withStatus(jobBody(categoryID), "Active"), wantStatus: http.StatusNotFound},
		{name: "delete unknown job", method: http.MethodDelete, path: "/api/v1/admin/jobs/9999", wantStatus: http.StatusNotFound},
		{name: "non numeric id", method: http.MethodGet, path: "/api/v1/admin/jobs/abc", wantStatus: http.StatusBadRequest},
		{name: "unknown status filter", method: http.MethodGet, path: "/api/v1/admin/jobs?status=Archived", wantStatus: http.StatusBadRequest},
		{name: "unknown application status", method: http.MethodPatch, path: "/api/v1/admin/applications/1/status", body: map[string]string{"status": "Maybe"}, wantStatus: http.StatusBadRequest},
		{name: "unknown application", method: http.MethodPatch, path: "/api/v1/admin/applications/9999/status", body: map[string]string{"status": "Hired"}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.admin(tt.method, tt.path, tt.body, cookie)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.False(t, decode(t, w, nil).Success)
		})
	}
}

func withStatus(body map[string]interface{}, status string) map[string]interface{} {
	body["status"] = status
	return body
}

func TestPublicCacheInvalidatedByWrites(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login()
	jobID, categoryID := s.seedJob()
	path := fmt.Sprintf("/api/v1/jobs/%d", jobID)

	first := s.do(httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, first.Code)
	s.cache.Wait()

	cached := s.do(httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, "HIT", cached.Header().Get("X-Cache"))

	body := withStatus(jobBody(categoryID), "Active")
	body["title"] = "Staff Engineer"
	w := s.admin(http.MethodPut, fmt.Sprintf("/api/v1/admin/jobs/%d", jobID), body, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	fresh := s.do(httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, "MISS", fresh.Header().Get("X-Cache"))
	assert.Contains(t, fresh.Body.String(), "Staff Engineer")
}

type unhealthy struct{}

func (unhealthy) HealthCheck(context.Context) error { return errors.New("connection refused") }

func TestHealth_Unhealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := SetupRouter(&handler.Dependencies{Logger: logger, AppName: "job-board-api", Health: unhealthy{}}, Options{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
