package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/job-board/internal/config"
	"github.com/cuongbtq/job-board/internal/events"
)

func newTestCache(t *testing.T) *ViewCache {
	t.Helper()
	v, err := New(config.CacheConfig{Enabled: true}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return v
}

func TestViewCache_InvalidateByEvent(t *testing.T) {
	v := newTestCache(t)

	require.True(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs", &Entry{Status: 200, Body: []byte("list")}))
	require.True(t, v.Set(events.ViewJobDetail(7), 0, "/api/v1/jobs/7", &Entry{Status: 200, Body: []byte("detail")}))
	v.Wait()

	_, ok := v.Get("/api/v1/jobs")
	require.True(t, ok)

	require.NoError(t, v.Publish(context.Background(), events.New(events.JobCreated, 8,
		events.ViewAdminDashboard, events.ViewPublicListing)))

	_, ok = v.Get("/api/v1/jobs")
	assert.False(t, ok)
	_, ok = v.Get("/api/v1/jobs/7")
	assert.True(t, ok, "detail of another job stays cached")

	require.NoError(t, v.Publish(context.Background(), events.New(events.JobUpdated, 7, events.ViewJobDetail(7))))
	_, ok = v.Get("/api/v1/jobs/7")
	assert.False(t, ok)
}

func TestViewCache_StaleGenerationNotStored(t *testing.T) {
	v := newTestCache(t)

	generation := v.Generation(events.ViewPublicListing)
	v.Invalidate(events.ViewPublicListing)

	assert.False(t, v.Set(events.ViewPublicListing, generation, "/api/v1/categories", &Entry{Status: 200, Body: []byte("old")}))
	v.Wait()
	_, ok := v.Get("/api/v1/categories")
	assert.False(t, ok)
}

func TestViewCache_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newTestCache(t)

	calls := 0
	r := gin.New()
	r.GET("/api/v1/categories", v.Middleware(View(events.ViewPublicListing)), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})
	r.GET("/api/v1/missing", v.Middleware(View(events.ViewPublicListing)), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	first := get("/api/v1/categories")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	v.Wait()

	second := get("/api/v1/categories")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":1}`, second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")

	require.NoError(t, v.Publish(context.Background(), events.New(events.CategoryCreated, 1, events.ViewPublicListing)))
	third := get("/api/v1/categories")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":2}`, third.Body.String())

	get("/api/v1/missing")
	v.Wait()
	missing := get("/api/v1/missing")
	assert.Equal(t, "MISS", missing.Header().Get("X-Cache"))
	assert.Equal(t, 4, calls)
}

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		target string
		params []string
		want   string
	}{
		{name: "no query", target: "/api/v1/jobs", params: []string{"category_id"}, want: "/api/v1/jobs"},
		{name: "unknown params dropped", target: "/api/v1/jobs?junk=1&utm=x", params: []string{"category_id"}, want: "/api/v1/jobs"},
		{name: "kept param", target: "/api/v1/jobs?junk=1&category_id=3", params: []string{"category_id"}, want: "/api/v1/jobs?category_id=3"},
		{name: "detail ignores query", target: "/api/v1/jobs/7?x=1", want: "/api/v1/jobs/7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, Key(req.URL, tt.params...))
		})
	}
}

func TestViewCache_IndexStaysBounded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, err := New(config.CacheConfig{Enabled: true, MaxCost: 1 << 10, MaxKeysPerView: 16},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(v.Close)

	r := gin.New()
	r.GET("/api/v1/jobs", v.Middleware(View(events.ViewPublicListing), "category_id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"jobs": []string{}})
	})
	get := func(target string) {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	for i := 0; i < 5000; i++ {
		get(fmt.Sprintf("/api/v1/jobs?junk=%d", i))
	}
	v.Wait()
	assert.LessOrEqual(t, v.indexedKeys(events.ViewPublicListing), 1)

	for i := 0; i < 5000; i++ {
		get(fmt.Sprintf("/api/v1/jobs?category_id=%d", i))
	}
	v.Wait()
	assert.LessOrEqual(t, v.indexedKeys(events.ViewPublicListing), 16)
}

func TestViewCache_FullIndexReclaimsExpiredKeys(t *testing.T) {
	v, err := New(config.CacheConfig{Enabled: true, TTL: time.Minute, MaxKeysPerView: 2},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(v.Close)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	entry := &Entry{Status: 200, Body: []byte("list")}

	require.True(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs?category_id=1", entry))
	require.True(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs?category_id=2", entry))
	assert.False(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs?category_id=3", entry))
	assert.True(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs?category_id=1", entry), "indexed keys may be refreshed")

	now = now.Add(2 * time.Minute)
	assert.True(t, v.Set(events.ViewPublicListing, 0, "/api/v1/jobs?category_id=3", entry))
	assert.Equal(t, 1, v.indexedKeys(events.ViewPublicListing))
}
