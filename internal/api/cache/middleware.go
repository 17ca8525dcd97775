package cache

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/cuongbtq/job-board/internal/metrics"
)

// ViewFunc names the view a request renders
type ViewFunc func(c *gin.Context) string

// View returns a ViewFunc that always names view
func View(view string) ViewFunc {
	return func(*gin.Context) string { return view }
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Key is the request path plus the listed query parameters in canonical
// order; every other parameter is ignored
func Key(u *url.URL, params ...string) string {
	query := u.Query()
	kept := url.Values{}
	for _, name := range params {
		if values, ok := query[name]; ok {
			kept[name] = values
		}
	}
	if len(kept) == 0 {
		return u.Path
	}
	return u.Path + "?" + kept.Encode()
}

// Middleware serves GET requests from the cache and stores successful
// responses under Key(url, params...)
func (v *ViewCache) Middleware(viewOf ViewFunc, params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := Key(c.Request.URL, params...)
		view := viewOf(c)
		if entry, ok := v.Get(key); ok {
			metrics.ViewCacheLookupsTotal.WithLabelValues(metrics.ResultHit).Inc()
			c.Header("X-Cache", "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}
		metrics.ViewCacheLookupsTotal.WithLabelValues(metrics.ResultMiss).Inc()

		generation := v.Generation(view)

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header("X-Cache", "MISS")

		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}
		v.Set(view, generation, key, &Entry{
			Status:      recorder.Status(),
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
	}
}
