// Package metrics holds the prometheus collectors of the API and the worker
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_http_requests_total",
	Help: "Count of HTTP requests by route, method and status code",
}, []string{"route", "method", "code"})

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "jobboard_http_request_duration_seconds",
	Help:    "Latency of HTTP requests",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "method"})

var LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_login_attempts_total",
	Help: "Count of admin sign-in attempts",
}, []string{"result"})

var ApplicationsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jobboard_applications_submitted_total",
	Help: "Count of applications stored",
})

var ResumesStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_resumes_stored_total",
	Help: "Count of resume uploads by backend and result",
}, []string{"backend", "result"})

var EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_events_published_total",
	Help: "Count of change events published by type and result",
}, []string{"type", "result"})

var ViewCacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_view_cache_lookups_total",
	Help: "Count of view cache lookups by result",
}, []string{"result"})

var WorkerEventsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jobboard_worker_events_processed_total",
	Help: "Count of change events handled by the integrity worker",
}, []string{"type", "result"})

var OrphanedApplicationsFound = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jobboard_orphaned_applications_found_total",
	Help: "Count of applications found referencing a deleted job",
})

// Result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)
