// Package events carries the change notifications emitted by every write
// operation. Consumers (the view cache, the integrity worker) react to them
// instead of being invalidated implicitly.
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	CategoryCreated          = "category.created"
	JobCreated               = "job.created"
	JobUpdated               = "job.updated"
	JobDeleted               = "job.deleted"
	ApplicationCreated       = "application.created"
	ApplicationStatusUpdated = "application.status_updated"
	ResumeOrphaned           = "resume.orphaned"
)

// Views affected by writes
const (
	ViewPublicListing  = "/"
	ViewAdminDashboard = "/admin/dashboard"
)

// Attribute keys
const (
	AttrResumeURL = "resume_url"
	AttrStatus    = "status"
	AttrReason    = "reason"
)

// ViewJobDetail is the view of one job's public detail page
func ViewJobDetail(jobID int64) string {
	return "/jobs/" + strconv.FormatInt(jobID, 10)
}

// Event is a notification that stored data changed
type Event struct {
	ID         string            `json:"event_id"`
	Type       string            `json:"type"`
	EntityID   int64             `json:"entity_id"`
	Views      []string          `json:"views"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// New builds an event with a fresh id and timestamp
func New(eventType string, entityID int64, views ...string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		Views:      views,
		OccurredAt: time.Now().UTC(),
	}
}

// With returns a copy of e carrying an extra attribute
func (e Event) With(key, value string) Event {
	attrs := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	e.Attributes = attrs
	return e
}

// RoutingKey is the AMQP routing key the event is published under
func (e Event) RoutingKey() string {
	return "events." + e.Type
}

// Validate checks the fields a consumer relies on
func (e Event) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("invalid event_id %q: %w", e.ID, err)
	}
	if e.Type == "" {
		return fmt.Errorf("event type is required")
	}
	return nil
}

// Publisher delivers events to a consumer
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Noop discards events
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
