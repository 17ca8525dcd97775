package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAMQP struct {
	routingKey  string
	body        []byte
	contentType string
	err         error
}

func (f *fakeAMQP) PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error {
	f.routingKey = routingKey
	f.body = body
	f.contentType = contentType
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	event := New(JobUpdated, 42, ViewAdminDashboard, ViewPublicListing, ViewJobDetail(42))

	require.NoError(t, event.Validate())
	assert.Equal(t, JobUpdated, event.Type)
	assert.Equal(t, int64(42), event.EntityID)
	assert.Equal(t, []string{"/admin/dashboard", "/", "/jobs/42"}, event.Views)
	assert.False(t, event.OccurredAt.IsZero())
	assert.Equal(t, "events.job.updated", event.RoutingKey())
}

func TestEvent_WithDoesNotMutateOriginal(t *testing.T) {
	base := New(ResumeOrphaned, 0)
	withURL := base.With(AttrResumeURL, "/uploads/x-cv.pdf")

	assert.Nil(t, base.Attributes)
	assert.Equal(t, "/uploads/x-cv.pdf", withURL.Attributes[AttrResumeURL])
}

func TestAMQPPublisher(t *testing.T) {
	client := &fakeAMQP{}
	publisher := NewAMQPPublisher(client)

	event := New(JobDeleted, 9, ViewPublicListing)
	require.NoError(t, publisher.Publish(context.Background(), event))

	assert.Equal(t, "events.job.deleted", client.routingKey)
	assert.Equal(t, "application/json", client.contentType)

	decoded, err := Decode(client.body)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, int64(9), decoded.EntityID)
}

func TestAMQPPublisher_Error(t *testing.T) {
	publisher := NewAMQPPublisher(&fakeAMQP{err: errors.New("channel closed")})

	err := publisher.Publish(context.Background(), New(JobCreated, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errString string
	}{
		{name: "malformed json", body: "{", errString: "failed to parse event JSON"},
		{name: "invalid id", body: `{"event_id":"abc","type":"job.created"}`, errString: "invalid event_id"},
		{name: "missing type", body: `{"event_id":"6f1c8a4e-2d1b-4b8e-9a57-2f8d4c7a1e90"}`, errString: "event type is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errString)
		})
	}
}

func TestMulti(t *testing.T) {
	var received []string
	ok := PublisherFunc(func(ctx context.Context, e Event) error {
		received = append(received, e.Type)
		return nil
	})
	failing := PublisherFunc(func(ctx context.Context, e Event) error {
		return errors.New("broker down")
	})

	multi := NewMulti(discardLogger(), failing, ok, Noop{})
	err := multi.Publish(context.Background(), New(CategoryCreated, 3))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	// later publishers still run after a failure
	assert.Equal(t, []string{CategoryCreated}, received)

	body, marshalErr := json.Marshal(New(CategoryCreated, 3))
	require.NoError(t, marshalErr)
	assert.Contains(t, string(body), `"type":"category.created"`)
}
