package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Multi fans an event out to several publishers. Every publisher is tried;
// failures are logged and joined.
type Multi struct {
	publishers []Publisher
	logger     *slog.Logger
}

// NewMulti creates a fan-out publisher
func NewMulti(logger *slog.Logger, publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers, logger: logger}
}

func (m *Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			m.logger.Error("Failed to publish event",
				slog.String("event_id", event.ID),
				slog.String("type", event.Type),
				slog.Any("error", err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// amqpClient is the part of rabbitmq.Client the publisher needs
type amqpClient interface {
	PublishWithRetry(ctx context.Context, routingKey string, body []byte, contentType string) error
}

// AMQPPublisher sends events as JSON to the events exchange
type AMQPPublisher struct {
	client amqpClient
}

// NewAMQPPublisher creates a publisher on top of a RabbitMQ client
func NewAMQPPublisher(client amqpClient) *AMQPPublisher {
	return &AMQPPublisher{client: client}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, event.RoutingKey(), body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

// Decode parses and validates an event received from the broker
func Decode(body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("failed to parse event JSON: %w", err)
	}
	if err := event.Validate(); err != nil {
		return Event{}, err
	}
	return event, nil
}
