package domain

import "github.com/cuongbtq/job-board/internal/events"

// Acknowledger settles a broker delivery. amqp.Delivery satisfies it.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// EventMessage is a decoded change event waiting in the worker pool
type EventMessage struct {
	Event       events.Event
	DeliveryTag uint64
	Redelivered bool
	Delivery    Acknowledger
}
