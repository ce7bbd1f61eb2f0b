package events

import (
	"time"
)

// DomainEvent represents a domain event interface
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetOccurredAt() time.Time
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

func (e BaseEvent) GetEventType() string {
	return e.EventType
}

func (e BaseEvent) GetOccurredAt() time.Time {
	return e.OccurredAt
}

// EventHandler represents a handler for domain events
type EventHandler interface {
	Handle(event DomainEvent) error
}

// EventPublisher publishes domain events after the originating unit of work commits.
type EventPublisher interface {
	Publish(event DomainEvent) error
	PublishAll(events []DomainEvent) error
}

// EventDispatcher combines publishing with handler registration and lifecycle.
type EventDispatcher interface {
	EventPublisher
	Subscribe(eventType string, handler EventHandler) error
	Start() error
	Stop() error
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(DomainEvent) error

func (f HandlerFunc) Handle(event DomainEvent) error {
	return f(event)
}
