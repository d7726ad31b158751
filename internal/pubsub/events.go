// Package pubsub provides a small generic publish/subscribe broker used to
// fan log entries out to interested listeners such as the debug line of
// the editor view.
package pubsub

import (
	"context"
	"time"
)

// EventType labels a published event.
type EventType string

// EntryEvent is published for every new log entry.
const EntryEvent EventType = "entry"

// Event is a published payload with its type and publication time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
