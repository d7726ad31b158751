package pubsub

import (
	"context"
	"sync"
	"time"
)

// DefaultBuffer is the per-subscriber queue length used by NewBroker.
const DefaultBuffer = 64

// Broker fans each published event out to every live subscriber.
// Publish never waits: when a subscriber's queue is full the event is
// dropped for that subscriber and counted.
type Broker[T any] struct {
	mu      sync.Mutex
	subs    map[uint64]chan Event[T]
	nextID  uint64
	buffer  int
	dropped int
	done    chan struct{}
	stopped bool
}

// NewBroker creates a broker with DefaultBuffer slots per subscriber.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBuffer)
}

// NewBrokerWithBuffer creates a broker with size slots per subscriber.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 0 {
		size = 0
	}
	return &Broker[T]{
		subs:   make(map[uint64]chan Event[T]),
		buffer: size,
		done:   make(chan struct{}),
	}
}

// Subscribe registers a subscriber until ctx is done. The returned channel
// is closed on unsubscribe or when the broker closes.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.buffer)
	if b.stopped {
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(id)
		case <-b.done:
		}
	}()
	return ch
}

func (b *Broker[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers payload to every subscriber with room in its queue.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped || len(b.subs) == 0 {
		return
	}

	ev := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.dropped++
		}
	}
}

// Close closes every subscriber channel. Further publishes are ignored.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.stopped = true
	close(b.done)
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a queue was full.
func (b *Broker[T]) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
