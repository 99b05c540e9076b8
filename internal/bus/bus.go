// Package bus provides non-blocking event distribution to multiple subscribers.
//
// Messages published to the bus are fanned out to all registered subscriber
// channels. If a subscriber's channel is full, the message is dropped for that
// subscriber rather than queued: delivery is best-effort, at-most-once, and
// slow or absent subscribers never block the publisher. Subscribers that need
// history read the catalog instead.
package bus

import (
	"errors"
	"sync"

	"sentinel/internal/catalog"
)

// TopicNewSecurityEvent carries freshly inserted catalog events.
const TopicNewSecurityEvent = "new-security-event"

// Message is one published event notification.
type Message struct {
	Topic string
	Event catalog.Event
}

var (
	// ErrSubscriberExists is returned when Subscribe is called with a duplicate id.
	ErrSubscriberExists = errors.New("subscriber id already exists")

	// ErrSubscriberNotFound is returned when Unsubscribe is called with an unknown id.
	ErrSubscriberNotFound = errors.New("subscriber id not found")

	// ErrClosed is returned when operations are attempted on a closed bus.
	ErrClosed = errors.New("bus is closed")
)

// Stats contains delivery counters for observability.
type Stats struct {
	Published uint64
	Sent      uint64
	Dropped   uint64
}

type subscriber struct {
	id string
	ch chan<- Message
}

// Bus fans messages out to subscriber channels with a per-subscriber drop policy.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]subscriber
	closed bool
	stats  Stats
}

// New constructs an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string]subscriber)}
}

// Subscribe registers a channel to receive published messages.
func (b *Bus) Subscribe(id string, ch chan<- Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, exists := b.subs[id]; exists {
		return ErrSubscriberExists
	}
	b.subs[id] = subscriber{id: id, ch: ch}
	return nil
}

// Unsubscribe removes a subscriber by id.
func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, exists := b.subs[id]; !exists {
		return ErrSubscriberNotFound
	}
	delete(b.subs, id)
	return nil
}

// Publish sends the message to every subscriber without blocking. Messages
// are dropped for subscribers whose channels are full. Publishing on a closed
// bus is a no-op: shutdown must never crash a late publisher.
func (b *Bus) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.stats.Published++
	for _, sub := range b.subs {
		select {
		case sub.ch <- msg:
			b.stats.Sent++
		default:
			b.stats.Dropped++
		}
	}
}

// Stats returns a snapshot of delivery counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

// Close stops the bus. Registered subscriber channels are not closed; their
// owners close them.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	b.subs = nil
	return nil
}
