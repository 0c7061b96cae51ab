package streaming

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"txguard-lab/pkg/logger"
)

// RemotePublisher forwards events off-process. NATSPublisher implements it.
type RemotePublisher interface {
	Publish(ctx context.Context, event *Event) error
	IsConnected() bool
	Close()
}

type subscriber struct {
	ch  chan *Event
	sub *Subscription
}

// EventBus distributes events to local subscribers and, when configured, NATS
type EventBus struct {
	remote RemotePublisher
	logger *logger.Logger

	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
}

// NewEventBus creates a new event bus. remote may be nil.
func NewEventBus(remote RemotePublisher, log *logger.Logger) *EventBus {
	return &EventBus{
		remote:      remote,
		logger:      log.WithComponent("event-bus"),
		subscribers: make(map[string]*subscriber),
	}
}

// Publish broadcasts an event to local subscribers and forwards it to NATS.
// Slow subscribers miss events rather than block the publisher.
func (eb *EventBus) Publish(ctx context.Context, event *Event) error {
	if eb.remote != nil && eb.remote.IsConnected() {
		if err := eb.remote.Publish(ctx, event); err != nil {
			eb.logger.Warn().Err(err).Msg("failed to publish to NATS, using local broadcast only")
		}
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, s := range eb.subscribers {
		if s.sub != nil && !s.sub.Matches(event) {
			continue
		}
		select {
		case s.ch <- event:
		default:
			eb.logger.Debug().Str("subscriber", id).Msg("subscriber channel full, dropping event")
		}
	}

	return nil
}

// Subscribe registers a local subscriber. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (eb *EventBus) Subscribe(sub *Subscription) (<-chan *Event, func()) {
	id := uuid.New().String()
	ch := make(chan *Event, 100)

	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	eb.subscribers[id] = &subscriber{ch: ch, sub: sub}
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", id).Msg("new subscriber")

	unsubscribe := func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		if _, ok := eb.subscribers[id]; ok {
			close(ch)
			delete(eb.subscribers, id)
			eb.logger.Debug().Str("subscriber_id", id).Msg("subscriber removed")
		}
	}

	return ch, unsubscribe
}

// SubscriberCount returns the number of active subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// Close closes every subscriber channel and the NATS connection
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.closed = true
	for id, s := range eb.subscribers {
		close(s.ch)
		delete(eb.subscribers, id)
	}

	if eb.remote != nil {
		eb.remote.Close()
	}
}
