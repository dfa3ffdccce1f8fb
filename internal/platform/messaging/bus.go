package messaging

import (
	"context"
	"log/slog"
	"sync"

	contractsv1 "bibliotheque/contracts/gen/events/v1"
)

// AllTopics subscribes to every published event.
const AllTopics = "*"

const subscriberBuffer = 128

// Handler consumes one event. Errors are logged and the event is dropped.
type Handler func(context.Context, contractsv1.Envelope) error

type subscriber struct {
	group string
	ch    chan contractsv1.Envelope
}

// Bus is the in-process publish/subscribe bus the outbox relays publish to.
// Delivery is best effort: a subscriber whose buffer is full misses events.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	wg          sync.WaitGroup
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]*subscriber),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	b.mu.RLock()
	subs := append([]*subscriber(nil), b.subscribers[topic]...)
	if topic != AllTopics {
		subs = append(subs, b.subscribers[AllTopics]...)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub.ch <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", sub.group,
				"event_id", event.EventID,
			)
		}
	}

	b.logger.Debug("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"subscribers", len(subs),
	)
	return nil
}

// Subscribe registers handler for topic until ctx is cancelled. Use
// AllTopics to receive every event.
func (b *Bus) Subscribe(ctx context.Context, topic string, consumerGroup string, handler Handler) error {
	sub := &subscriber{group: consumerGroup, ch: make(chan contractsv1.Envelope, subscriberBuffer)}

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, sub)
				return
			case event := <-sub.ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

// Wait blocks until every subscription goroutine has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) removeSubscriber(topic string, target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	filtered := make([]*subscriber, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		delete(b.subscribers, topic)
		return
	}
	b.subscribers[topic] = filtered
}
