// Package events delivers domain events to a fixed set of subscribers.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/ports"
)

// Handler reacts to a published event.
type Handler func(ctx context.Context, event entities.Event) error

// Subscription binds a handler to one event type. An empty Type matches
// every event.
type Subscription struct {
	Name    string
	Type    entities.EventType
	Handler Handler
}

// Bus is a synchronous, fire-and-forget event publisher. Subscriptions are
// fixed at construction. Handler errors and panics are logged and never
// reach the publisher.
type Bus struct {
	subscriptions []Subscription
	logger        *slog.Logger
}

var _ ports.EventPublisher = (*Bus)(nil)

// NewBus creates a bus that delivers to the given subscriptions in order.
func NewBus(logger *slog.Logger, subscriptions ...Subscription) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// Publish delivers event to every matching subscription.
func (b *Bus) Publish(ctx context.Context, event entities.Event) {
	for _, sub := range b.subscriptions {
		if sub.Type != "" && sub.Type != event.Type() {
			continue
		}
		if err := b.deliver(ctx, sub, event); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"subscriber", sub.Name,
				"event", string(event.Type()),
				"error", err,
			)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, sub Subscription, event entities.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sub.Handler(ctx, event)
}
