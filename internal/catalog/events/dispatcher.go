package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// Handler consumes a single domain event.
type Handler interface {
	Handle(ctx context.Context, event domain.DomainEvent) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event domain.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event domain.DomainEvent) error {
	return f(ctx, event)
}

// Dispatcher fans domain events out to in-process subscribers. Each event
// instance is delivered at most once per subscriber; subscriber failures are
// logged and never propagate back into the unit of work.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
	logger      zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[string][]Handler),
		logger:      logger,
	}
}

// Subscribe registers a handler for one event name.
func (d *Dispatcher) Subscribe(eventName string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventName] = append(d.subscribers[eventName], handler)
}

// Dispatch delivers every event to the handlers subscribed to its name.
// Events without subscribers are dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.DomainEvent) {
	for _, event := range events {
		d.mu.RLock()
		handlers := d.subscribers[event.EventName()]
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler.Handle(ctx, event); err != nil {
				d.logger.Error().
					Err(err).
					Str("event", event.EventName()).
					Msg("Event subscriber failed")
			}
		}
	}
}
