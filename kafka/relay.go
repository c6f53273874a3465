package kafka

import (
	"context"
	"fmt"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/events"
)

// Relay forwards in-process domain events to Kafka. It subscribes to the
// dispatcher for every catalog event name; publish failures are logged by the
// dispatcher and never reach the unit of work.
type Relay struct {
	publisher *Publisher
}

// NewRelay creates a relay over the given publisher.
func NewRelay(publisher *Publisher) *Relay {
	return &Relay{publisher: publisher}
}

// Register subscribes the relay to all catalog event names.
func (r *Relay) Register(dispatcher *events.Dispatcher) {
	for _, name := range []string{
		domain.EventProductCreated,
		domain.EventProductPriceChanged,
		domain.EventProductPublished,
		domain.EventProductDiscontinued,
	} {
		dispatcher.Subscribe(name, r)
	}
}

// Handle maps one domain event to its wire form and publishes it.
func (r *Relay) Handle(ctx context.Context, event domain.DomainEvent) error {
	switch e := event.(type) {
	case domain.ProductCreatedEvent:
		return r.publisher.PublishProductCreated(ctx, ProductCreatedMessage{
			ProductID: e.ProductID.String(),
			SKU:       e.SKU,
			Name:      e.Name,
			Price:     e.Price.Amount().String(),
			Currency:  e.Price.Currency(),
		})
	case domain.ProductPriceChangedEvent:
		return r.publisher.PublishProductPriceChanged(ctx, ProductPriceChangedMessage{
			ProductID:   e.ProductID.String(),
			OldPrice:    e.OldPrice.Amount().String(),
			OldCurrency: e.OldPrice.Currency(),
			NewPrice:    e.NewPrice.Amount().String(),
			NewCurrency: e.NewPrice.Currency(),
		})
	case domain.ProductPublishedEvent:
		return r.publisher.PublishProductLifecycle(ctx, EventTypeProductPublished, ProductLifecycleMessage{
			ProductID: e.ProductID.String(),
			SKU:       e.SKU,
			Status:    string(domain.StatusPublished),
		})
	case domain.ProductDiscontinuedEvent:
		return r.publisher.PublishProductLifecycle(ctx, EventTypeProductDiscontinued, ProductLifecycleMessage{
			ProductID: e.ProductID.String(),
			SKU:       e.SKU,
			Status:    string(domain.StatusDiscontinued),
		})
	default:
		return fmt.Errorf("no kafka mapping for event %q", event.EventName())
	}
}
