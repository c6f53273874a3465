package domain

import "github.com/google/uuid"

// Event names.
const (
	EventProductCreated      = "product.created"
	EventProductPriceChanged = "product.price_changed"
	EventProductPublished    = "product.published"
	EventProductDiscontinued = "product.discontinued"
)

// DomainEvent is an immutable record of something that happened to an
// aggregate, collected on the aggregate and dispatched after a successful
// persistence flush.
type DomainEvent interface {
	EventName() string
}

// ProductCreatedEvent is emitted once by the product factory.
type ProductCreatedEvent struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Price     Money
}

func (ProductCreatedEvent) EventName() string { return EventProductCreated }

// ProductPriceChangedEvent carries both the old and the new price.
type ProductPriceChangedEvent struct {
	ProductID uuid.UUID
	OldPrice  Money
	NewPrice  Money
}

func (ProductPriceChangedEvent) EventName() string { return EventProductPriceChanged }

// ProductPublishedEvent is emitted when a draft product goes live.
type ProductPublishedEvent struct {
	ProductID uuid.UUID
	SKU       string
}

func (ProductPublishedEvent) EventName() string { return EventProductPublished }

// ProductDiscontinuedEvent is emitted when a product reaches its terminal state.
type ProductDiscontinuedEvent struct {
	ProductID uuid.UUID
	SKU       string
}

func (ProductDiscontinuedEvent) EventName() string { return EventProductDiscontinued }
