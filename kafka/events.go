package kafka

import "time"

// Event types carried in the event_type header and payload.
const (
	EventTypeProductCreated      = "product.created"
	EventTypeProductPriceChanged = "product.price_changed"
	EventTypeProductPublished    = "product.published"
	EventTypeProductDiscontinued = "product.discontinued"
)

// Kafka topics
const (
	TopicProductCreated      = "catalog.product-created"
	TopicProductPriceChanged = "catalog.product-price-changed"
	TopicProductLifecycle    = "catalog.product-lifecycle"
)

// ProductCreatedMessage is the wire form of a product creation event.
type ProductCreatedMessage struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductPriceChangedMessage is the wire form of a price change event. Prices
// are decimal strings so consumers never round through floats.
type ProductPriceChangedMessage struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ProductID   string    `json:"product_id"`
	OldPrice    string    `json:"old_price"`
	OldCurrency string    `json:"old_currency"`
	NewPrice    string    `json:"new_price"`
	NewCurrency string    `json:"new_currency"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProductLifecycleMessage is the wire form of a publish or discontinue event.
type ProductLifecycleMessage struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
