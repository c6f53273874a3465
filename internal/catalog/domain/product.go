package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product statuses. The lifecycle is linear and one-directional:
// draft -> published -> discontinued.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusPublished    Status = "published"
	StatusDiscontinued Status = "discontinued"
)

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusPublished, StatusDiscontinued:
		return Status(raw), nil
	default:
		return "", &InvalidValueError{Value: raw, Reason: "unknown product status"}
	}
}

func (s Status) canTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPublished
	case StatusPublished:
		return next == StatusDiscontinued
	default:
		return false
	}
}

// Validation bounds for product attributes.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Product is the aggregate root of the catalog consistency boundary. All
// mutations pass through named operations that enforce invariants, bump the
// version and may append a domain event. The version is the optimistic
// concurrency token checked by the repository at write time.
type Product struct {
	id          uuid.UUID
	sku         Sku
	name        string
	description string
	price       Money
	status      Status
	categoryID  *uuid.UUID

	version       int64
	storedVersion int64 // version last seen in storage, -1 before first insert

	createdAt time.Time
	createdBy string
	updatedAt time.Time
	updatedBy string

	events []DomainEvent
}

// NewProduct creates a draft product with version 0 and records a
// ProductCreatedEvent.
func NewProduct(id uuid.UUID, sku Sku, name, description string, price Money, categoryID *uuid.UUID, actorID string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if sku.IsZero() {
		return nil, &ValidationError{Field: "sku", Reason: "sku is required"}
	}
	if price.Currency() == "" {
		return nil, &ValidationError{Field: "price", Reason: "price currency is required"}
	}
	p := &Product{
		id:            id,
		sku:           sku,
		name:          name,
		description:   description,
		price:         price,
		status:        StatusDraft,
		categoryID:    categoryID,
		version:       0,
		storedVersion: -1,
		createdBy:     actorID,
		updatedBy:     actorID,
	}
	p.record(ProductCreatedEvent{ProductID: id, SKU: sku.Value(), Name: name, Price: price})
	return p, nil
}

// RehydrateProduct rebuilds an aggregate from its stored representation.
// Reserved for the persistence layer.
func RehydrateProduct(
	id uuid.UUID,
	sku Sku,
	name, description string,
	price Money,
	status Status,
	categoryID *uuid.UUID,
	version int64,
	createdAt time.Time, createdBy string,
	updatedAt time.Time, updatedBy string,
) *Product {
	return &Product{
		id:            id,
		sku:           sku,
		name:          name,
		description:   description,
		price:         price,
		status:        status,
		categoryID:    categoryID,
		version:       version,
		storedVersion: version,
		createdAt:     createdAt,
		createdBy:     createdBy,
		updatedAt:     updatedAt,
		updatedBy:     updatedBy,
	}
}

func validateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Field: "name", Reason: "name exceeds maximum length"}
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "description exceeds maximum length"}
	}
	return nil
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) SKU() Sku               { return p.sku }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Price() Money           { return p.price }
func (p *Product) Status() Status         { return p.status }
func (p *Product) CategoryID() *uuid.UUID { return p.categoryID }
func (p *Product) Version() int64         { return p.version }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) CreatedBy() string      { return p.createdBy }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
func (p *Product) UpdatedBy() string      { return p.updatedBy }

// IsAvailable is derived from the lifecycle status.
func (p *Product) IsAvailable() bool {
	return p.status == StatusPublished
}

// StoredVersion returns the version the repository last read from or wrote to
// storage. It is the expected value of the optimistic concurrency check.
func (p *Product) StoredVersion() int64 {
	return p.storedVersion
}

// UpdateDetails renames the product and replaces its description. Non-status
// mutations stay legal on discontinued products.
func (p *Product) UpdateDetails(name, description, actorID string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	p.name = name
	p.description = description
	p.touch(actorID)
	return nil
}

// UpdatePrice replaces the price and records a ProductPriceChangedEvent.
// Setting the same price again is a no-op. The replacement itself has no
// currency constraint; switching currencies is allowed.
func (p *Product) UpdatePrice(newPrice Money, actorID string) error {
	if newPrice.Currency() == "" {
		return &ValidationError{Field: "price", Reason: "price currency is required"}
	}
	if p.price.Equals(newPrice) {
		return nil
	}
	old := p.price
	p.price = newPrice
	p.touch(actorID)
	p.record(ProductPriceChangedEvent{ProductID: p.id, OldPrice: old, NewPrice: newPrice})
	return nil
}

// ChangeCategory points the product at a different external category, or
// detaches it when categoryID is nil.
func (p *Product) ChangeCategory(categoryID *uuid.UUID, actorID string) {
	p.categoryID = categoryID
	p.touch(actorID)
}

// Publish moves a draft product to published.
func (p *Product) Publish(actorID string) error {
	if !p.status.canTransitionTo(StatusPublished) {
		return &InvalidStateTransitionError{From: p.status, To: StatusPublished}
	}
	p.status = StatusPublished
	p.touch(actorID)
	p.record(ProductPublishedEvent{ProductID: p.id, SKU: p.sku.Value()})
	return nil
}

// Discontinue moves a published product to its terminal state.
func (p *Product) Discontinue(actorID string) error {
	if !p.status.canTransitionTo(StatusDiscontinued) {
		return &InvalidStateTransitionError{From: p.status, To: StatusDiscontinued}
	}
	p.status = StatusDiscontinued
	p.touch(actorID)
	p.record(ProductDiscontinuedEvent{ProductID: p.id, SKU: p.sku.Value()})
	return nil
}

func (p *Product) touch(actorID string) {
	p.version++
	p.updatedBy = actorID
}

func (p *Product) record(event DomainEvent) {
	p.events = append(p.events, event)
}

// PendingEvents returns a copy of the events collected since the last flush.
func (p *Product) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// DrainEvents returns the pending events and clears the buffer. Reserved for
// the persistence layer.
func (p *Product) DrainEvents() []DomainEvent {
	events := p.events
	p.events = nil
	return events
}

// MarkPersisted records that the current version is now the stored one.
// Reserved for the persistence layer.
func (p *Product) MarkPersisted() {
	p.storedVersion = p.version
}

// StampCreated sets both audit timestamps on first insert. Reserved for the
// persistence layer.
func (p *Product) StampCreated(at time.Time) {
	p.createdAt = at
	p.updatedAt = at
}

// StampUpdated refreshes the modification timestamp. Reserved for the
// persistence layer.
func (p *Product) StampUpdated(at time.Time) {
	p.updatedAt = at
}
