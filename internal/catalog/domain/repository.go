package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductRepository is the persistence gateway for the Product aggregate.
// Reads execute immediately; writes are staged in the owning unit of work and
// applied on its next flush. Absence on reads is a valid result, not a
// failure: GetByID and GetBySKU return (nil, nil) on a miss.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetBySKU(ctx context.Context, sku Sku) (*Product, error)
	Add(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Remove(ctx context.Context, product *Product) error

	// Search translates the specification into a storage query and returns the
	// requested page together with the total count of the filtered set.
	Search(ctx context.Context, spec ProductSpecification) ([]*Product, int64, error)

	// CountByStatus returns the catalog size broken down by lifecycle status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

// UnitOfWork is the transactional boundary for one logical request. It owns
// the database session for its lifetime, stamps audit metadata before every
// flush and dispatches collected domain events exactly once after the writes
// are durable.
type UnitOfWork interface {
	Products() ProductRepository
	SaveChanges(ctx context.Context) (int, error)
	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	ExecuteInTransaction(ctx context.Context, op func(ctx context.Context) error) error
}

// UnitOfWorkFactory creates one unit of work per logical request. Units of
// work are never shared across concurrent requests.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// Clock supplies the current UTC time for audit stamping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// EventDispatcher delivers collected domain events to in-process subscribers.
// Delivery is best-effort: a unit of work without a dispatcher drops events
// silently.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []DomainEvent)
}
