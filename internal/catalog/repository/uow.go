package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// ErrNoActiveTransaction reports transaction-protocol misuse: committing or
// rolling back without an open transaction. This is a programmer error, not
// a user-facing condition.
var ErrNoActiveTransaction = errors.New("no active transaction")

// GormUnitOfWork implements domain.UnitOfWork on a GORM session. It owns the
// connection for one logical request, stages repository writes, stamps audit
// timestamps before every flush and dispatches collected domain events after
// the writes are durable: directly after a flush outside a transaction, after
// the commit inside one.
type GormUnitOfWork struct {
	db         *gorm.DB
	tx         *gorm.DB
	clock      domain.Clock
	dispatcher domain.EventDispatcher
	logger     zerolog.Logger

	products  domain.ProductRepository
	pending   []change
	collected []domain.DomainEvent
}

// NewGormUnitOfWork creates a unit of work bound to the given connection pool.
func NewGormUnitOfWork(db *gorm.DB, clock domain.Clock, dispatcher domain.EventDispatcher, logger zerolog.Logger) *GormUnitOfWork {
	u := &GormUnitOfWork{
		db:         db,
		clock:      clock,
		dispatcher: dispatcher,
		logger:     logger,
	}
	u.products = NewTracedProductRepository(&GormProductRepository{
		session: u.session,
		stage:   u.stageChange,
	})
	return u
}

// session returns the open transaction when there is one, the base
// connection otherwise.
func (u *GormUnitOfWork) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *GormUnitOfWork) stageChange(c change) {
	u.pending = append(u.pending, c)
}

func (u *GormUnitOfWork) Products() domain.ProductRepository {
	return u.products
}

// BeginTransaction opens a transaction. Calling it while one is already open
// is a no-op with a warning.
func (u *GormUnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.tx != nil {
		u.logger.Warn().Msg("BeginTransaction called with a transaction already open")
		return nil
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	u.tx = tx
	return nil
}

// SaveChanges stamps audit metadata and applies the staged writes through the
// current session. Outside a transaction the collected domain events are
// dispatched immediately; inside one they are held until the commit.
func (u *GormUnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	affected, events, err := u.flush(ctx)
	if err != nil {
		return 0, err
	}
	if u.tx == nil {
		u.dispatch(ctx, events)
	} else {
		u.collected = append(u.collected, events...)
	}
	return affected, nil
}

// CommitTransaction flushes pending changes, then commits. If either step
// fails the transaction is rolled back and the original error is returned;
// a rollback failure is logged but never masks it.
func (u *GormUnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	_, events, err := u.flush(ctx)
	if err != nil {
		u.rollbackAfterFailure(err)
		return err
	}
	events = append(u.collected, events...)
	if commitErr := u.tx.Commit().Error; commitErr != nil {
		u.rollbackAfterFailure(commitErr)
		return fmt.Errorf("failed to commit transaction: %w", commitErr)
	}
	u.tx = nil
	u.collected = nil
	u.dispatch(ctx, events)
	return nil
}

// RollbackTransaction discards the open transaction together with all staged
// writes and collected events.
func (u *GormUnitOfWork) RollbackTransaction(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	u.pending = nil
	u.collected = nil
	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// ExecuteInTransaction runs op inside a transaction. When one is already open
// the operation joins it; otherwise a new transaction is opened, committed on
// success and rolled back when op fails. Cancellation surfaces through op and
// takes the rollback path, so partial writes are never left committed.
func (u *GormUnitOfWork) ExecuteInTransaction(ctx context.Context, op func(ctx context.Context) error) error {
	if u.tx != nil {
		return op(ctx)
	}
	if err := u.BeginTransaction(ctx); err != nil {
		return err
	}
	if err := op(ctx); err != nil {
		if rbErr := u.RollbackTransaction(ctx); rbErr != nil {
			u.logger.Error().Err(rbErr).Msg("Rollback after failed operation also failed")
		}
		return err
	}
	return u.CommitTransaction(ctx)
}

// flush applies all staged changes through the current session. Events are
// drained and versions synced only after every change has been applied, so a
// mid-flush failure leaves the aggregates intact for the rollback path.
func (u *GormUnitOfWork) flush(ctx context.Context) (int, []domain.DomainEvent, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if len(u.pending) == 0 {
		return 0, nil, nil
	}

	sess := u.session().WithContext(ctx)
	now := u.clock.Now()

	for _, c := range u.pending {
		switch c.kind {
		case changeInsert:
			c.product.StampCreated(now)
			record := recordFromProduct(c.product)
			if err := sess.Create(&record).Error; err != nil {
				return 0, nil, fmt.Errorf("failed to insert product %s: %w", record.ID, err)
			}

		case changeUpdate:
			c.product.StampUpdated(now)
			record := recordFromProduct(c.product)
			result := sess.Model(&productRecord{}).
				Where("id = ? AND version = ?", record.ID, c.product.StoredVersion()).
				Updates(map[string]interface{}{
					"name":           record.Name,
					"description":    record.Description,
					"price_amount":   record.PriceAmount,
					"price_currency": record.PriceCurrency,
					"status":         record.Status,
					"category_id":    record.CategoryID,
					"version":        record.Version,
					"updated_at":     record.UpdatedAt,
					"updated_by":     record.UpdatedBy,
				})
			if result.Error != nil {
				return 0, nil, fmt.Errorf("failed to update product %s: %w", record.ID, result.Error)
			}
			if result.RowsAffected == 0 {
				return 0, nil, fmt.Errorf("product %s expected at version %d: %w",
					record.ID, c.product.StoredVersion(), domain.ErrConcurrencyConflict)
			}

		case changeDelete:
			result := sess.Where("id = ?", c.product.ID()).Delete(&productRecord{})
			if result.Error != nil {
				return 0, nil, fmt.Errorf("failed to delete product %s: %w", c.product.ID(), result.Error)
			}
			if result.RowsAffected == 0 {
				return 0, nil, fmt.Errorf("product %s: %w", c.product.ID(), domain.ErrNotFound)
			}
		}
	}

	affected := len(u.pending)
	events := make([]domain.DomainEvent, 0, affected)
	for _, c := range u.pending {
		events = append(events, c.product.DrainEvents()...)
		c.product.MarkPersisted()
	}
	u.pending = nil
	return affected, events, nil
}

func (u *GormUnitOfWork) rollbackAfterFailure(causeErr error) {
	if u.tx == nil {
		return
	}
	if err := u.tx.Rollback().Error; err != nil {
		u.logger.Error().Err(err).AnErr("cause", causeErr).Msg("Rollback after failure also failed")
	}
	u.tx = nil
	u.pending = nil
	u.collected = nil
}

func (u *GormUnitOfWork) dispatch(ctx context.Context, events []domain.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if u.dispatcher == nil {
		u.logger.Debug().Int("count", len(events)).Msg("No event dispatcher wired; dropping domain events")
		return
	}
	u.dispatcher.Dispatch(ctx, events)
}

// GormUnitOfWorkFactory creates one GormUnitOfWork per logical request over a
// shared connection pool.
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	clock      domain.Clock
	dispatcher domain.EventDispatcher
	logger     zerolog.Logger
}

// NewGormUnitOfWorkFactory creates the factory.
func NewGormUnitOfWorkFactory(db *gorm.DB, clock domain.Clock, dispatcher domain.EventDispatcher, logger zerolog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, clock: clock, dispatcher: dispatcher, logger: logger}
}

func (f *GormUnitOfWorkFactory) New() domain.UnitOfWork {
	return NewGormUnitOfWork(f.db, f.clock, f.dispatcher, f.logger)
}

// AutoMigrate creates or updates the products table.
func (f *GormUnitOfWorkFactory) AutoMigrate() error {
	return f.db.AutoMigrate(&productRecord{})
}
