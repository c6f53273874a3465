package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/repository"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

type recordingDispatcher struct {
	events []domain.DomainEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, events []domain.DomainEvent) {
	d.events = append(d.events, events...)
}

func newFactory(t *testing.T) (*repository.GormUnitOfWorkFactory, *recordingDispatcher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	dispatcher := &recordingDispatcher{}
	factory := repository.NewGormUnitOfWorkFactory(db, domain.SystemClock{}, dispatcher, zerolog.Nop())
	require.NoError(t, factory.AutoMigrate())
	return factory, dispatcher
}

func createCommand() CreateProductCommand {
	return CreateProductCommand{
		SKU:      "WID-001",
		Name:     "Widget",
		Price:    decimal.RequireFromString("9.99"),
		Currency: "USD",
		ActorID:  "alice",
	}
}

func mustCreate(t *testing.T, factory *repository.GormUnitOfWorkFactory, cmd CreateProductCommand) *dto.ProductView {
	t.Helper()
	view, err := NewCreateProductHandler(factory).Handle(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, view)
	return view
}

func TestCreateProduct(t *testing.T) {
	factory, dispatcher := newFactory(t)

	view := mustCreate(t, factory, createCommand())

	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "WID-001", view.SKU)
	assert.Equal(t, "Widget", view.Name)
	assert.Equal(t, string(domain.StatusDraft), view.Status)
	assert.False(t, view.IsAvailable)
	assert.Equal(t, int64(0), view.Version)
	assert.Equal(t, "alice", view.CreatedBy)
	assert.WithinDuration(t, time.Now().UTC(), view.CreatedAt, 5*time.Second)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventProductCreated, dispatcher.events[0].EventName())
}

func TestCreateProduct_NormalizesSku(t *testing.T) {
	factory, _ := newFactory(t)

	cmd := createCommand()
	cmd.SKU = "  wid-001 "
	view := mustCreate(t, factory, cmd)
	assert.Equal(t, "WID-001", view.SKU)
}

func TestCreateProduct_DuplicateSkuRejected(t *testing.T) {
	factory, _ := newFactory(t)

	mustCreate(t, factory, createCommand())

	cmd := createCommand()
	cmd.Name = "Another Widget"
	_, err := NewCreateProductHandler(factory).Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestCreateProduct_InvalidInputRejected(t *testing.T) {
	factory, dispatcher := newFactory(t)
	handler := NewCreateProductHandler(factory)

	badSku := createCommand()
	badSku.SKU = "!!"
	_, err := handler.Handle(context.Background(), badSku)
	var invalid *domain.InvalidValueError
	assert.ErrorAs(t, err, &invalid)

	badCurrency := createCommand()
	badCurrency.Currency = "DOLLARS"
	_, err = handler.Handle(context.Background(), badCurrency)
	assert.ErrorAs(t, err, &invalid)

	noName := createCommand()
	noName.Name = ""
	_, err = handler.Handle(context.Background(), noName)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)

	assert.Empty(t, dispatcher.events)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	factory, _ := newFactory(t)

	created := mustCreate(t, factory, createCommand())

	name := "Widget Pro"
	view, err := NewUpdateProductHandler(factory).Handle(context.Background(), UpdateProductCommand{
		ID:      created.ID,
		Name:    &name,
		ActorID: "bob",
	})
	require.NoError(t, err)

	assert.Equal(t, "Widget Pro", view.Name)
	assert.Equal(t, created.Description, view.Description)
	assert.True(t, created.Price.Equal(view.Price))
	assert.Equal(t, int64(1), view.Version)
	assert.Equal(t, "bob", view.UpdatedBy)
	assert.Equal(t, "alice", view.CreatedBy)
}

func TestUpdateProduct_PriceChangeEmitsEvent(t *testing.T) {
	factory, dispatcher := newFactory(t)

	created := mustCreate(t, factory, createCommand())
	dispatcher.events = nil

	price := decimal.RequireFromString("19.99")
	currency := "USD"
	view, err := NewUpdateProductHandler(factory).Handle(context.Background(), UpdateProductCommand{
		ID:       created.ID,
		Price:    &price,
		Currency: &currency,
		ActorID:  "bob",
	})
	require.NoError(t, err)
	assert.True(t, price.Equal(view.Price))

	require.Len(t, dispatcher.events, 1)
	changed, ok := dispatcher.events[0].(domain.ProductPriceChangedEvent)
	require.True(t, ok)
	assert.Equal(t, "9.99", changed.OldPrice.Amount().StringFixed(2))
	assert.Equal(t, "19.99", changed.NewPrice.Amount().StringFixed(2))
}

func TestUpdateProduct_SamePriceIsNoop(t *testing.T) {
	factory, dispatcher := newFactory(t)

	created := mustCreate(t, factory, createCommand())
	dispatcher.events = nil

	price := decimal.RequireFromString("9.99")
	currency := "USD"
	view, err := NewUpdateProductHandler(factory).Handle(context.Background(), UpdateProductCommand{
		ID:       created.ID,
		Price:    &price,
		Currency: &currency,
		ActorID:  "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.Version)
	assert.Empty(t, dispatcher.events)
}

func TestUpdateProduct_PriceWithoutCurrencyRejected(t *testing.T) {
	factory, _ := newFactory(t)

	created := mustCreate(t, factory, createCommand())

	price := decimal.RequireFromString("19.99")
	_, err := NewUpdateProductHandler(factory).Handle(context.Background(), UpdateProductCommand{
		ID:      created.ID,
		Price:   &price,
		ActorID: "bob",
	})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "price", validation.Field)
}

func TestUpdateProduct_StatusTransitions(t *testing.T) {
	factory, dispatcher := newFactory(t)
	handler := NewUpdateProductHandler(factory)
	ctx := context.Background()

	created := mustCreate(t, factory, createCommand())
	dispatcher.events = nil

	published := string(domain.StatusPublished)
	view, err := handler.Handle(ctx, UpdateProductCommand{ID: created.ID, Status: &published, ActorID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, published, view.Status)
	assert.True(t, view.IsAvailable)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domain.EventProductPublished, dispatcher.events[0].EventName())

	// draft is behind published; moving back is illegal
	draft := string(domain.StatusDraft)
	_, err = handler.Handle(ctx, UpdateProductCommand{ID: created.ID, Status: &draft, ActorID: "bob"})
	var transition *domain.InvalidStateTransitionError
	assert.ErrorAs(t, err, &transition)

	discontinued := string(domain.StatusDiscontinued)
	view, err = handler.Handle(ctx, UpdateProductCommand{ID: created.ID, Status: &discontinued, ActorID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, discontinued, view.Status)
	assert.False(t, view.IsAvailable)
}

func TestUpdateProduct_MissingProduct(t *testing.T) {
	factory, _ := newFactory(t)

	name := "Ghost"
	_, err := NewUpdateProductHandler(factory).Handle(context.Background(), UpdateProductCommand{
		ID:      uuid.New(),
		Name:    &name,
		ActorID: "bob",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProduct_FailedMutationRollsBack(t *testing.T) {
	factory, _ := newFactory(t)
	ctx := context.Background()

	created := mustCreate(t, factory, createCommand())

	// the name change is staged before the illegal transition fails the op
	name := "Widget Pro"
	discontinued := string(domain.StatusDiscontinued)
	_, err := NewUpdateProductHandler(factory).Handle(ctx, UpdateProductCommand{
		ID:      created.ID,
		Name:    &name,
		Status:  &discontinued,
		ActorID: "bob",
	})
	var transition *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &transition)

	loaded, err := factory.New().Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", loaded.Name())
	assert.Equal(t, int64(0), loaded.Version())
}

func TestDeleteProduct(t *testing.T) {
	factory, _ := newFactory(t)
	ctx := context.Background()

	created := mustCreate(t, factory, createCommand())

	err := NewDeleteProductHandler(factory).Handle(ctx, DeleteProductCommand{ID: created.ID, ActorID: "bob"})
	require.NoError(t, err)

	loaded, err := factory.New().Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDeleteProduct_Missing(t *testing.T) {
	factory, _ := newFactory(t)

	err := NewDeleteProductHandler(factory).Handle(context.Background(), DeleteProductCommand{ID: uuid.New(), ActorID: "bob"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
