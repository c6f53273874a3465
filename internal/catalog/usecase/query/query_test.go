package query

import (
	"context"
	"fmt"
	"testing"

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
	"github.com/tair/catalog-service/internal/catalog/usecase/command"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

func newFactory(t *testing.T) *repository.GormUnitOfWorkFactory {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	factory := repository.NewGormUnitOfWorkFactory(db, domain.SystemClock{}, nil, zerolog.Nop())
	require.NoError(t, factory.AutoMigrate())
	return factory
}

func createProduct(t *testing.T, factory *repository.GormUnitOfWorkFactory, sku, name, price string) *dto.ProductView {
	t.Helper()
	view, err := command.NewCreateProductHandler(factory).Handle(context.Background(), command.CreateProductCommand{
		SKU:      sku,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		ActorID:  "seeder",
	})
	require.NoError(t, err)
	return view
}

func TestGetProduct(t *testing.T) {
	factory := newFactory(t)

	created := createProduct(t, factory, "WID-001", "Widget", "9.99")

	view, err := NewGetProductHandler(factory).Handle(context.Background(), GetProductQuery{ID: created.ID})
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, created.ID, view.ID)
	assert.Equal(t, "Widget", view.Name)
	assert.Equal(t, string(domain.StatusDraft), view.Status)
	assert.Equal(t, int64(0), view.Version)
}

func TestGetProduct_MissReturnsNil(t *testing.T) {
	factory := newFactory(t)

	view, err := NewGetProductHandler(factory).Handle(context.Background(), GetProductQuery{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestGetProduct_EmptyIDRejected(t *testing.T) {
	factory := newFactory(t)

	_, err := NewGetProductHandler(factory).Handle(context.Background(), GetProductQuery{})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSearchProducts_Defaults(t *testing.T) {
	factory := newFactory(t)

	createProduct(t, factory, "AAA-01", "Alpha", "10")
	createProduct(t, factory, "BBB-01", "Beta", "20")

	result, err := NewSearchProductsHandler(factory).Handle(context.Background(), SearchProductsQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, 1, result.PageNumber)
	assert.Equal(t, 20, result.PageSize)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasPreviousPage)
	assert.False(t, result.HasNextPage)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Alpha", result.Items[0].Name)
}

func TestSearchProducts_PaginationMath(t *testing.T) {
	factory := newFactory(t)

	for i := 0; i < 45; i++ {
		createProduct(t, factory, fmt.Sprintf("SKU-%03d", i), fmt.Sprintf("Product %03d", i), "10")
	}

	handler := NewSearchProductsHandler(factory)
	ctx := context.Background()

	first, err := handler.Handle(ctx, SearchProductsQuery{PageNumber: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(45), first.TotalCount)
	assert.Equal(t, 3, first.TotalPages)
	assert.Len(t, first.Items, 20)
	assert.False(t, first.HasPreviousPage)
	assert.True(t, first.HasNextPage)

	last, err := handler.Handle(ctx, SearchProductsQuery{PageNumber: 3, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.True(t, last.HasPreviousPage)
	assert.False(t, last.HasNextPage)
	assert.Equal(t, "Product 040", last.Items[0].Name)
}

func TestSearchProducts_EmptyResult(t *testing.T) {
	factory := newFactory(t)

	result, err := NewSearchProductsHandler(factory).Handle(context.Background(), SearchProductsQuery{Term: "nothing"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.TotalCount)
	assert.Equal(t, 0, result.TotalPages)
	assert.Empty(t, result.Items)
	assert.False(t, result.HasNextPage)
}

func TestSearchProducts_TermAndPriceFilter(t *testing.T) {
	factory := newFactory(t)

	createProduct(t, factory, "BLU-01", "Blue Shirt", "20")
	createProduct(t, factory, "BLU-02", "Blue Shirt Deluxe", "50")
	createProduct(t, factory, "PNT-01", "Pants", "20")

	max := decimal.RequireFromString("25")
	result, err := NewSearchProductsHandler(factory).Handle(context.Background(), SearchProductsQuery{
		Term:     "shirt",
		MaxPrice: &max,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Blue Shirt", result.Items[0].Name)
}

func TestSearchProducts_InvalidStatusRejected(t *testing.T) {
	factory := newFactory(t)

	status := "archived"
	_, err := NewSearchProductsHandler(factory).Handle(context.Background(), SearchProductsQuery{Status: &status})
	var invalid *domain.InvalidValueError
	assert.ErrorAs(t, err, &invalid)
}

func TestSearchProducts_InvertedPriceBoundsRejected(t *testing.T) {
	factory := newFactory(t)

	min := decimal.RequireFromString("50")
	max := decimal.RequireFromString("10")
	_, err := NewSearchProductsHandler(factory).Handle(context.Background(), SearchProductsQuery{
		MinPrice: &min,
		MaxPrice: &max,
	})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGetStats(t *testing.T) {
	factory := newFactory(t)
	ctx := context.Background()

	createProduct(t, factory, "AAA-01", "Alpha", "10")
	createProduct(t, factory, "BBB-01", "Beta", "10")
	published := createProduct(t, factory, "CCC-01", "Gamma", "10")

	status := string(domain.StatusPublished)
	_, err := command.NewUpdateProductHandler(factory).Handle(ctx, command.UpdateProductCommand{
		ID:      published.ID,
		Status:  &status,
		ActorID: "seeder",
	})
	require.NoError(t, err)

	stats, err := NewGetStatsHandler(factory).Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.ByStatus[string(domain.StatusDraft)])
	assert.Equal(t, int64(1), stats.ByStatus[string(domain.StatusPublished)])
}

func TestGetStats_EmptyCatalog(t *testing.T) {
	factory := newFactory(t)

	stats, err := NewGetStatsHandler(factory).Handle(context.Background(), GetStatsQuery{})
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.Empty(t, stats.ByStatus)
}
