package catalog

import (
	"github.com/google/wire"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/usecase/command"
	"github.com/tair/catalog-service/internal/catalog/usecase/query"
)

// Command Handlers Providers
func ProvideCreateProductHandler(factory domain.UnitOfWorkFactory) *command.CreateProductHandler {
	return command.NewCreateProductHandler(factory)
}

func ProvideUpdateProductHandler(factory domain.UnitOfWorkFactory) *command.UpdateProductHandler {
	return command.NewUpdateProductHandler(factory)
}

func ProvideDeleteProductHandler(factory domain.UnitOfWorkFactory) *command.DeleteProductHandler {
	return command.NewDeleteProductHandler(factory)
}

// Query Handlers Providers
func ProvideGetProductHandler(factory domain.UnitOfWorkFactory) *query.GetProductHandler {
	return query.NewGetProductHandler(factory)
}

func ProvideSearchProductsHandler(factory domain.UnitOfWorkFactory) *query.SearchProductsHandler {
	return query.NewSearchProductsHandler(factory)
}

func ProvideGetStatsHandler(factory domain.UnitOfWorkFactory) *query.GetStatsHandler {
	return query.NewGetStatsHandler(factory)
}

// Wire sets
var CommandHandlerSet = wire.NewSet(
	ProvideCreateProductHandler,
	ProvideUpdateProductHandler,
	ProvideDeleteProductHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetProductHandler,
	ProvideSearchProductsHandler,
	ProvideGetStatsHandler,
)

var AllHandlersSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
)
