//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"

	"github.com/tair/catalog-service/internal/catalog/delivery/http"
	"github.com/tair/catalog-service/internal/catalog/domain"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(factory domain.UnitOfWorkFactory) (*http.ProductHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewProductHandlerWithDI,
	)
	return nil, nil
}
