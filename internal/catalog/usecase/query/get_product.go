package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID uuid.UUID
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(factory domain.UnitOfWorkFactory) *GetProductHandler {
	return &GetProductHandler{factory: factory}
}

// Handle executes the get product query. A missing product returns (nil, nil);
// callers decide whether absence is an error.
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*dto.ProductView, error) {
	if q.ID == uuid.Nil {
		return nil, &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	product, err := h.factory.New().Products().GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	view := dto.FromProduct(product)
	return &view, nil
}
