package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

// CreateProductCommand represents the command to create a new product.
type CreateProductCommand struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	CategoryID  *uuid.UUID
	ActorID     string
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(factory domain.UnitOfWorkFactory) *CreateProductHandler {
	return &CreateProductHandler{factory: factory}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*dto.ProductView, error) {
	sku, err := domain.NewSku(cmd.SKU)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(cmd.Price, cmd.Currency)
	if err != nil {
		return nil, err
	}

	uow := h.factory.New()
	var view dto.ProductView

	err = uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		existing, err := uow.Products().GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("sku %s: %w", sku.Value(), domain.ErrDuplicateSKU)
		}

		product, err := domain.NewProduct(uuid.New(), sku, cmd.Name, cmd.Description, price, cmd.CategoryID, cmd.ActorID)
		if err != nil {
			return err
		}
		if err := uow.Products().Add(ctx, product); err != nil {
			return err
		}
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		view = dto.FromProduct(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
