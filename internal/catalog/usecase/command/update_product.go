package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

// UpdateProductCommand represents the command to update a product. Nil
// pointers mean "leave unchanged"; Price and Currency must come together.
type UpdateProductCommand struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Currency    *string
	CategoryID  *uuid.UUID
	Status      *string
	ActorID     string
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(factory domain.UnitOfWorkFactory) *UpdateProductHandler {
	return &UpdateProductHandler{factory: factory}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*dto.ProductView, error) {
	if cmd.ID == uuid.Nil {
		return nil, &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if (cmd.Price == nil) != (cmd.Currency == nil) {
		return nil, &domain.ValidationError{Field: "price", Reason: "price and currency must be provided together"}
	}

	uow := h.factory.New()
	var view dto.ProductView

	err := uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		product, err := uow.Products().GetByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("product %s: %w", cmd.ID, domain.ErrNotFound)
		}

		if cmd.Name != nil || cmd.Description != nil {
			name := product.Name()
			if cmd.Name != nil {
				name = *cmd.Name
			}
			description := product.Description()
			if cmd.Description != nil {
				description = *cmd.Description
			}
			if err := product.UpdateDetails(name, description, cmd.ActorID); err != nil {
				return err
			}
		}

		if cmd.Price != nil {
			price, err := domain.NewMoney(*cmd.Price, *cmd.Currency)
			if err != nil {
				return err
			}
			if err := product.UpdatePrice(price, cmd.ActorID); err != nil {
				return err
			}
		}

		if cmd.CategoryID != nil {
			product.ChangeCategory(cmd.CategoryID, cmd.ActorID)
		}

		if cmd.Status != nil {
			target, err := domain.ParseStatus(*cmd.Status)
			if err != nil {
				return err
			}
			switch target {
			case domain.StatusPublished:
				err = product.Publish(cmd.ActorID)
			case domain.StatusDiscontinued:
				err = product.Discontinue(cmd.ActorID)
			default:
				err = &domain.InvalidStateTransitionError{From: product.Status(), To: target}
			}
			if err != nil {
				return err
			}
		}

		if err := uow.Products().Update(ctx, product); err != nil {
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
