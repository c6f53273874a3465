package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// DeleteProductCommand represents the command to delete a product.
type DeleteProductCommand struct {
	ID      uuid.UUID
	ActorID string
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(factory domain.UnitOfWorkFactory) *DeleteProductHandler {
	return &DeleteProductHandler{factory: factory}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == uuid.Nil {
		return &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	uow := h.factory.New()
	return uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
		product, err := uow.Products().GetByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("product %s: %w", cmd.ID, domain.ErrNotFound)
		}
		if err := uow.Products().Remove(ctx, product); err != nil {
			return err
		}
		_, err = uow.SaveChanges(ctx)
		return err
	})
}
