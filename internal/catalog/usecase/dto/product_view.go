package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// ProductView is the read model returned by queries and command results. It
// flattens the aggregate's value objects into plain serializable fields.
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	IsAvailable bool            `json:"is_available"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UpdatedBy   string          `json:"updated_by,omitempty"`
}

// FromProduct maps the aggregate to its read model.
func FromProduct(p *domain.Product) ProductView {
	return ProductView{
		ID:          p.ID(),
		SKU:         p.SKU().Value(),
		Name:        p.Name(),
		Description: p.Description(),
		Price:       p.Price().Amount(),
		Currency:    p.Price().Currency(),
		Status:      string(p.Status()),
		IsAvailable: p.IsAvailable(),
		CategoryID:  p.CategoryID(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		CreatedBy:   p.CreatedBy(),
		UpdatedAt:   p.UpdatedAt(),
		UpdatedBy:   p.UpdatedBy(),
	}
}
