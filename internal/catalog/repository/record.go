package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// productRecord is the storage representation of the Product aggregate. The
// repository and unit of work exclusively own this shape; the aggregate never
// sees it. Audit timestamps are stamped by the unit of work, not by GORM.
type productRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SKU           string          `gorm:"column:sku;size:50;not null;uniqueIndex"`
	Name          string          `gorm:"size:200;not null"`
	Description   string          `gorm:"size:2000"`
	PriceAmount   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	PriceCurrency string          `gorm:"size:3;not null"`
	Status        string          `gorm:"size:16;not null;index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	Version       int64           `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false"`
	CreatedBy     string          `gorm:"size:64"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime:false"`
	UpdatedBy     string          `gorm:"size:64"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

// TableName specifies the table name
func (productRecord) TableName() string {
	return "products"
}

func recordFromProduct(p *domain.Product) productRecord {
	return productRecord{
		ID:            p.ID(),
		SKU:           p.SKU().Value(),
		Name:          p.Name(),
		Description:   p.Description(),
		PriceAmount:   p.Price().Amount(),
		PriceCurrency: p.Price().Currency(),
		Status:        string(p.Status()),
		CategoryID:    p.CategoryID(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		CreatedBy:     p.CreatedBy(),
		UpdatedAt:     p.UpdatedAt(),
		UpdatedBy:     p.UpdatedBy(),
	}
}

func (r *productRecord) toDomain() (*domain.Product, error) {
	sku, err := domain.NewSku(r.SKU)
	if err != nil {
		return nil, fmt.Errorf("stored sku is corrupt: %w", err)
	}
	price, err := domain.NewMoney(r.PriceAmount, r.PriceCurrency)
	if err != nil {
		return nil, fmt.Errorf("stored price is corrupt: %w", err)
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status is corrupt: %w", err)
	}
	return domain.RehydrateProduct(
		r.ID, sku, r.Name, r.Description, price, status, r.CategoryID,
		r.Version, r.CreatedAt, r.CreatedBy, r.UpdatedAt, r.UpdatedBy,
	), nil
}
