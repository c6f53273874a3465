package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

type change struct {
	kind    changeKind
	product *domain.Product
}

// GormProductRepository implements domain.ProductRepository using GORM.
// Reads run against the owning unit of work's current session (the open
// transaction when there is one); writes are staged and applied on the next
// flush.
type GormProductRepository struct {
	session func() *gorm.DB
	stage   func(change)
}

func (r *GormProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var record productRecord
	err := r.session().WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by id: %w", err)
	}
	return record.toDomain()
}

func (r *GormProductRepository) GetBySKU(ctx context.Context, sku domain.Sku) (*domain.Product, error) {
	var record productRecord
	err := r.session().WithContext(ctx).First(&record, "sku = ?", sku.Value()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by sku: %w", err)
	}
	return record.toDomain()
}

func (r *GormProductRepository) Add(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return fmt.Errorf("add product: %w", domain.ErrInvalidArgument)
	}
	r.stage(change{kind: changeInsert, product: product})
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return fmt.Errorf("update product: %w", domain.ErrInvalidArgument)
	}
	if product.StoredVersion() < 0 {
		return fmt.Errorf("update of a product that was never persisted: %w", domain.ErrInvalidArgument)
	}
	r.stage(change{kind: changeUpdate, product: product})
	return nil
}

func (r *GormProductRepository) Remove(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return fmt.Errorf("remove product: %w", domain.ErrInvalidArgument)
	}
	r.stage(change{kind: changeDelete, product: product})
	return nil
}

func (r *GormProductRepository) Search(ctx context.Context, spec domain.ProductSpecification) ([]*domain.Product, int64, error) {
	if spec.Page != nil && (spec.Page.Skip < 0 || spec.Page.Take <= 0) {
		return nil, 0, fmt.Errorf("paging window (skip=%d, take=%d): %w", spec.Page.Skip, spec.Page.Take, domain.ErrInvalidArgument)
	}

	sess := r.session().WithContext(ctx)

	var total int64
	if err := applySpecification(sess.Model(&productRecord{}), spec).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := applySort(applySpecification(sess.Model(&productRecord{}), spec), spec.Sort)
	if spec.Page != nil {
		query = query.Offset(spec.Page.Skip).Limit(spec.Page.Take)
	}

	var records []productRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		product, err := records[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, nil
}

func (r *GormProductRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.session().WithContext(ctx).
		Model(&productRecord{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products by status: %w", err)
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[domain.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// applySpecification translates the declarative query descriptor into WHERE
// clauses. The logical structure is a conjunction of optional clauses; OR
// appears only between the name and sku term match.
func applySpecification(query *gorm.DB, spec domain.ProductSpecification) *gorm.DB {
	if spec.Term != "" {
		pattern := "%" + strings.ToLower(spec.Term) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}
	if spec.Status != nil {
		query = query.Where("status = ?", string(*spec.Status))
	}
	if spec.CategoryID != nil {
		query = query.Where("category_id = ?", *spec.CategoryID)
	}
	if spec.MinPrice != nil {
		query = query.Where("price_amount >= CAST(? AS NUMERIC)", spec.MinPrice.String())
	}
	if spec.MaxPrice != nil {
		query = query.Where("price_amount <= CAST(? AS NUMERIC)", spec.MaxPrice.String())
	}
	return query
}

func applySort(query *gorm.DB, key domain.SortKey) *gorm.DB {
	switch key {
	case domain.SortByPriceDesc:
		return query.Order("price_amount DESC")
	default:
		return query.Order("name ASC")
	}
}
