package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/catalog-service/internal/catalog/domain"
	"github.com/tair/catalog-service/internal/catalog/usecase/dto"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
	maxPageSize       = 100
)

// SearchProductsQuery represents the query to search the catalog.
type SearchProductsQuery struct {
	Term                   string
	Status                 *string
	CategoryID             *uuid.UUID
	MinPrice               *decimal.Decimal
	MaxPrice               *decimal.Decimal
	OrderByPriceDescending bool
	PageNumber             int
	PageSize               int
}

// PaginatedResult carries one page of read models plus the paging metadata
// computed over the unpaged match count.
type PaginatedResult struct {
	Items           []dto.ProductView `json:"items"`
	TotalCount      int64             `json:"total_count"`
	PageNumber      int               `json:"page_number"`
	PageSize        int               `json:"page_size"`
	TotalPages      int               `json:"total_pages"`
	HasPreviousPage bool              `json:"has_previous_page"`
	HasNextPage     bool              `json:"has_next_page"`
}

// SearchProductsHandler handles search products query
type SearchProductsHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewSearchProductsHandler creates a new search products handler
func NewSearchProductsHandler(factory domain.UnitOfWorkFactory) *SearchProductsHandler {
	return &SearchProductsHandler{factory: factory}
}

// Handle executes the search products query
func (h *SearchProductsHandler) Handle(ctx context.Context, q SearchProductsQuery) (*PaginatedResult, error) {
	pageNumber := q.PageNumber
	if pageNumber <= 0 {
		pageNumber = defaultPageNumber
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var status *domain.Status
	if q.Status != nil {
		parsed, err := domain.ParseStatus(*q.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, &domain.ValidationError{Field: "min_price", Reason: "must not exceed max_price"}
	}

	spec := domain.SearchSpecification(q.Term, status, q.CategoryID, q.MinPrice, q.MaxPrice, q.OrderByPriceDescending).
		WithPaging((pageNumber-1)*pageSize, pageSize)

	products, total, err := h.factory.New().Products().Search(ctx, spec)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProductView, 0, len(products))
	for _, p := range products {
		items = append(items, dto.FromProduct(p))
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PaginatedResult{
		Items:           items,
		TotalCount:      total,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
	}, nil
}
