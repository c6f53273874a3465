package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortKey selects the single ordering of a product query. Last writer wins;
// there is no multi-key ordering.
type SortKey int

const (
	// SortByNameAsc is the default ordering.
	SortByNameAsc SortKey = iota
	SortByPriceDesc
)

// PageWindow is a pagination window over the filtered result set.
type PageWindow struct {
	Skip int
	Take int
}

// ProductSpecification is an immutable, declarative description of a product
// query: a conjunction of optional clauses, one sort key and an optional
// paging window. It carries no behavior beyond describing the query; each
// storage backend owns a single translation of this structure.
type ProductSpecification struct {
	// Term matches case-insensitively as a substring of name OR sku.
	// An empty term is skipped.
	Term       string
	Status     *Status
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       SortKey
	Page       *PageWindow
}

// SearchSpecification composes the combined search predicate: every provided
// clause is ANDed, OR appears only between the name and sku term match.
func SearchSpecification(term string, status *Status, categoryID *uuid.UUID, minPrice, maxPrice *decimal.Decimal, orderByPriceDescending bool) ProductSpecification {
	spec := ProductSpecification{
		Term:       strings.TrimSpace(term),
		Status:     status,
		CategoryID: categoryID,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       SortByNameAsc,
	}
	if orderByPriceDescending {
		spec.Sort = SortByPriceDesc
	}
	return spec
}

// WithPaging returns a copy of the specification with a paging window.
func (s ProductSpecification) WithPaging(skip, take int) ProductSpecification {
	s.Page = &PageWindow{Skip: skip, Take: take}
	return s
}

// WithSort returns a copy of the specification with the given sort key.
func (s ProductSpecification) WithSort(key SortKey) ProductSpecification {
	s.Sort = key
	return s
}

// Matches evaluates the predicate against an in-memory product. The storage
// translation must preserve exactly this logical structure.
func (s ProductSpecification) Matches(p *Product) bool {
	if s.Term != "" {
		term := strings.ToLower(s.Term)
		name := strings.ToLower(p.Name())
		sku := strings.ToLower(p.SKU().Value())
		if !strings.Contains(name, term) && !strings.Contains(sku, term) {
			return false
		}
	}
	if s.Status != nil && p.Status() != *s.Status {
		return false
	}
	if s.CategoryID != nil {
		if p.CategoryID() == nil || *p.CategoryID() != *s.CategoryID {
			return false
		}
	}
	if s.MinPrice != nil && p.Price().Amount().LessThan(*s.MinPrice) {
		return false
	}
	if s.MaxPrice != nil && p.Price().Amount().GreaterThan(*s.MaxPrice) {
		return false
	}
	return true
}
