package query

import (
	"context"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

// CatalogStats summarizes the catalog for the stats endpoint.
type CatalogStats struct {
	TotalProducts int64            `json:"total_products"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// GetStatsHandler handles catalog statistics query
type GetStatsHandler struct {
	factory domain.UnitOfWorkFactory
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(factory domain.UnitOfWorkFactory) *GetStatsHandler {
	return &GetStatsHandler{factory: factory}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*CatalogStats, error) {
	counts, err := h.factory.New().Products().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &CatalogStats{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		stats.ByStatus[string(status)] = count
		stats.TotalProducts += count
	}
	return stats, nil
}
