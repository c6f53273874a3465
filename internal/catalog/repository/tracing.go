package repository

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/catalog-service/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracedProductRepository wraps a ProductRepository with tracing spans for
// every read; staged writes are cheap and traced as part of the flush.
type TracedProductRepository struct {
	inner domain.ProductRepository
}

// NewTracedProductRepository creates the tracing decorator.
func NewTracedProductRepository(inner domain.ProductRepository) *TracedProductRepository {
	return &TracedProductRepository{inner: inner}
}

func (r *TracedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.GetByID",
		trace.WithAttributes(attribute.String("product.id", id.String())),
	)
	defer span.End()

	product, err := r.inner.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("product.found", product != nil))
	return product, nil
}

func (r *TracedProductRepository) GetBySKU(ctx context.Context, sku domain.Sku) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.GetBySKU",
		trace.WithAttributes(attribute.String("product.sku", sku.Value())),
	)
	defer span.End()

	product, err := r.inner.GetBySKU(ctx, sku)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Bool("product.found", product != nil))
	return product, nil
}

func (r *TracedProductRepository) Add(ctx context.Context, product *domain.Product) error {
	return r.inner.Add(ctx, product)
}

func (r *TracedProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.inner.Update(ctx, product)
}

func (r *TracedProductRepository) Remove(ctx context.Context, product *domain.Product) error {
	return r.inner.Remove(ctx, product)
}

func (r *TracedProductRepository) Search(ctx context.Context, spec domain.ProductSpecification) ([]*domain.Product, int64, error) {
	attrs := []attribute.KeyValue{attribute.String("search.term", spec.Term)}
	if spec.Page != nil {
		attrs = append(attrs,
			attribute.Int("search.skip", spec.Page.Skip),
			attribute.Int("search.take", spec.Page.Take),
		)
	}
	ctx, span := tracer.Start(ctx, "repository.Search", trace.WithAttributes(attrs...))
	defer span.End()

	products, total, err := r.inner.Search(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}
	span.SetAttributes(
		attribute.Int("search.returned", len(products)),
		attribute.Int64("search.total", total),
	)
	return products, total, nil
}

func (r *TracedProductRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	ctx, span := tracer.Start(ctx, "repository.CountByStatus")
	defer span.End()

	counts, err := r.inner.CountByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return counts, nil
}
