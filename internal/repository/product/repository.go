package product

import (
	"context"

	"falcon-storefront/internal/domain"
)

// Filter narrows List results. Zero values mean no filtering.
type Filter struct {
	Category string
	Featured bool
}

// Repository persists and fetches catalog products.
type Repository interface {
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetInStock(ctx context.Context, id string, inStock bool) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
}
