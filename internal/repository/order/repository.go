package order

import (
	"context"

	"falcon-storefront/internal/domain"
)

// Repository persists orders and their line items.
type Repository interface {
	// Create stores the order and every line item in a single transaction.
	// A duplicate order number surfaces as domain.ErrAlreadyExists.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string, trackingNumber *string) (*domain.Order, error)
}
