package cartstore

import (
	"context"
	"errors"

	"falcon-storefront/internal/domain"
)

// Store keeps cart lines per owner between requests. An owner is either an
// authenticated user id or a guest session id; each session touches only its
// own key.
type Store interface {
	Get(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	Save(ctx context.Context, ownerID string, lines []domain.CartLine) error
	Delete(ctx context.Context, ownerID string) error
}

// ErrNotFound is returned when no cart is stored for the owner.
var ErrNotFound = errors.New("cart not found")
