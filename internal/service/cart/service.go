package cart

import (
	"context"
	"errors"

	cartledger "falcon-storefront/internal/cart"
	"falcon-storefront/internal/domain"
	"falcon-storefront/internal/repository/cartstore"
)

// ErrProductNotFound is returned when an added product id is unknown.
var ErrProductNotFound = errors.New("product not found")

// Service runs cart operations for one owner at a time: load the stored
// lines, apply the ledger mutation, store the result, return the snapshot.
type Service struct {
	store    cartStore
	products productRepo
}

type cartStore interface {
	Get(ctx context.Context, ownerID string) ([]domain.CartLine, error)
	Save(ctx context.Context, ownerID string, lines []domain.CartLine) error
	Delete(ctx context.Context, ownerID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(store cartstore.Store, products productRepo) *Service {
	return &Service{store: store, products: products}
}

// Get returns the owner's current snapshot; an owner with no stored cart gets
// an empty one.
func (s *Service) Get(ctx context.Context, ownerID string) (domain.CartSnapshot, error) {
	ledger, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return ledger.Snapshot(), nil
}

// Add puts one unit of the product with the chosen variant into the cart.
// No stock check happens here; the cart is non-authoritative local state.
func (s *Service) Add(ctx context.Context, ownerID, productID string, color, size *string) (domain.CartSnapshot, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.CartSnapshot{}, ErrProductNotFound
		}
		return domain.CartSnapshot{}, err
	}

	ledger, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	snap := ledger.Add(*product, color, size)
	return snap, s.store.Save(ctx, ownerID, snap.Lines)
}

// Remove drops every variant line of the product.
func (s *Service) Remove(ctx context.Context, ownerID, productID string) (domain.CartSnapshot, error) {
	ledger, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	snap := ledger.Remove(productID)
	return snap, s.store.Save(ctx, ownerID, snap.Lines)
}

// SetQuantity sets the quantity on the product's lines; zero or less deletes
// them.
func (s *Service) SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (domain.CartSnapshot, error) {
	ledger, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	snap := ledger.SetQuantity(productID, quantity)
	return snap, s.store.Save(ctx, ownerID, snap.Lines)
}

// UpdateVariant overwrites the chosen color and/or size on the product's
// lines.
func (s *Service) UpdateVariant(ctx context.Context, ownerID, productID string, color, size *string) (domain.CartSnapshot, error) {
	ledger, err := s.load(ctx, ownerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	snap := ledger.UpdateVariant(productID, color, size)
	return snap, s.store.Save(ctx, ownerID, snap.Lines)
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, ownerID string) (domain.CartSnapshot, error) {
	if err := s.store.Delete(ctx, ownerID); err != nil {
		return domain.CartSnapshot{}, err
	}
	return cartledger.NewLedger().Snapshot(), nil
}

func (s *Service) load(ctx context.Context, ownerID string) (*cartledger.Ledger, error) {
	lines, err := s.store.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return cartledger.NewLedger(), nil
		}
		return nil, err
	}
	return cartledger.FromLines(lines), nil
}
