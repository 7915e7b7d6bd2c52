package user

import (
	"context"

	"falcon-storefront/internal/domain"
)

// Repository persists users and their address books.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error

	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	CreateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, a domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
}
