package product

import (
	"context"
	"strings"

	"falcon-storefront/internal/domain"
	productrepo "falcon-storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f productrepo.Filter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Search matches the query against product names, brands and categories,
// case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Product, error) {
	all, err := s.repo.List(ctx, productrepo.Filter{})
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	matched := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *Service) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return s.repo.Upsert(ctx, p)
}

func (s *Service) SetInStock(ctx context.Context, id string, inStock bool) error {
	return s.repo.SetInStock(ctx, id, inStock)
}

func (s *Service) SetFeatured(ctx context.Context, id string, featured bool) error {
	return s.repo.SetFeatured(ctx, id, featured)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
