package importer

import (
	"context"
	"strings"
	"testing"

	"falcon-storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestJSONImporter_Run(t *testing.T) {
	catalog := `[
  {
    "id": "1",
    "name": "Premium Leather iPhone Case",
    "price": 1299,
    "originalPrice": 1599,
    "category": "accessories",
    "subcategory": "phone-cases",
    "brand": "Falcon Premium",
    "inStock": true,
    "featured": true,
    "colors": ["Black", "Brown"],
    "sizes": ["iPhone 14", "iPhone 15"]
  },
  {
    "id": "2",
    "name": "Clear Crystal Case",
    "price": 599,
    "category": "accessories",
    "inStock": true
  }
]`

	repo := &stubProductRepo{}
	imp := NewJSONImporter(strings.NewReader(catalog), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.ID != "1" || first.Name != "Premium Leather iPhone Case" || first.Price != 1299 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.OriginalPrice == nil || *first.OriginalPrice != 1599 {
		t.Fatalf("expected original price preserved, got %+v", first.OriginalPrice)
	}
	if len(first.Colors) != 2 || len(first.Sizes) != 2 {
		t.Fatalf("expected variants preserved: %+v", first)
	}
}

func TestJSONImporter_RejectsInvalidPrice(t *testing.T) {
	catalog := `[{"id": "1", "name": "Freebie", "price": 0}]`

	repo := &stubProductRepo{}
	imp := NewJSONImporter(strings.NewReader(catalog), repo)

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no products saved, got %d", len(repo.items))
	}
}

func TestJSONImporter_RejectsDiscountAboveOriginal(t *testing.T) {
	catalog := `[{"id": "1", "name": "Odd Sale", "price": 1599, "originalPrice": 1299}]`

	imp := NewJSONImporter(strings.NewReader(catalog), &stubProductRepo{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for original price below price")
	}
}

func TestJSONImporter_StopsAtFirstInvalid(t *testing.T) {
	catalog := `[
  {"id": "1", "name": "Good", "price": 100},
  {"id": "2", "name": "", "price": 100},
  {"id": "3", "name": "Never reached", "price": 100}
]`

	repo := &stubProductRepo{}
	imp := NewJSONImporter(strings.NewReader(catalog), repo)

	count, err := imp.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for missing name")
	}
	if count != 1 || len(repo.items) != 1 {
		t.Fatalf("expected one product imported before failure, got %d", count)
	}
}
