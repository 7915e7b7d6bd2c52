package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"falcon-storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// JSONImporter reads a catalog export (a JSON array of products) and
// inserts/updates products one by one.
type JSONImporter struct {
	reader      io.Reader
	productRepo ProductWriter
}

func NewJSONImporter(r io.Reader, repo ProductWriter) *JSONImporter {
	return &JSONImporter{reader: r, productRepo: repo}
}

// Run parses the export and upserts every product. It stops at the first
// invalid entry so a bad export does not half-apply silently.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var products []domain.Product
	dec := json.NewDecoder(i.reader)
	if err := dec.Decode(&products); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	imported := 0
	for idx, p := range products {
		if err := validate(p); err != nil {
			return imported, fmt.Errorf("product %d (%q): %w", idx, p.ID, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}
	return imported, nil
}

func validate(p domain.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("missing name")
	case p.Price <= 0:
		return fmt.Errorf("price must be positive, got %d", p.Price)
	case p.OriginalPrice != nil && *p.OriginalPrice < p.Price:
		return fmt.Errorf("original price %d below price %d", *p.OriginalPrice, p.Price)
	}
	return nil
}
