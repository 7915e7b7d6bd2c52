package product

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"falcon-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `
id, name, price, original_price, image, images, description, category, subcategory, brand,
rating, reviews, in_stock, featured, is_new, is_on_sale, specifications, colors, sizes,
created_at, updated_at`

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	switch {
	case f.Category != "" && f.Featured:
		q += ` WHERE category = $1 AND featured`
		args = append(args, f.Category)
	case f.Category != "":
		q += ` WHERE category = $1`
		args = append(args, f.Category)
	case f.Featured:
		q += ` WHERE featured`
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category=%q error=%v", f.Category, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	specsJSON, err := json.Marshal(p.Specifications)
	if err != nil {
		return nil, err
	}

	q := `
INSERT INTO products (
    id, name, price, original_price, image, images, description, category, subcategory, brand,
    rating, reviews, in_stock, featured, is_new, is_on_sale, specifications, colors, sizes
) VALUES (
    COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9, $10,
    $11, $12, $13, $14, $15, $16, $17, $18, $19
)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    image = EXCLUDED.image,
    images = EXCLUDED.images,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    subcategory = EXCLUDED.subcategory,
    brand = EXCLUDED.brand,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    in_stock = EXCLUDED.in_stock,
    featured = EXCLUDED.featured,
    is_new = EXCLUDED.is_new,
    is_on_sale = EXCLUDED.is_on_sale,
    specifications = EXCLUDED.specifications,
    colors = EXCLUDED.colors,
    sizes = EXCLUDED.sizes,
    updated_at = now()
RETURNING ` + productColumns

	stored, err := scanProduct(r.pool.QueryRow(
		ctx, q,
		p.ID, p.Name, p.Price, p.OriginalPrice, p.Image, p.Images, p.Description,
		p.Category, p.Subcategory, p.Brand, p.Rating, p.Reviews, p.InStock,
		p.Featured, p.IsNew, p.IsOnSale, specsJSON, p.Colors, p.Sizes,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return nil, err
	}
	return stored, nil
}

func (r *postgresRepo) SetInStock(ctx context.Context, id string, inStock bool) error {
	return r.setFlag(ctx, `UPDATE products SET in_stock = $1, updated_at = now() WHERE id = $2`, id, inStock)
}

func (r *postgresRepo) SetFeatured(ctx context.Context, id string, featured bool) error {
	return r.setFlag(ctx, `UPDATE products SET featured = $1, updated_at = now() WHERE id = $2`, id, featured)
}

func (r *postgresRepo) setFlag(ctx context.Context, q, id string, value bool) error {
	cmd, err := r.pool.Exec(ctx, q, value, id)
	if err != nil {
		r.logger.Printf("product repo: set flag id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var specsJSON []byte
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.OriginalPrice,
		&p.Image,
		&p.Images,
		&p.Description,
		&p.Category,
		&p.Subcategory,
		&p.Brand,
		&p.Rating,
		&p.Reviews,
		&p.InStock,
		&p.Featured,
		&p.IsNew,
		&p.IsOnSale,
		&specsJSON,
		&p.Colors,
		&p.Sizes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(specsJSON) > 0 {
		if err := json.Unmarshal(specsJSON, &p.Specifications); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
